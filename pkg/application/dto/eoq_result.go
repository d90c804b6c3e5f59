package dto

import "github.com/shopspring/decimal"

// EOQRow is the economic order quantity of one component
type EOQRow struct {
	Component         string          `json:"component"`
	Demand            float64         `json:"demand"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	OrderingCost      decimal.Decimal `json:"ordering_cost"`
	CarryingCost      decimal.Decimal `json:"carrying_cost"`
	EOQ               float64         `json:"eoq"`
	OrdersPerYear     float64         `json:"orders_per_year"`
	TimeBetweenOrders float64         `json:"time_between_orders"`
}

// EOQResult is the output of an EOQ run
type EOQResult struct {
	Root         string   `json:"root"`
	AnnualDemand int64    `json:"annual_demand"`
	Rows         []EOQRow `json:"rows"`
}
