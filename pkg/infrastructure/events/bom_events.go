package events

import (
	"github.com/shopspring/decimal"
)

const (
	BOMSavedEvent            = "bom.saved"
	BOMValidationFailedEvent = "bom.validation_failed"
	EOQComputedEvent         = "eoq.computed"
	MRPComputedEvent         = "mrp.computed"
)

type BOMSaved struct {
	BOMID      string `json:"bom_id"`
	FolderID   string `json:"folder_id"`
	Name       string `json:"name"`
	Signature  string `json:"signature"`
	Components int    `json:"components"`
}

type ValidationFailed struct {
	FolderID string `json:"folder_id"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

type EOQComputed struct {
	BOMID        string `json:"bom_id,omitempty"`
	Root         string `json:"root"`
	AnnualDemand int64  `json:"annual_demand"`
	Rows         int    `json:"rows"`
}

type MRPComputed struct {
	BOMID     string          `json:"bom_id,omitempty"`
	Root      string          `json:"root"`
	Periods   int             `json:"periods"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Dropped   int             `json:"dropped_releases"`
}
