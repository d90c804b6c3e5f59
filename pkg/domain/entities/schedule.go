package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSchedule is returned for malformed demand schedules
var ErrInvalidSchedule = errors.New("invalid schedule")

const (
	// MaxSchedulePeriods bounds the distance between the first and the
	// earliest order of a schedule
	MaxSchedulePeriods = 10_000
	// MaxOrderDemand is the largest demand the float ledgers hold exactly
	MaxOrderDemand Quantity = 1 << 53
)

// DemandOrder is one demand for the final product. Offset counts periods
// before the previous order's time and is ignored for the first order.
type DemandOrder struct {
	Offset int      `json:"offset"`
	Demand Quantity `json:"demand"`
}

// RawOrder is an unparsed order as typed by a user
type RawOrder struct {
	Offset string `json:"offset"`
	Demand string `json:"demand"`
}

// Schedule is an ordered list of demand orders for the root component
type Schedule struct {
	Orders []DemandOrder `json:"orders"`
}

// NewSchedule creates a validated schedule
func NewSchedule(orders ...DemandOrder) (Schedule, error) {
	copied := make([]DemandOrder, len(orders))
	copy(copied, orders)

	s := Schedule{Orders: copied}
	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

// Validate checks that the schedule has orders, that offsets and demands
// are non-negative and bounded, and that the orders stay within
// MaxSchedulePeriods of each other.
func (s Schedule) Validate() error {
	if len(s.Orders) == 0 {
		return fmt.Errorf("%w: at least one order is required", ErrInvalidSchedule)
	}

	span := 0
	for i, order := range s.Orders {
		if order.Demand < 0 {
			return fmt.Errorf("%w: order %d has negative demand %d", ErrInvalidSchedule, i+1, order.Demand)
		}
		if order.Demand > MaxOrderDemand {
			return fmt.Errorf("%w: order %d demand %d exceeds %d", ErrInvalidSchedule, i+1, order.Demand, MaxOrderDemand)
		}
		if i == 0 {
			continue
		}
		if order.Offset < 0 {
			return fmt.Errorf("%w: order %d has negative offset %d", ErrInvalidSchedule, i+1, order.Offset)
		}
		// compare before adding so huge offsets cannot wrap
		if order.Offset > MaxSchedulePeriods-span {
			return fmt.Errorf("%w: orders span more than %d periods", ErrInvalidSchedule, MaxSchedulePeriods)
		}
		span += order.Offset
	}
	return nil
}

// ParseSchedule converts raw user input into a schedule. Empty fields read as
// zero; anything that is not an integer rejects the whole schedule.
func ParseSchedule(raw []RawOrder) (Schedule, error) {
	orders := make([]DemandOrder, 0, len(raw))
	for _, r := range raw {
		offset, err := parseScheduleInt(r.Offset)
		if err != nil {
			return Schedule{}, err
		}
		demand, err := parseScheduleInt(r.Demand)
		if err != nil {
			return Schedule{}, err
		}
		orders = append(orders, DemandOrder{Offset: offset, Demand: Quantity(demand)})
	}
	return NewSchedule(orders...)
}

func parseScheduleInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: offsets and demands must be integers", ErrInvalidSchedule)
	}
	return v, nil
}

// OrderTimes returns each order's absolute period: 0 for the first order,
// then the previous time minus the order's offset.
func (s Schedule) OrderTimes() []int {
	times := make([]int, len(s.Orders))
	for i := 1; i < len(s.Orders); i++ {
		times[i] = times[i-1] - s.Orders[i].Offset
	}
	return times
}

// EarliestTime returns the smallest order time, or 0 for an empty schedule
func (s Schedule) EarliestTime() int {
	earliest := 0
	for _, t := range s.OrderTimes() {
		if t < earliest {
			earliest = t
		}
	}
	return earliest
}

// DemandByPeriod sums order demands per absolute period. Orders landing on
// the same period add up rather than the later ones being ignored.
func (s Schedule) DemandByPeriod() map[int]Quantity {
	byPeriod := make(map[int]Quantity, len(s.Orders))
	for i, t := range s.OrderTimes() {
		byPeriod[t] += s.Orders[i].Demand
	}
	return byPeriod
}

// Key returns a stable textual form used for cache keys
func (s Schedule) Key() string {
	var b strings.Builder
	for i, order := range s.Orders {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "%d:%d", order.Offset, order.Demand)
	}
	return b.String()
}
