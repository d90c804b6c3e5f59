package mrp

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/vsinha/bomplan/pkg/application/dto"
	"github.com/vsinha/bomplan/pkg/domain/entities"
)

// ErrEmptyTree is returned when planning is asked for without a BOM
var ErrEmptyTree = errors.New("bom tree is empty")

// ErrHorizonTooLong is returned when the schedule plus the cumulative lead
// time would cover more than MaxHorizonPeriods periods
var ErrHorizonTooLong = fmt.Errorf("%w: planning horizon too long", entities.ErrInvalidSchedule)

// MaxHorizonPeriods bounds the number of periods a single plan may cover
const MaxHorizonPeriods = 20_000

// EngineConfig holds configuration for the MRP engine
type EngineConfig struct {
	// EnableGCPacing enables GC tuning for large plans
	EnableGCPacing bool
	// MaxCacheEntries limits the result cache size (0 = unlimited, <0 = disabled)
	MaxCacheEntries int
}

// largePlanCells is the ledger size above which GC pacing kicks in
const largePlanCells = 200_000

type cachedPlan struct {
	result     *dto.MRPResult
	computedAt time.Time
}

// MRPService plans material requirements over BOM trees and memoizes results
// by tree signature and schedule.
type MRPService struct {
	config EngineConfig

	planCache  map[string]*cachedPlan
	cacheMutex sync.RWMutex
}

// NewMRPService creates a new MRP service with default configuration
func NewMRPService() *MRPService {
	return NewMRPServiceWithConfig(EngineConfig{
		EnableGCPacing:  true,
		MaxCacheEntries: 256,
	})
}

// NewMRPServiceWithConfig creates a new MRP service with custom configuration
func NewMRPServiceWithConfig(config EngineConfig) *MRPService {
	return &MRPService{
		config:    config,
		planCache: make(map[string]*cachedPlan),
	}
}

// Plan returns the MRP result for tree and schedule, reusing an earlier
// result for an identical tree and schedule. Returned results are shared
// and must be treated as read-only.
func (s *MRPService) Plan(tree *entities.BOMNode, schedule entities.Schedule) (*dto.MRPResult, error) {
	if tree == nil {
		return nil, ErrEmptyTree
	}
	if s.config.MaxCacheEntries < 0 {
		return s.compute(tree, schedule)
	}

	key := tree.Signature() + "|" + schedule.Key()

	s.cacheMutex.RLock()
	cached, exists := s.planCache[key]
	s.cacheMutex.RUnlock()
	if exists {
		return cached.result, nil
	}

	result, err := s.compute(tree, schedule)
	if err != nil {
		return nil, err
	}

	s.cacheMutex.Lock()
	s.planCache[key] = &cachedPlan{result: result, computedAt: time.Now()}
	s.cacheMutex.Unlock()

	s.cleanCacheIfNeeded()
	return result, nil
}

func (s *MRPService) compute(tree *entities.BOMNode, schedule entities.Schedule) (*dto.MRPResult, error) {
	if s.config.EnableGCPacing {
		periods, err := Horizon(tree, schedule)
		if err != nil {
			return nil, err
		}
		if tree.Count()*len(periods) > largePlanCells {
			oldGCPercent := debug.SetGCPercent(50)
			defer debug.SetGCPercent(oldGCPercent)
		}
	}
	return Plan(tree, schedule)
}

// CacheSize returns the number of memoized plans
func (s *MRPService) CacheSize() int {
	s.cacheMutex.RLock()
	defer s.cacheMutex.RUnlock()
	return len(s.planCache)
}

// cleanCacheIfNeeded evicts the oldest plan once the cache exceeds its limit
func (s *MRPService) cleanCacheIfNeeded() {
	if s.config.MaxCacheEntries <= 0 {
		return
	}

	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	for len(s.planCache) > s.config.MaxCacheEntries {
		var oldestTime time.Time
		var oldestKey string

		for key, value := range s.planCache {
			if oldestTime.IsZero() || value.computedAt.Before(oldestTime) {
				oldestTime = value.computedAt
				oldestKey = key
			}
		}

		delete(s.planCache, oldestKey)
	}
}

// Plan computes the MRP ledgers of every component in tree for schedule.
// It does not modify tree and gives identical results for identical input.
func Plan(tree *entities.BOMNode, schedule entities.Schedule) (*dto.MRPResult, error) {
	if tree == nil {
		return nil, ErrEmptyTree
	}
	periods, err := Horizon(tree, schedule)
	if err != nil {
		return nil, err
	}
	book := newLedgerBook(periods)
	NewBOMTraverser().Traverse(tree, RootRequirements(periods, schedule), book)

	return &dto.MRPResult{
		Periods: periods,
		Entries: book.entries,
		Order:   DisplayOrder(tree, book.entries),
	}, nil
}

// Horizon returns every period from the earliest order time minus the
// longest cumulative lead time up to and including 0. The schedule is
// validated first and the horizon may not exceed MaxHorizonPeriods.
func Horizon(tree *entities.BOMNode, schedule entities.Schedule) ([]int, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	span := -schedule.EarliestTime()
	lead := tree.MaxCumulativeLeadTime()
	if lead > MaxHorizonPeriods-span {
		return nil, fmt.Errorf("%w: %d schedule periods plus %d lead time periods exceed %d",
			ErrHorizonTooLong, span, lead, MaxHorizonPeriods)
	}

	start := -span - lead
	periods := make([]int, 0, -start+1)
	for p := start; p <= 0; p++ {
		periods = append(periods, p)
	}
	return periods, nil
}

// RootRequirements places each order's demand at its period. Orders that
// land on the same period are summed, so none of their demand is lost.
func RootRequirements(periods []int, schedule entities.Schedule) []float64 {
	byPeriod := schedule.DemandByPeriod()
	gr := make([]float64, len(periods))
	for i, p := range periods {
		gr[i] = float64(byPeriod[p])
	}
	return gr
}

// DisplayOrder lists the planned components top-down from the root, with any
// name missing from the tree appended alphabetically.
func DisplayOrder(tree *entities.BOMNode, entries map[string]*dto.MRPEntry) []string {
	order := make([]string, 0, len(entries))
	placed := make(map[string]bool, len(entries))
	for _, name := range tree.TopDownOrder() {
		if _, ok := entries[name]; ok {
			order = append(order, name)
			placed[name] = true
		}
	}

	rest := make([]string, 0)
	for name := range entries {
		if !placed[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}
