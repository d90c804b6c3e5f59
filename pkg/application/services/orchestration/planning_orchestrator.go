package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/vsinha/bomplan/pkg/application/dto"
	"github.com/vsinha/bomplan/pkg/application/services/eoq"
	"github.com/vsinha/bomplan/pkg/application/services/mrp"
	"github.com/vsinha/bomplan/pkg/domain/entities"
	"github.com/vsinha/bomplan/pkg/domain/repositories"
	"github.com/vsinha/bomplan/pkg/domain/services/bom_validator"
	"github.com/vsinha/bomplan/pkg/domain/services/bomgraph"
	"github.com/vsinha/bomplan/pkg/infrastructure/events"
)

// ErrInvalidTree is returned for trees with unnamed nodes or negative values
var ErrInvalidTree = errors.New("invalid bom tree")

// PlanningOrchestrator coordinates validation, tree conversion and the EOQ
// and MRP engines with the repositories that hold folders and saved BOMs.
type PlanningOrchestrator struct {
	validator  *bom_validator.BOMValidator
	expander   *bomgraph.Expander
	ids        bomgraph.IDGenerator
	eoqService *eoq.EOQService
	mrpService *mrp.MRPService
	folderRepo repositories.FolderRepository
	bomRepo    repositories.BOMRepository
	eventStore events.EventStore
}

// NewPlanningOrchestrator creates a new planning orchestrator. eventStore may
// be nil, in which case nothing is published.
func NewPlanningOrchestrator(
	eoqService *eoq.EOQService,
	mrpService *mrp.MRPService,
	folderRepo repositories.FolderRepository,
	bomRepo repositories.BOMRepository,
	eventStore events.EventStore,
) *PlanningOrchestrator {
	ids := bomgraph.UUIDGenerator{}
	return &PlanningOrchestrator{
		validator:  bom_validator.NewBOMValidator(),
		expander:   bomgraph.NewExpander(ids, bomgraph.DefaultLayout),
		ids:        ids,
		eoqService: eoqService,
		mrpService: mrpService,
		folderRepo: folderRepo,
		bomRepo:    bomRepo,
		eventStore: eventStore,
	}
}

// WithIDGenerator replaces the generator used for BOM ids and expanded graphs
func (po *PlanningOrchestrator) WithIDGenerator(ids bomgraph.IDGenerator) *PlanningOrchestrator {
	po.ids = ids
	po.expander = bomgraph.NewExpander(ids, bomgraph.DefaultLayout)
	return po
}

// Validate checks graph and publishes a failure event when it is rejected
func (po *PlanningOrchestrator) Validate(ctx context.Context, folderID string, graph entities.Graph) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := po.validator.Validate(graph)
	if err != nil {
		payload := events.ValidationFailed{FolderID: folderID, Message: err.Error()}
		var verr *bom_validator.ValidationError
		if errors.As(err, &verr) {
			payload.Kind = verr.Kind.String()
		}
		po.publish("folder-"+folderID, events.BOMValidationFailedEvent, payload)
	}
	return err
}

// Collapse validates graph and converts it into a BOM tree
func (po *PlanningOrchestrator) Collapse(ctx context.Context, folderID string, graph entities.Graph) (*entities.BOMNode, error) {
	if err := po.Validate(ctx, folderID, graph); err != nil {
		return nil, err
	}
	tree, err := bomgraph.Collapse(graph)
	if err != nil {
		return nil, err
	}
	if err := ValidateTree(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// SaveBOM validates and collapses graph, then stores the tree as a new
// snapshot in folderID.
func (po *PlanningOrchestrator) SaveBOM(
	ctx context.Context,
	folderID, name string,
	graph entities.Graph,
) (*entities.SavedBOM, error) {
	if _, err := po.folderRepo.GetFolder(ctx, folderID); err != nil {
		return nil, fmt.Errorf("failed to load folder %s: %w", folderID, err)
	}

	tree, err := po.Collapse(ctx, folderID, graph)
	if err != nil {
		return nil, err
	}

	bom, err := entities.NewSavedBOM("bom-"+po.ids.NewID(), folderID, name, tree)
	if err != nil {
		return nil, err
	}
	if err := po.bomRepo.SaveBOM(ctx, bom); err != nil {
		return nil, fmt.Errorf("failed to save bom: %w", err)
	}

	po.publish(bom.ID, events.BOMSavedEvent, events.BOMSaved{
		BOMID:      bom.ID,
		FolderID:   bom.FolderID,
		Name:       bom.Name,
		Signature:  bom.Signature,
		Components: len(bom.Tree.TopDownOrder()),
	})
	return bom, nil
}

// Expand loads a saved BOM and lays it out as a fresh graph at origin
func (po *PlanningOrchestrator) Expand(
	ctx context.Context,
	folderID, bomID string,
	origin entities.Position,
) (entities.Graph, error) {
	bom, err := po.bomRepo.GetBOM(ctx, folderID, bomID)
	if err != nil {
		return entities.Graph{}, fmt.Errorf("failed to load bom %s: %w", bomID, err)
	}
	return po.ExpandTree(bom.Tree, origin, folderID), nil
}

// ExpandTree lays out an ad-hoc tree
func (po *PlanningOrchestrator) ExpandTree(tree *entities.BOMNode, origin entities.Position, folderID string) entities.Graph {
	return po.expander.Expand(tree, origin, folderID)
}

// RunEOQ computes the EOQ table of a saved BOM
func (po *PlanningOrchestrator) RunEOQ(
	ctx context.Context,
	folderID, bomID string,
	annualDemand int64,
) (*dto.EOQResult, error) {
	bom, err := po.bomRepo.GetBOM(ctx, folderID, bomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bom %s: %w", bomID, err)
	}
	return po.eoqFor(bom.ID, bom.Tree, annualDemand), nil
}

// EOQForTree computes the EOQ table of an ad-hoc tree
func (po *PlanningOrchestrator) EOQForTree(tree *entities.BOMNode, annualDemand int64) (*dto.EOQResult, error) {
	if err := ValidateTree(tree); err != nil {
		return nil, err
	}
	return po.eoqFor("", tree, annualDemand), nil
}

func (po *PlanningOrchestrator) eoqFor(bomID string, tree *entities.BOMNode, annualDemand int64) *dto.EOQResult {
	result := po.eoqService.Compute(tree, annualDemand)
	po.publish(streamFor(bomID, tree), events.EOQComputedEvent, events.EOQComputed{
		BOMID:        bomID,
		Root:         result.Root,
		AnnualDemand: result.AnnualDemand,
		Rows:         len(result.Rows),
	})
	return result
}

// RunMRP plans a saved BOM against schedule
func (po *PlanningOrchestrator) RunMRP(
	ctx context.Context,
	folderID, bomID string,
	schedule entities.Schedule,
) (*dto.MRPResult, error) {
	bom, err := po.bomRepo.GetBOM(ctx, folderID, bomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bom %s: %w", bomID, err)
	}
	return po.mrpFor(bom.ID, bom.Tree, schedule)
}

// MRPForTree plans an ad-hoc tree against schedule
func (po *PlanningOrchestrator) MRPForTree(tree *entities.BOMNode, schedule entities.Schedule) (*dto.MRPResult, error) {
	if err := ValidateTree(tree); err != nil {
		return nil, err
	}
	return po.mrpFor("", tree, schedule)
}

func (po *PlanningOrchestrator) mrpFor(bomID string, tree *entities.BOMNode, schedule entities.Schedule) (*dto.MRPResult, error) {
	result, err := po.mrpService.Plan(tree, schedule)
	if err != nil {
		return nil, err
	}
	po.publish(streamFor(bomID, tree), events.MRPComputedEvent, events.MRPComputed{
		BOMID:     bomID,
		Root:      tree.Component,
		Periods:   len(result.Periods),
		TotalCost: result.TotalCost(),
		Dropped:   len(result.DroppedReleases()),
	})
	return result, nil
}

func (po *PlanningOrchestrator) publish(streamID, eventType string, data any) {
	if po.eventStore == nil {
		return
	}
	if err := po.eventStore.AppendEvent(streamID, events.NewEvent(eventType, streamID, data)); err != nil {
		log.Printf("planning: failed to publish %s: %v", eventType, err)
	}
}

func streamFor(bomID string, tree *entities.BOMNode) string {
	if bomID != "" {
		return bomID
	}
	return "tree-" + tree.Signature()[:12]
}

// ValidateTree rejects a nil tree and nodes with an empty name, a negative
// multiplicity or negative costs or stock.
func ValidateTree(tree *entities.BOMNode) error {
	if tree == nil {
		return mrp.ErrEmptyTree
	}
	return tree.Walk(func(n *entities.BOMNode, _ int) error {
		if _, err := entities.NewBOMNode(n.Component, n.ComponentID, n.Attributes, n.Multiplicity); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTree, err)
		}
		a := n.Attributes
		if _, err := entities.NewAttributes(a.UnitCost, a.OrderingCost, a.CarryingCost, a.NumberOnHand, a.LeadTime, a.LotSize); err != nil {
			return fmt.Errorf("%w: component %s: %w", ErrInvalidTree, n.Component, err)
		}
		return nil
	})
}
