package samples

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomplan/pkg/domain/entities"
	"github.com/vsinha/bomplan/pkg/domain/repositories"
)

// FolderID is the folder the sample data is seeded into
const FolderID = "samples"

type componentDef struct {
	name                  string
	unit, ordering, carry string
	onHand                entities.Quantity
	leadTime              int
	lotSize               entities.Quantity
}

var alphaDefs = []componentDef{
	{name: "Alpha", unit: "0", ordering: "0", carry: "0", onHand: 10, leadTime: 1, lotSize: 1},
	{name: "B", unit: "0", ordering: "0", carry: "0", onHand: 20, leadTime: 2, lotSize: 1},
	{name: "C", unit: "0", ordering: "0", carry: "0", onHand: 0, leadTime: 3, lotSize: 1},
	{name: "D", unit: "0", ordering: "0", carry: "0", onHand: 100, leadTime: 1, lotSize: 1},
	{name: "E", unit: "0", ordering: "0", carry: "0", onHand: 10, leadTime: 1, lotSize: 1},
	{name: "F", unit: "0", ordering: "0", carry: "0", onHand: 50, leadTime: 1, lotSize: 1},
}

var skateDefs = []componentDef{
	{name: "Skate", unit: "0", ordering: "0", carry: "0", onHand: 650, leadTime: 2, lotSize: 1},
	{name: "Board", unit: "20", ordering: "50", carry: "4", onHand: 550, leadTime: 1, lotSize: 1},
	{name: "Trucks", unit: "20", ordering: "65", carry: "5", onHand: 15, leadTime: 2, lotSize: 100},
	{name: "Wheels", unit: "5", ordering: "100", carry: "1", onHand: 120, leadTime: 3, lotSize: 40},
	{name: "Screws", unit: "0.05", ordering: "50", carry: "0.01", onHand: 0, leadTime: 2, lotSize: 100},
	{name: "Tire", unit: "10", ordering: "80", carry: "2", onHand: 150, leadTime: 1, lotSize: 50},
	{name: "Rim", unit: "40", ordering: "100", carry: "6", onHand: 200, leadTime: 1, lotSize: 20},
}

func components(defs []componentDef) map[string]*entities.Component {
	out := make(map[string]*entities.Component, len(defs))
	for _, s := range defs {
		attrs, err := entities.NewAttributes(
			decimal.RequireFromString(s.unit),
			decimal.RequireFromString(s.ordering),
			decimal.RequireFromString(s.carry),
			s.onHand, s.leadTime, s.lotSize,
		)
		if err != nil {
			panic(err)
		}
		id := "cmp-" + strings.ToLower(s.name)
		c, err := entities.NewComponent(id, FolderID, s.name, attrs)
		if err != nil {
			panic(err)
		}
		out[s.name] = c
	}
	return out
}

// AlphaComponents returns the component definitions of the Alpha sample
func AlphaComponents() map[string]*entities.Component {
	return components(alphaDefs)
}

// SkateComponents returns the component definitions of the Skate sample
func SkateComponents() map[string]*entities.Component {
	return components(skateDefs)
}

func place(c *entities.Component, qty float64, children ...*entities.BOMNode) *entities.BOMNode {
	return &entities.BOMNode{
		Component:    c.Name,
		ComponentID:  c.ID,
		Attributes:   c.Attributes,
		Multiplicity: qty,
		Children:     children,
	}
}

// AlphaBOM builds Alpha -> B(1), C(1); B -> D(2), C(2); C -> E(1), F(1).
// C appears under both Alpha and B.
func AlphaBOM() *entities.BOMNode {
	c := AlphaComponents()
	subC := func(qty float64) *entities.BOMNode {
		return place(c["C"], qty, place(c["E"], 1), place(c["F"], 1))
	}
	return place(c["Alpha"], 1,
		place(c["B"], 1, place(c["D"], 2), subC(2)),
		subC(1),
	)
}

// SkateBOM builds Skate -> Board(1), Trucks(2), Wheels(4), Screws(8) and
// Wheels -> Tire(1), Rim(1), Screws(4). Screws appears on two levels.
func SkateBOM() *entities.BOMNode {
	c := SkateComponents()
	return place(c["Skate"], 1,
		place(c["Board"], 1),
		place(c["Trucks"], 2),
		place(c["Wheels"], 4, place(c["Tire"], 1), place(c["Rim"], 1), place(c["Screws"], 4)),
		place(c["Screws"], 8),
	)
}

// AlphaSchedule is 100 units at t=0, then 50 two periods earlier and 50
// three periods before that.
func AlphaSchedule() entities.Schedule {
	s, _ := entities.NewSchedule(
		entities.DemandOrder{Demand: 100},
		entities.DemandOrder{Offset: 2, Demand: 50},
		entities.DemandOrder{Offset: 3, Demand: 50},
	)
	return s
}

// SkateSchedule is four orders of 900, 800, 700 and 600 units
func SkateSchedule() entities.Schedule {
	s, _ := entities.NewSchedule(
		entities.DemandOrder{Demand: 900},
		entities.DemandOrder{Offset: 3, Demand: 800},
		entities.DemandOrder{Offset: 2, Demand: 700},
		entities.DemandOrder{Offset: 1, Demand: 600},
	)
	return s
}

// Seed writes the sample folder, components and BOMs into the given
// repositories and returns the saved BOMs.
func Seed(
	ctx context.Context,
	folders repositories.FolderRepository,
	componentRepo repositories.ComponentRepository,
	boms repositories.BOMRepository,
) ([]*entities.SavedBOM, error) {
	folder, err := entities.NewFolder(FolderID, "Samples")
	if err != nil {
		return nil, err
	}
	if err := folders.SaveFolder(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to save sample folder: %w", err)
	}

	for _, set := range []map[string]*entities.Component{AlphaComponents(), SkateComponents()} {
		for _, c := range set {
			if err := componentRepo.SaveComponent(ctx, c); err != nil {
				return nil, fmt.Errorf("failed to save sample component %s: %w", c.Name, err)
			}
		}
	}

	saved := make([]*entities.SavedBOM, 0, 2)
	for _, tree := range []*entities.BOMNode{AlphaBOM(), SkateBOM()} {
		bom, err := entities.NewSavedBOM("bom-"+strings.ToLower(tree.Component), FolderID, tree.Component, tree)
		if err != nil {
			return nil, err
		}
		if err := boms.SaveBOM(ctx, bom); err != nil {
			return nil, fmt.Errorf("failed to save sample bom %s: %w", bom.Name, err)
		}
		saved = append(saved, bom)
	}

	return saved, nil
}
