package gamedata

import (
	"fmt"
	"sort"

	"shield-optimizer/internal/search"
	"shield-optimizer/internal/shield"
)

// Catalog holds the parsed fitting data: vehicles, booster variants, the
// unengineered generator prototypes, and every engineered generator variant
// grouped by type and class. Lookups hand out copies, so callers can mutate
// what they get back.
type Catalog struct {
	vehicles   map[string]*shield.Vehicle
	prototypes map[string]*shield.Generator
	variants   map[shield.GenType]map[int][]*shield.Generator
	boosters   []*shield.Booster
}

// Vehicles lists the known vehicle names, sorted.
func (c *Catalog) Vehicles() []string {
	names := make([]string, 0, len(c.vehicles))
	for name := range c.vehicles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Vehicle returns a copy of the named vehicle.
func (c *Catalog) Vehicle(name string) (*shield.Vehicle, error) {
	v, ok := c.vehicles[name]
	if !ok {
		return nil, fmt.Errorf("gamedata: unknown vehicle %q", name)
	}
	out := *v
	out.InternalBays = make(map[int]int, len(v.InternalBays))
	for slot, class := range v.InternalBays {
		out.InternalBays[slot] = class
	}
	return &out, nil
}

// Prototype returns a copy of the unengineered generator with the given
// symbol, or nil if there is none.
func (c *Catalog) Prototype(symbol string) *shield.Generator {
	g, ok := c.prototypes[symbol]
	if !ok {
		return nil
	}
	out := *g
	return &out
}

// CompatibleClasses reports the range of generator classes the vehicle can
// mount: the smallest class whose mass ceiling exceeds the hull mass, up to
// the class of the best internal bay. (0, 0) means nothing fits.
func (c *Catalog) CompatibleClasses(v *shield.Vehicle) (minClass, maxClass int) {
	byClass := c.variants[shield.GenBaseline]
	classes := make([]int, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	for _, class := range classes {
		if len(byClass[class]) > 0 && byClass[class][0].MaxMass > v.HullMass {
			minClass = class
			break
		}
	}
	_, maxClass = v.AvailableBay(v.HighestInternal)

	if minClass == 0 || maxClass == 0 || minClass > maxClass {
		return 0, 0
	}
	return minClass, maxClass
}

// LoadoutsForClass builds the candidate loadouts of one generator class:
// every engineered variant of every type fitted to the vehicle, lightweight
// first, then baseline, then the heavy variants when allowed. A class outside
// the compatible range falls back to the largest compatible one. Returns nil
// when no generator fits the vehicle at all.
func (c *Catalog) LoadoutsForClass(v *shield.Vehicle, class int, heavyAllowed bool) []*shield.Loadout {
	minClass, maxClass := c.CompatibleClasses(v)
	if maxClass == 0 {
		return nil
	}
	if class < minClass || class > maxClass {
		class = maxClass
	}

	var loadouts []*shield.Loadout
	add := func(t shield.GenType) {
		for _, g := range c.variants[t][class] {
			variant := *g
			loadouts = append(loadouts, shield.NewLoadout(&variant, v))
		}
	}
	add(shield.GenLightweight)
	add(shield.GenBaseline)
	if heavyAllowed {
		add(shield.GenHeavy)
	}
	return loadouts
}

// Boosters returns the booster variants to test. The short list drops the
// near-redundant variants flagged in the data file, which shrinks the
// combination space considerably without changing the winner in practice.
func (c *Catalog) Boosters(shortList bool) []*shield.Booster {
	out := make([]*shield.Booster, 0, len(c.boosters))
	for _, b := range c.boosters {
		if b.CanSkip && shortList {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out
}

// NewRequest assembles a search request for the named vehicle with the usual
// defaults: the largest compatible generator class, heavy variants included,
// the short booster list, and every aux slot filled. The damage profile is
// left zero for the caller to fill in.
func (c *Catalog) NewRequest(vehicleName string) (*search.Request, error) {
	v, err := c.Vehicle(vehicleName)
	if err != nil {
		return nil, err
	}
	return &search.Request{
		Vehicle:      v,
		Loadouts:     c.LoadoutsForClass(v, 0, true),
		Boosters:     c.Boosters(true),
		BoosterCount: v.AuxSlots,
		HeavyAllowed: true,
	}, nil
}
