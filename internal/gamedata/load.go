package gamedata

import (
	"fmt"

	"github.com/tidwall/gjson"

	"shield-optimizer/internal/shield"
)

// Load parses a fitting data document into a Catalog. Generator mass curves
// are validated here so a bad data file fails at startup instead of deep in a
// search; every curve the hot path sees is known to be sane.
func Load(dataJSON string) (*Catalog, error) {
	if !gjson.Valid(dataJSON) {
		return nil, fmt.Errorf("gamedata: not a valid JSON document")
	}
	root := gjson.Parse(dataJSON)

	c := &Catalog{
		vehicles:   make(map[string]*shield.Vehicle),
		prototypes: make(map[string]*shield.Generator),
		variants:   make(map[shield.GenType]map[int][]*shield.Generator),
	}

	root.Get("vehicles").ForEach(func(_, v gjson.Result) bool {
		vehicle := parseVehicle(v)
		c.vehicles[vehicle.Name] = vehicle
		return true
	})

	root.Get("booster_variants").ForEach(func(_, b gjson.Result) bool {
		c.boosters = append(c.boosters, parseBooster(b))
		return true
	})

	blueprints := parseRecipes(root.Get("generators.engineering.blueprints"))
	experimentals := parseRecipes(root.Get("generators.engineering.experimental_effects"))

	var loadErr error
	root.Get("generators.modules").ForEach(func(key, list gjson.Result) bool {
		genType, err := shield.ParseGenType(key.String())
		if err != nil {
			loadErr = fmt.Errorf("gamedata: %w", err)
			return false
		}
		byClass, ok := c.variants[genType]
		if !ok {
			byClass = make(map[int][]*shield.Generator)
			c.variants[genType] = byClass
		}
		list.ForEach(func(_, g gjson.Result) bool {
			prototype := parseGenerator(g)
			prototype.Type = genType
			if err := prototype.ValidateCurve(); err != nil {
				loadErr = fmt.Errorf("gamedata: %w", err)
				return false
			}
			c.prototypes[prototype.Symbol] = prototype
			byClass[prototype.Class] = shield.ExpandVariants(prototype, blueprints, experimentals)
			return true
		})
		return loadErr == nil
	})
	if loadErr != nil {
		return nil, loadErr
	}

	if len(c.vehicles) == 0 || len(c.boosters) == 0 || len(c.prototypes) == 0 {
		return nil, fmt.Errorf("gamedata: document is missing vehicles, boosters or generators")
	}
	return c, nil
}

func parseVehicle(v gjson.Result) *shield.Vehicle {
	vehicle := &shield.Vehicle{
		Name:            v.Get("name").String(),
		Symbol:          v.Get("symbol").String(),
		BaseStrength:    v.Get("base_strength").Float(),
		HullMass:        v.Get("hull_mass").Float(),
		AuxSlots:        int(v.Get("aux_slots").Int()),
		InternalBays:    make(map[int]int),
		HighestInternal: int(v.Get("highest_internal").Int()),
	}
	// Restricted bays appear as strings in the bay list; they keep their slot
	// number but cannot hold a generator.
	slot := 0
	v.Get("internal_bays").ForEach(func(_, bay gjson.Result) bool {
		slot++
		if bay.Type == gjson.Number {
			vehicle.InternalBays[slot] = int(bay.Int())
		}
		return true
	})
	return vehicle
}

// parseBooster converts the data file's resistance bonus fractions into
// damage multipliers (bonus 0.17 becomes multiplier 0.83), so stacking them
// later is a plain product.
func parseBooster(b gjson.Result) *shield.Booster {
	return &shield.Booster{
		Engineering:   b.Get("engineering").String(),
		Experimental:  b.Get("experimental").String(),
		HitpointBonus: b.Get("strength_bonus").Float(),
		ExpMult:       1 - b.Get("exp_res_bonus").Float(),
		KinMult:       1 - b.Get("kin_res_bonus").Float(),
		ThermMult:     1 - b.Get("therm_res_bonus").Float(),
		CanSkip:       b.Get("can_skip").Bool(),
	}
}

func parseGenerator(g gjson.Result) *shield.Generator {
	prototype := shield.NewGenerator()
	prototype.Symbol = g.Get("symbol").String()
	prototype.Name = g.Get("name").String()
	prototype.Class = int(g.Get("class").Int())
	prototype.ExplRes = g.Get("explres").Float()
	prototype.KinRes = g.Get("kinres").Float()
	prototype.ThermRes = g.Get("thermres").Float()
	prototype.Regen = g.Get("regen").Float()
	prototype.BrokenRegen = g.Get("brokenregen").Float()
	prototype.Integrity = g.Get("integrity").Float()
	prototype.Power = g.Get("power").Float()
	prototype.DistDraw = g.Get("distdraw").Float()
	prototype.MinMass = g.Get("minmass").Float()
	prototype.OptMass = g.Get("optmass").Float()
	prototype.MaxMass = g.Get("maxmass").Float()
	prototype.MinMul = g.Get("minmul").Float()
	prototype.OptMul = g.Get("optmul").Float()
	prototype.MaxMul = g.Get("maxmul").Float()
	return prototype
}

func parseRecipes(list gjson.Result) []*shield.Blueprint {
	var recipes []*shield.Blueprint
	list.ForEach(func(_, r gjson.Result) bool {
		bp := &shield.Blueprint{
			Symbol:   r.Get("symbol").String(),
			Name:     r.Get("name").String(),
			Features: make(map[string]float64),
		}
		r.Get("features").ForEach(func(k, v gjson.Result) bool {
			bp.Features[k.String()] = v.Float()
			return true
		})
		recipes = append(recipes, bp)
		return true
	})
	return recipes
}
