package shield

// Blueprint is one engineering recipe: a named set of feature values applied
// to a generator. The same shape serves both blueprints and experimental
// effects; only the value convention differs (experimentals carry percentages).
type Blueprint struct {
	Symbol   string
	Name     string
	Features map[string]float64
}

// Feature application modes. Mass-curve multipliers go through a percentage
// representation before rounding, matching the upstream fitting data.
const (
	calcNormal = iota + 1
	calcRes
	calcMass
)

func applyFeature(r, v float64, calc int, percentage bool) float64 {
	if percentage {
		v /= 100
	}
	switch calc {
	case calcRes:
		r = 1 - (1-r)*(1-v)
	case calcMass:
		r = (r * 100) * (1 + v) / 100
	case calcNormal:
		r = r * (1 + v)
	}
	return round4(r)
}

// applyEngineering mutates the generator in place with one recipe's features.
// The optmul feature fans out to all three curve multipliers.
func (g *Generator) applyEngineering(features map[string]float64, percentage bool) {
	set := func(attr *float64, key string, calc int) {
		if v, ok := features[key]; ok {
			*attr = applyFeature(*attr, v, calc, percentage)
		}
	}

	set(&g.Integrity, "integrity", calcNormal)
	set(&g.BrokenRegen, "brokenregen", calcNormal)
	set(&g.Regen, "regen", calcNormal)
	set(&g.DistDraw, "distdraw", calcNormal)
	set(&g.Power, "power", calcNormal)

	set(&g.OptMul, "optmul", calcMass)
	set(&g.MinMul, "optmul", calcMass)
	set(&g.MaxMul, "optmul", calcMass)

	set(&g.KinRes, "kinres", calcRes)
	set(&g.ThermRes, "thermres", calcRes)
	set(&g.ExplRes, "explres", calcRes)
}

// ExpandVariants builds every engineered variant of a prototype: each
// blueprint applied to a copy, then each experimental effect applied on top
// of a further copy. The unengineered prototype itself is not part of the
// result; the catalog keeps it separately.
func ExpandVariants(prototype *Generator, blueprints, experimentals []*Blueprint) []*Generator {
	variants := make([]*Generator, 0, len(blueprints)*len(experimentals))
	for _, bp := range blueprints {
		engineered := *prototype
		engineered.BlueprintSymbol = bp.Symbol
		engineered.Blueprint = bp.Name
		engineered.applyEngineering(bp.Features, false)
		for _, exp := range experimentals {
			variant := engineered
			variant.ExperimentalSymbol = exp.Symbol
			variant.Experimental = exp.Name
			variant.applyEngineering(exp.Features, true)
			variants = append(variants, &variant)
		}
	}
	return variants
}
