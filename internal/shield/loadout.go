package shield

import "math"

// Loadout pairs a generator with a vehicle and caches the resulting raw
// shield strength. Boosters are attached only when a loadout wins a search.
type Loadout struct {
	Generator *Generator
	Vehicle   *Vehicle
	Strength  float64
	Boosters  []*Booster
}

// NewLoadout computes the raw shield strength for the pairing up front.
// The generator's mass curve must already be validated.
func NewLoadout(g *Generator, v *Vehicle) *Loadout {
	l := &Loadout{Generator: g, Vehicle: v}
	if g != nil && v != nil {
		l.Strength = strengthFor(g, v)
	}
	return l
}

// strengthFor evaluates the power-law mass curve.
// Source of the formula: the shipyard strength interpolation shared by the
// community calculators (xnorm clamped to 1, exponent from the opt-point).
func strengthFor(g *Generator, v *Vehicle) float64 {
	xnorm := math.Min(1, (g.MaxMass-v.HullMass)/(g.MaxMass-g.MinMass))
	exponent := math.Log((g.OptMul-g.MinMul)/(g.MaxMul-g.MinMul)) /
		math.Log(math.Min(1, (g.MaxMass-g.OptMass)/(g.MaxMass-g.MinMass)))
	ynorm := math.Pow(xnorm, exponent)
	mul := g.MinMul + ynorm*(g.MaxMul-g.MinMul)
	return round4(v.BaseStrength * mul)
}

// TotalValues reports the loadout's damage multipliers per axis and its total
// hitpoints with the attached boosters applied (neutral modifiers when none
// are attached). The returned resistances are damage-taken multipliers, not
// resistance fractions.
func (l *Loadout) TotalValues() (expRes, kinRes, thermRes, hp float64) {
	expMod, kinMod, thermMod, hpBonus := 1.0, 1.0, 1.0, 1.0
	if len(l.Boosters) > 0 {
		expMod, kinMod, thermMod, hpBonus = BoosterBonuses(l.Boosters)
	}
	return l.applyModifiers(expMod, kinMod, thermMod, hpBonus)
}

func (l *Loadout) applyModifiers(expMod, kinMod, thermMod, hpBonus float64) (expRes, kinRes, thermRes, hp float64) {
	g := l.Generator
	expRes = (1 - g.ExplRes) * expMod
	kinRes = (1 - g.KinRes) * kinMod
	thermRes = (1 - g.ThermRes) * thermMod
	hp = l.Strength * hpBonus
	return expRes, kinRes, thermRes, hp
}

// WithBoosters returns a copy of the loadout with its own booster slice.
// Chunk workers use it so the shared candidate list is never mutated.
func (l *Loadout) WithBoosters(boosters []*Booster) *Loadout {
	c := *l
	c.Boosters = make([]*Booster, len(boosters))
	copy(c.Boosters, boosters)
	return &c
}
