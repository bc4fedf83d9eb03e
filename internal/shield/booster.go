package shield

// BoosterBonuses folds a booster multiset into combined modifiers: one damage
// multiplier per resistance axis and an additive hitpoint bonus. Resistance
// multipliers stack multiplicatively and are therefore independent of booster
// order; the hitpoint bonus is a plain sum on top of 1.0.
//
// Stacked resistance multipliers below 0.7 are pulled back toward 0.7
// (diminishing returns): m' = 0.7 - (0.7-m)/2. The remap applies per axis,
// keeps ordering (strictly increasing in m) and leaves 0.7 itself fixed.
// The hitpoint bonus is never remapped.
func BoosterBonuses(boosters []*Booster) (expMod, kinMod, thermMod, hpBonus float64) {
	expMod, kinMod, thermMod, hpBonus = 1.0, 1.0, 1.0, 1.0
	for _, b := range boosters {
		expMod *= b.ExpMult
		kinMod *= b.KinMult
		thermMod *= b.ThermMult
		hpBonus += b.HitpointBonus
	}

	if expMod < 0.7 {
		expMod = 0.7 - (0.7-expMod)/2
	}
	if kinMod < 0.7 {
		kinMod = 0.7 - (0.7-kinMod)/2
	}
	if thermMod < 0.7 {
		thermMod = 0.7 - (0.7-thermMod)/2
	}
	return expMod, kinMod, thermMod, hpBonus
}
