package search

import (
	"errors"
	"fmt"

	"shield-optimizer/internal/shield"
)

// evaluateChunk scores one chunk of booster combinations against every
// candidate loadout and returns the chunk-local best. Booster bonuses are
// computed once per combination; the generator fields are read through local
// variables to keep the inner loop tight. The winning loadout is returned as
// a private copy with its boosters attached, so the shared candidate list is
// never touched.
func evaluateChunk(req *Request, combos [][]int) (*Result, error) {
	if len(combos) == 0 {
		return nil, errors.New("evaluate: empty combination chunk")
	}
	if len(req.Loadouts) == 0 {
		return nil, errors.New("evaluate: no loadouts")
	}

	effectiveness := req.Damage.Effectiveness
	explosiveDPS := req.Damage.Explosive
	kineticDPS := req.Damage.Kinetic
	thermalDPS := req.Damage.Thermal
	absoluteDPS := req.Damage.Absolute
	pools := req.Damage.CellBank + req.Damage.Reinforcement

	var best Result
	var bestBoosters []*shield.Booster
	scratch := make([]*shield.Booster, 0, len(combos[0]))

	for _, combo := range combos {
		scratch = scratch[:0]
		for _, idx := range combo {
			if idx < 0 || idx >= len(req.Boosters) {
				return nil, fmt.Errorf("evaluate: booster index %d out of range [0, %d)", idx, len(req.Boosters))
			}
			scratch = append(scratch, req.Boosters[idx])
		}
		expMod, kinMod, thermMod, hpBonus := shield.BoosterBonuses(scratch)

		for _, loadout := range req.Loadouts {
			g := loadout.Generator
			expRes := (1 - g.ExplRes) * expMod
			kinRes := (1 - g.KinRes) * kinMod
			thermRes := (1 - g.ThermRes) * thermMod
			hp := loadout.Strength * hpBonus
			regen := g.Regen * (1 - effectiveness)

			netDPS := effectiveness*(explosiveDPS*expRes+
				kineticDPS*kinRes+
				thermalDPS*thermRes+
				absoluteDPS) - regen

			cand := Result{Loadout: loadout, NetDPS: netDPS, Hitpoints: hp}
			if netDPS > 0 {
				cand.Survival = (hp + pools) / netDPS
			} else {
				cand.Forever = true
			}

			if betterResult(&best, &cand) {
				best = cand
				bestBoosters = append(bestBoosters[:0], scratch...)
			}
		}
	}

	best.Loadout = best.Loadout.WithBoosters(bestBoosters)
	return &best, nil
}
