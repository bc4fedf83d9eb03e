package search

import (
	"fmt"

	"shield-optimizer/internal/shield"
)

// DamageProfile describes the sustained fire a shield is tested against:
// per-type DPS figures, the fraction of time the attacker actually hits, and
// two flat hitpoint pools. The cell bank pool extends survival without
// counting toward displayed shield strength; the reinforcement pool does both.
type DamageProfile struct {
	Explosive     float64
	Kinetic       float64
	Thermal       float64
	Absolute      float64
	Effectiveness float64
	CellBank      float64
	Reinforcement float64
}

// Request is one search setup: the candidate loadouts (all of a single
// generator class), the booster variants to combine, how many booster slots
// to fill, and the damage profile to survive.
type Request struct {
	Vehicle      *shield.Vehicle
	Loadouts     []*shield.Loadout
	Boosters     []*shield.Booster
	BoosterCount int
	HeavyAllowed bool
	Damage       DamageProfile
}

func (r *Request) validate() error {
	if r == nil || r.Vehicle == nil || len(r.Loadouts) == 0 || len(r.Boosters) == 0 {
		return ErrNoCandidates
	}
	return nil
}

// clampedBoosterCount bounds the requested booster count to what the vehicle
// can actually mount. Out-of-range requests are not an error.
func (r *Request) clampedBoosterCount() int {
	k := r.BoosterCount
	if k > r.Vehicle.AuxSlots {
		k = r.Vehicle.AuxSlots
	}
	if k < 0 {
		k = 0
	}
	return k
}

// OutputString renders the aligned TEST SETUP block.
func (r *Request) OutputString() string {
	rows := []row{{value: "------------ TEST SETUP ------------"}}
	if len(r.Loadouts) > 0 {
		rows = append(rows,
			row{"Vehicle: ", fmt.Sprintf("[%s]", r.Loadouts[0].Vehicle.Name)},
			row{"Generator Class: ", fmt.Sprintf("[%d]", r.Loadouts[0].Generator.Class)})
	} else {
		rows = append(rows,
			row{"Vehicle: ", "[NOT SET]"},
			row{"Generator Class: ", "[NOT SET]"})
	}
	heavy := "[No]"
	if r.HeavyAllowed {
		heavy = "[Yes]"
	}
	rows = append(rows,
		row{"Booster Count: ", fmt.Sprintf("[%d]", r.BoosterCount)},
		row{"Cell Bank Pool: ", fmt.Sprintf("[%v]", r.Damage.CellBank)},
		row{"Reinforcement Pool: ", fmt.Sprintf("[%v]", r.Damage.Reinforcement)},
		row{"Heavy Variants: ", heavy},
		row{"Explosive DPS: ", fmt.Sprintf("[%v]", r.Damage.Explosive)},
		row{"Kinetic DPS: ", fmt.Sprintf("[%v]", r.Damage.Kinetic)},
		row{"Thermal DPS: ", fmt.Sprintf("[%v]", r.Damage.Thermal)},
		row{"Absolute DPS: ", fmt.Sprintf("[%v]", r.Damage.Absolute)},
		row{"Damage Effectiveness: ", fmt.Sprintf("[%.0f%%]", r.Damage.Effectiveness*100)},
		row{})
	return formatRows(rows)
}

// EstimateTests predicts how many candidate evaluations a search will run:
// the multiset combination count times the loadouts that survive the
// preliminary cut. prelim < 1 means the filter is off. Pure; enumerates
// nothing.
func EstimateTests(r *Request, prelim int) int64 {
	if r == nil || r.Vehicle == nil || len(r.Boosters) == 0 || len(r.Loadouts) == 0 {
		return 0
	}
	loadouts := len(r.Loadouts)
	if prelim < 1 || prelim > loadouts {
		prelim = loadouts
	}
	k := r.clampedBoosterCount()
	return binomial(len(r.Boosters)+k-1, k) * int64(prelim)
}
