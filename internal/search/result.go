package search

import (
	"fmt"
	"math"

	"shield-optimizer/internal/shield"
)

// relTol is the relative tolerance for treating two net-DPS values as equal
// when ranking results that outlast the incoming damage.
const relTol = 1e-8

// Result is the outcome of evaluating candidates: the winning loadout with
// its boosters attached, and the numbers behind the ranking. Hitpoints is the
// raw shield pool (boosted, without the flat pools). A zero Result means
// "nothing evaluated yet".
type Result struct {
	Loadout   *shield.Loadout
	Survival  float64 // seconds until shield collapse; meaningful only when !Forever
	NetDPS    float64 // effective incoming DPS minus regen
	Hitpoints float64
	Forever   bool // regen meets or exceeds the incoming damage
}

// Empty reports whether the result still holds no evaluated candidate.
func (r *Result) Empty() bool {
	return r == nil || r.Loadout == nil
}

func isClose(a, b float64) bool {
	return math.Abs(a-b) <= relTol*math.Max(math.Abs(a), math.Abs(b))
}

// betterResult reports whether challenger outranks incumbent. The same
// ordering drives the chunk-local folds and the coordinator fold:
//
//   - anything beats an empty incumbent;
//   - a result that never dies beats every result that dies;
//   - among never-dying results, more negative net DPS wins, with hitpoints
//     as the tie-break inside relTol;
//   - among dying results, longer survival wins.
//
// All inequalities are strict, so exact ties keep the incumbent and the first
// candidate in canonical order wins.
func betterResult(incumbent, challenger *Result) bool {
	if challenger.Empty() {
		return false
	}
	if incumbent.Empty() {
		return true
	}
	if incumbent.Forever {
		if !challenger.Forever {
			return false
		}
		if challenger.NetDPS < incumbent.NetDPS {
			return true
		}
		return isClose(challenger.NetDPS, incumbent.NetDPS) && challenger.Hitpoints > incumbent.Hitpoints
	}
	if challenger.Forever {
		return true
	}
	return challenger.Survival > incumbent.Survival
}

// OutputString renders the aligned result block. reinforcement is added to
// the displayed shield pool, matching how the flat pool behaves in flight.
func (r *Result) OutputString(reinforcement float64) string {
	rows := []row{{value: "------------ TEST RESULTS ------------"}}
	if r.Empty() {
		rows = append(rows, row{value: "No test results. Please change DPS and/or damage effectiveness."})
		return formatRows(rows)
	}

	expRes, kinRes, thermRes, hp := r.Loadout.TotalValues()
	hp += reinforcement

	if r.Forever {
		rows = append(rows,
			row{"Survival Time [s]: ", "[Didn't die]"},
			row{"Net DPS [MJ/s]: ", fmt.Sprintf("[%.2f]", r.NetDPS)})
	} else {
		rows = append(rows,
			row{"Survival Time [s]: ", fmt.Sprintf("[%.2f]", r.Survival)},
			row{"Drain Rate [MJ/s]: ", fmt.Sprintf("[%.2f]", hp/r.Survival)})
	}

	g := r.Loadout.Generator
	rows = append(rows, row{"Shield Generator: ",
		fmt.Sprintf("[%s] - [%s] - [%s]", g.Name, g.Blueprint, g.Experimental)})
	for i, b := range r.Loadout.Boosters {
		label := fmt.Sprintf("%d: ", i+1)
		if i == 0 {
			label = "Booster 1: "
		}
		rows = append(rows, row{label, fmt.Sprintf("[%s] - [%s]", b.Engineering, b.Experimental)})
	}

	rows = append(rows,
		row{},
		row{"Shield Hitpoints [MJ]: ", fmt.Sprintf("[%.2f]", hp)})

	regen := fmt.Sprintf("[%v]", g.Regen)
	if g.Regen > 0 {
		regen += fmt.Sprintf(" (%.2fs from 50%%)", hp/(2*g.Regen))
	}
	rows = append(rows,
		row{"Shield Regen [MJ/s]: ", regen},
		row{"Explosive Resistance [%]: ", fmt.Sprintf("[%.2f] (%.0f MJ)", (1-expRes)*100, hp/expRes)},
		row{"Kinetic Resistance [%]: ", fmt.Sprintf("[%.2f] (%.0f MJ)", (1-kinRes)*100, hp/kinRes)},
		row{"Thermal Resistance [%]: ", fmt.Sprintf("[%.2f] (%.0f MJ)", (1-thermRes)*100, hp/thermRes)})
	return formatRows(rows)
}
