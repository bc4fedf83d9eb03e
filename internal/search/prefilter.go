package search

import (
	"sort"

	"shield-optimizer/internal/shield"
)

// prelimLoadouts ranks every candidate loadout by a single booster-free
// evaluation and keeps the best n. Loadouts whose regen already beats the
// incoming damage are preferred outright, ranked by how much headroom they
// have, with raw strength breaking exact drain ties; when none survives, the
// longest-lasting loadouts win. Sorts are stable, so remaining ties keep
// canonical order. The caller's slice is left untouched.
func prelimLoadouts(req *Request, n int) []*shield.Loadout {
	type ranked struct {
		key     float64
		loadout *shield.Loadout
	}
	var survivors, dying []ranked

	d := req.Damage
	for _, loadout := range req.Loadouts {
		g := loadout.Generator
		expRes := 1 - g.ExplRes
		kinRes := 1 - g.KinRes
		thermRes := 1 - g.ThermRes
		hp := loadout.Strength
		regen := g.Regen * (1 - d.Effectiveness)

		netDPS := d.Effectiveness*(d.Explosive*expRes+
			d.Kinetic*kinRes+
			d.Thermal*thermRes+
			d.Absolute) - regen

		if netDPS <= 0 {
			survivors = append(survivors, ranked{netDPS, loadout})
		} else {
			survival := (hp + d.CellBank + d.Reinforcement) / netDPS
			dying = append(dying, ranked{survival, loadout})
		}
	}

	picked := dying
	if len(survivors) > 0 {
		sort.SliceStable(survivors, func(i, j int) bool {
			if survivors[i].key != survivors[j].key {
				return survivors[i].key < survivors[j].key
			}
			return survivors[i].loadout.Strength > survivors[j].loadout.Strength
		})
		picked = survivors
	} else {
		sort.SliceStable(dying, func(i, j int) bool { return dying[i].key > dying[j].key })
	}

	if n > len(picked) {
		n = len(picked)
	}
	out := make([]*shield.Loadout, n)
	for i := range out {
		out[i] = picked[i].loadout
	}
	return out
}
