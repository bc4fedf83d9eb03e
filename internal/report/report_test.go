package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shield-optimizer/internal/search"
	"shield-optimizer/internal/shield"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Vanguard", "Vanguard"},
		{"Vanguard 2026-08-23 14.03.59", "Vanguard_2026-08-23_14.03.59"},
		{"Côté Mk II", "Cote_Mk_II"},
		{"weird:/\\chars*?", "weirdchars"},
		{"  padded  name  ", "padded_name"},
		{"keep [.()-] these", "keep_[.()-]_these"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), "slugify(%q)", tt.in)
	}
}

func reportFixture() (*search.Request, *search.Result) {
	g := shield.NewGenerator()
	g.Name = "Bastion"
	g.Class = 5
	g.Regen = 1.0
	g.ExplRes, g.KinRes, g.ThermRes = 0.5, 0.4, -0.2

	v := &shield.Vehicle{Name: "Vanguard", AuxSlots: 4}
	loadout := &shield.Loadout{Generator: g, Vehicle: v, Strength: 200}
	req := &search.Request{
		Vehicle:      v,
		Loadouts:     []*shield.Loadout{loadout},
		Boosters: []*shield.Booster{{
			Engineering: "Heavy Duty", Experimental: "Super Capacitors",
			HitpointBonus: 0.2, ExpMult: 1, KinMult: 1, ThermMult: 1,
		}},
		BoosterCount: 2,
		HeavyAllowed: true,
		Damage:       search.DamageProfile{Kinetic: 50, Effectiveness: 0.5},
	}
	res := &search.Result{
		Loadout:   loadout.WithBoosters(req.Boosters),
		Survival:  13.37,
		NetDPS:    14.5,
		Hitpoints: 200,
	}
	return req, res
}

func TestWriteLog(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{
		Dir: dir,
		Now: func() time.Time {
			return time.Date(2026, 8, 23, 14, 3, 59, 0, time.UTC)
		},
	}

	req, res := reportFixture()
	path, err := w.WriteLog("Vanguard", req, res)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Vanguard_2026-08-23_14.03.59.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "Test run at: 2026-08-23 14:03:59\n"))
	assert.Contains(t, content, "------------ TEST SETUP ------------")
	assert.Contains(t, content, "Vehicle: [Vanguard]")
	assert.Contains(t, content, "------------ TEST RESULTS ------------")
	assert.Contains(t, content, "Survival Time [s]: [13.37]")
	assert.Contains(t, content, "Booster 1: [Heavy Duty] - [Super Capacitors]")
	assert.True(t, strings.HasSuffix(content, "\n\n\n"))

	// The setup block comes before the result block.
	setupAt := strings.Index(content, "TEST SETUP")
	resultAt := strings.Index(content, "TEST RESULTS")
	assert.Less(t, setupAt, resultAt)
}

func TestWriteLogAppends(t *testing.T) {
	w := &Writer{
		Dir: t.TempDir(),
		Now: func() time.Time {
			return time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)
		},
	}

	req, res := reportFixture()
	path1, err := w.WriteLog("Vanguard", req, res)
	require.NoError(t, err)
	path2, err := w.WriteLog("Vanguard", req, res)
	require.NoError(t, err)
	assert.Equal(t, path1, path2)

	data, err := os.ReadFile(path1)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "Test run at:"))
}

func TestWriteLogTimestampOnlyName(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{
		Dir: dir,
		Now: func() time.Time {
			return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		},
	}

	req, res := reportFixture()
	path, err := w.WriteLog("", req, res)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2026-01-02_03.04.05.txt"), path)
}

func TestWriteLogCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	w := &Writer{Dir: dir}

	req, res := reportFixture()
	path, err := w.WriteLog("run", req, res)
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.FileExists(t, path)
}
