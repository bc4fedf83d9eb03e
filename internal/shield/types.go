package shield

import (
	"fmt"
	"math"
	"sort"
)

type GenType int

const (
	GenBaseline GenType = iota
	GenLightweight
	GenHeavy
)

func (t GenType) String() string {
	switch t {
	case GenBaseline:
		return "baseline"
	case GenLightweight:
		return "lightweight"
	case GenHeavy:
		return "heavy"
	}
	return "unknown"
}

// ParseGenType maps a data-file type key to its GenType.
func ParseGenType(s string) (GenType, error) {
	switch s {
	case "baseline":
		return GenBaseline, nil
	case "lightweight":
		return GenLightweight, nil
	case "heavy":
		return GenHeavy, nil
	}
	return 0, fmt.Errorf("unknown generator type %q", s)
}

// Generator is one shield generator variant: a prototype module plus any
// engineering applied to it. Values are handed out as copies, never shared.
type Generator struct {
	Symbol string
	Name   string
	Class  int
	Type   GenType

	// Resistance fractions (0.4 = 40% less damage taken on that axis).
	ExplRes  float64
	KinRes   float64
	ThermRes float64

	Regen       float64
	BrokenRegen float64
	Integrity   float64
	Power       float64
	DistDraw    float64

	// Mass curve parameters.
	MinMass, OptMass, MaxMass float64
	MinMul, OptMul, MaxMul    float64

	// Engineering provenance.
	Blueprint          string
	BlueprintSymbol    string
	Experimental       string
	ExperimentalSymbol string
}

// NewGenerator returns a generator with the unengineered provenance labels set.
func NewGenerator() *Generator {
	return &Generator{
		Blueprint:    "not engineered",
		Experimental: "no experimental effect",
	}
}

func (g *Generator) String() string {
	return fmt.Sprintf("%s (%d) - %s - %s", g.Name, g.Class, g.Blueprint, g.Experimental)
}

// ValidateCurve rejects mass curves whose strength formula would divide by
// zero or take the log of zero. Checked once at load time so the hot path can
// assume a sane curve.
func (g *Generator) ValidateCurve() error {
	if g.MaxMass == g.MinMass {
		return fmt.Errorf("generator %s: degenerate mass curve (maxmass == minmass)", g.Symbol)
	}
	if g.MaxMass == g.OptMass {
		return fmt.Errorf("generator %s: degenerate mass curve (maxmass == optmass)", g.Symbol)
	}
	return nil
}

// Booster is one shield booster variant. The resistance fields hold damage
// multipliers: the loader converts a data-file bonus fraction b to 1-b, so
// stacking is a plain product. HitpointBonus stays an additive fraction.
type Booster struct {
	Engineering  string
	Experimental string

	HitpointBonus float64
	ExpMult       float64
	KinMult       float64
	ThermMult     float64

	// CanSkip marks near-redundant variants the short list drops.
	CanSkip bool
}

func (b *Booster) String() string {
	return fmt.Sprintf("%s - %s", b.Engineering, b.Experimental)
}

// Vehicle is the hull a loadout is fitted to.
type Vehicle struct {
	Name         string
	Symbol       string
	BaseStrength float64
	HullMass     float64
	AuxSlots     int

	// InternalBays maps bay number (starting at 1) to the largest module
	// class the bay accepts. Restricted bays are absent.
	InternalBays    map[int]int
	HighestInternal int
}

// AvailableBay returns the lowest-numbered internal bay able to hold a module
// of the given class, capped at the vehicle's highest internal class. Returns
// (0, 0) if no bay fits.
func (v *Vehicle) AvailableBay(class int) (bay, bayClass int) {
	want := class
	if v.HighestInternal < want {
		want = v.HighestInternal
	}
	bays := make([]int, 0, len(v.InternalBays))
	for b := range v.InternalBays {
		bays = append(bays, b)
	}
	sort.Ints(bays)
	for _, b := range bays {
		if v.InternalBays[b] >= want {
			return b, v.InternalBays[b]
		}
	}
	return 0, 0
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
