//go:build !lambda

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"shield-optimizer/internal/gamedata"
	"shield-optimizer/internal/report"
	"shield-optimizer/internal/scenario"
	"shield-optimizer/internal/search"
)

// envConfig carries the settings that make more sense as environment
// variables than flags when the tool runs unattended.
type envConfig struct {
	DataFile  string `env:"SHIELDOPT_DATA"`
	Scenarios string `env:"SHIELDOPT_SCENARIOS"`
	LogDir    string `env:"SHIELDOPT_LOG_DIR" envDefault:"logs"`
	Workers   int    `env:"SHIELDOPT_WORKERS"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}

	var (
		vehicleName  = flag.String("vehicle", "", "vehicle to fit (see -list)")
		scenarioName = flag.String("scenario", "pirate-ambush", "damage preset (see -list)")
		dataFile     = flag.String("data", cfg.DataFile, "fitting data file (empty: embedded data)")
		scenarioFile = flag.String("scenarios", cfg.Scenarios, "preset file (empty: embedded presets)")
		class        = flag.Int("class", 0, "generator class (0: largest compatible)")
		boosters     = flag.Int("boosters", -1, "booster slots to fill (-1: every aux slot)")
		prelim       = flag.Int("prelim", 0, "quick run: keep only the N best booster-free loadouts")
		workers      = flag.Int("workers", cfg.Workers, "parallel workers (0: all CPUs)")
		chunkSize    = flag.Int("chunk", 0, "booster combinations per chunk (0: default)")
		noHeavy      = flag.Bool("no-heavy", false, "exclude heavy generator variants")
		fullBoosters = flag.Bool("full-boosters", false, "test the full booster list instead of the short one")
		noLog        = flag.Bool("no-log", false, "do not write a log file")
		logDir       = flag.String("log-dir", cfg.LogDir, "log directory")
		listAll      = flag.Bool("list", false, "list vehicles and damage presets, then exit")
		estimate     = flag.Bool("estimate", false, "print the number of tests without running them")
		verbose      = flag.Bool("verbose", false, "debug logging")

		explosive     = flag.Float64("explosive", -1, "override explosive DPS")
		kinetic       = flag.Float64("kinetic", -1, "override kinetic DPS")
		thermal       = flag.Float64("thermal", -1, "override thermal DPS")
		absolute      = flag.Float64("absolute", -1, "override absolute DPS")
		effectiveness = flag.Float64("effectiveness", -1, "override damage effectiveness (0-1)")
		cellBank      = flag.Float64("cellbank", -1, "override cell bank pool [MJ]")
		reinforcement = flag.Float64("reinforcement", -1, "override reinforcement pool [MJ]")
	)
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, "logger:", err)
			return 1
		}
		defer dev.Sync()
		logger = dev
	}

	dataJSON := gamedata.Embedded
	if *dataFile != "" {
		raw, err := os.ReadFile(*dataFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		dataJSON = string(raw)
	}
	catalog, err := gamedata.Load(dataJSON)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var presets *scenario.Set
	if *scenarioFile != "" {
		presets, err = scenario.LoadFile(*scenarioFile)
	} else {
		presets, err = scenario.Default()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *listAll {
		fmt.Println("Vehicles:")
		for _, name := range catalog.Vehicles() {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println("Damage presets:")
		for _, name := range presets.Names() {
			fmt.Printf("  %s\n", name)
		}
		return 0
	}

	if *vehicleName == "" {
		fmt.Fprintln(os.Stderr, "no vehicle selected; use -vehicle (see -list)")
		return 1
	}
	vehicle, err := catalog.Vehicle(*vehicleName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	preset, err := presets.Get(*scenarioName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	damage := preset.Damage()
	override := func(dst *float64, v float64) {
		if v >= 0 {
			*dst = v
		}
	}
	override(&damage.Explosive, *explosive)
	override(&damage.Kinetic, *kinetic)
	override(&damage.Thermal, *thermal)
	override(&damage.Absolute, *absolute)
	override(&damage.Effectiveness, *effectiveness)
	override(&damage.CellBank, *cellBank)
	override(&damage.Reinforcement, *reinforcement)

	req := &search.Request{
		Vehicle:      vehicle,
		Loadouts:     catalog.LoadoutsForClass(vehicle, *class, !*noHeavy),
		Boosters:     catalog.Boosters(!*fullBoosters),
		BoosterCount: vehicle.AuxSlots,
		HeavyAllowed: !*noHeavy,
		Damage:       damage,
	}
	if *boosters >= 0 {
		req.BoosterCount = *boosters
	}

	grouped := message.NewPrinter(language.English)
	if *estimate {
		grouped.Printf("Estimated tests: %d\n", search.EstimateTests(req, *prelim))
		return 0
	}

	opts := search.DefaultOptions()
	opts.Prelim = *prelim
	opts.Logger = logger
	if *workers > 0 {
		opts.Workers = *workers
	}
	if *chunkSize > 0 {
		opts.ChunkSize = *chunkSize
	}
	opts.OnEvent = func(e search.Event) {
		switch e.Kind {
		case search.EventMessage:
			fmt.Println(e.Text)
		case search.EventStep:
			fmt.Fprint(os.Stderr, ".")
		case search.EventCancelled:
			fmt.Fprintln(os.Stderr)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(req.OutputString())
	result, err := search.Search(ctx, req, opts)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		if errors.Is(err, search.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "search cancelled")
			return 2
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Println(result.OutputString(req.Damage.Reinforcement))

	if !*noLog {
		writer := &report.Writer{Dir: *logDir}
		path, err := writer.WriteLog(vehicle.Name, req, result)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		logger.Debug("log written", zap.String("path", path))
	}
	return 0
}
