package search

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// eventLog captures the OnEvent stream for assertions.
type eventLog struct {
	kinds    []EventKind
	messages []string
}

func (e *eventLog) record(ev Event) {
	e.kinds = append(e.kinds, ev.Kind)
	if ev.Kind == EventMessage {
		e.messages = append(e.messages, ev.Text)
	}
}

func (e *eventLog) steps() int {
	n := 0
	for _, k := range e.kinds {
		if k == EventStep {
			n++
		}
	}
	return n
}

func (e *eventLog) allMessages() string {
	return strings.Join(e.messages, "\n")
}

func checkSameResult(t *testing.T, got, want *Result) {
	t.Helper()
	if got.Forever != want.Forever {
		t.Fatalf("Forever = %v, want %v", got.Forever, want.Forever)
	}
	if got.Survival != want.Survival {
		t.Errorf("Survival = %v, want %v", got.Survival, want.Survival)
	}
	if got.NetDPS != want.NetDPS {
		t.Errorf("NetDPS = %v, want %v", got.NetDPS, want.NetDPS)
	}
	if got.Hitpoints != want.Hitpoints {
		t.Errorf("Hitpoints = %v, want %v", got.Hitpoints, want.Hitpoints)
	}
	if got.Loadout.Generator.Name != want.Loadout.Generator.Name {
		t.Errorf("generator = %s, want %s", got.Loadout.Generator.Name, want.Loadout.Generator.Name)
	}
	gotBoosters := boosterNames(got.Loadout)
	wantBoosters := boosterNames(want.Loadout)
	if len(gotBoosters) != len(wantBoosters) {
		t.Fatalf("boosters = %v, want %v", gotBoosters, wantBoosters)
	}
	for i := range wantBoosters {
		if gotBoosters[i] != wantBoosters[i] {
			t.Fatalf("boosters = %v, want %v", gotBoosters, wantBoosters)
		}
	}
}

func TestSearchFindsBestLoadout(t *testing.T) {
	log := &eventLog{}
	got, err := Search(context.Background(), testRequest(), Options{Workers: 1, OnEvent: log.record})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if got.Forever {
		t.Fatal("unexpected never-dies result")
	}
	if got.Loadout.Generator.Name != "Fortress" {
		t.Errorf("winner = %s, want Fortress", got.Loadout.Generator.Name)
	}
	for _, n := range boosterNames(got.Loadout) {
		if n != "Heavy Duty" {
			t.Errorf("winner booster = %q, want Heavy Duty", n)
		}
	}
	if len(got.Loadout.Boosters) != 3 {
		t.Errorf("winner carries %d boosters, want 3", len(got.Loadout.Boosters))
	}
	if got.Survival != 6.841615920398009 {
		t.Errorf("Survival = %v, want 6.841615920398009", got.Survival)
	}
	if got.NetDPS != 40.2 {
		t.Errorf("NetDPS = %v, want 40.2", got.NetDPS)
	}
	if got.Hitpoints != 275.03296 {
		t.Errorf("Hitpoints = %v, want 275.03296", got.Hitpoints)
	}

	msgs := log.allMessages()
	if !strings.Contains(msgs, "------------ TEST RUN ------------") {
		t.Error("missing full run header")
	}
	if !strings.Contains(msgs, "Booster Combinations: [35]") {
		t.Errorf("missing combination count in:\n%s", msgs)
	}
	if !strings.Contains(msgs, "Loadouts To Be Tested: [105]") {
		t.Errorf("missing test count in:\n%s", msgs)
	}
}

func TestSearchChunkingInvariance(t *testing.T) {
	// 35 combinations split into 1, 2 and 7 chunks must fold to the same
	// winner with bit-identical numbers.
	tests := []struct {
		chunkSize  int
		wantChunks int
	}{
		{35, 1},
		{18, 2},
		{5, 7},
	}

	var first *Result
	for _, tt := range tests {
		log := &eventLog{}
		got, err := Search(context.Background(), testRequest(),
			Options{Workers: 1, ChunkSize: tt.chunkSize, OnEvent: log.record})
		if err != nil {
			t.Fatalf("chunk size %d: %v", tt.chunkSize, err)
		}
		if steps := log.steps(); steps != tt.wantChunks {
			t.Errorf("chunk size %d: %d progress steps, want %d", tt.chunkSize, steps, tt.wantChunks)
		}
		if first == nil {
			first = got
			continue
		}
		checkSameResult(t, got, first)
	}
}

func TestSearchParallelMatchesSerial(t *testing.T) {
	// Chunk size 5 puts the 105 tests over the parallel threshold once more
	// than one worker is available.
	serial, err := Search(context.Background(), testRequest(), Options{Workers: 1, ChunkSize: 5})
	if err != nil {
		t.Fatalf("serial: %v", err)
	}

	log := &eventLog{}
	parallel, err := Search(context.Background(), testRequest(),
		Options{Workers: 4, ChunkSize: 5, OnEvent: log.record})
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	if steps := log.steps(); steps != 7 {
		t.Errorf("parallel run reported %d steps, want 7", steps)
	}
	checkSameResult(t, parallel, serial)
}

func TestSearchCancelledBeforeDispatch(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"serial", Options{Workers: 1}},
		{"parallel", Options{Workers: 4, ChunkSize: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			log := &eventLog{}
			tt.opts.OnEvent = log.record
			got, err := Search(ctx, testRequest(), tt.opts)

			if !errors.Is(err, ErrCancelled) {
				t.Fatalf("err = %v, want ErrCancelled", err)
			}
			if got != nil {
				t.Fatalf("result = %+v, want nil", got)
			}
			if steps := log.steps(); steps != 0 {
				t.Errorf("%d chunks evaluated after cancellation", steps)
			}
			if len(log.kinds) == 0 || log.kinds[len(log.kinds)-1] != EventCancelled {
				t.Errorf("event kinds = %v, want trailing EventCancelled", log.kinds)
			}
			if strings.Contains(log.allMessages(), "Calculations took") {
				t.Error("cancelled run reported a completion time")
			}
		})
	}
}

func TestSearchClampsBoosterCount(t *testing.T) {
	over := testRequest()
	over.BoosterCount = 99
	log := &eventLog{}
	gotOver, err := Search(context.Background(), over, Options{Workers: 1, OnEvent: log.record})
	if err != nil {
		t.Fatalf("over-request: %v", err)
	}

	exact := testRequest()
	gotExact, err := Search(context.Background(), exact, Options{Workers: 1})
	if err != nil {
		t.Fatalf("exact request: %v", err)
	}

	checkSameResult(t, gotOver, gotExact)
	// The setup echo keeps the caller's number; only the work is clamped.
	if !strings.Contains(log.allMessages(), "Booster Count: [99]") {
		t.Errorf("message does not echo the requested count:\n%s", log.allMessages())
	}
	if over.BoosterCount != 99 {
		t.Errorf("request mutated: BoosterCount = %d", over.BoosterCount)
	}

	negative := testRequest()
	negative.BoosterCount = -2
	gotNeg, err := Search(context.Background(), negative, Options{Workers: 1})
	if err != nil {
		t.Fatalf("negative request: %v", err)
	}
	if len(gotNeg.Loadout.Boosters) != 0 {
		t.Errorf("negative count fitted %d boosters", len(gotNeg.Loadout.Boosters))
	}
	if gotNeg.Loadout.Generator.Name != "Fortress" {
		t.Errorf("booster-free winner = %s, want Fortress", gotNeg.Loadout.Generator.Name)
	}
	if gotNeg.Survival != 4.276009950248756 {
		t.Errorf("booster-free Survival = %v, want 4.276009950248756", gotNeg.Survival)
	}
}

func TestSearchNoCandidates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"no vehicle", func(r *Request) { r.Vehicle = nil }},
		{"no loadouts", func(r *Request) { r.Loadouts = nil }},
		{"no boosters", func(r *Request) { r.Boosters = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest()
			tt.mutate(req)

			log := &eventLog{}
			got, err := Search(context.Background(), req, Options{Workers: 1, OnEvent: log.record})
			if !errors.Is(err, ErrNoCandidates) {
				t.Fatalf("err = %v, want ErrNoCandidates", err)
			}
			if got != nil {
				t.Errorf("result = %+v, want nil", got)
			}
			if len(log.kinds) != 0 {
				t.Errorf("events emitted for an empty request: %v", log.kinds)
			}
		})
	}
}

func TestSearchQuickRunFiltersLoadouts(t *testing.T) {
	log := &eventLog{}
	got, err := Search(context.Background(), testRequest(),
		Options{Workers: 1, Prelim: 2, OnEvent: log.record})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	msgs := log.allMessages()
	if !strings.Contains(msgs, "--------- QUICK TEST RUN ---------") {
		t.Errorf("missing quick run header in:\n%s", msgs)
	}
	if !strings.Contains(msgs, "Generator Variants: [2]") {
		t.Errorf("missing filtered variant count in:\n%s", msgs)
	}
	if !strings.Contains(msgs, "Loadouts To Be Tested: [70]") {
		t.Errorf("missing reduced test count in:\n%s", msgs)
	}

	// Fortress survives the preliminary cut, so the winner is unchanged.
	if got.Loadout.Generator.Name != "Fortress" {
		t.Errorf("winner = %s, want Fortress", got.Loadout.Generator.Name)
	}
	if got.Survival != 6.841615920398009 {
		t.Errorf("Survival = %v, want 6.841615920398009", got.Survival)
	}
}

func TestSearchPrelimMatchingLoadoutCountStaysFull(t *testing.T) {
	log := &eventLog{}
	if _, err := Search(context.Background(), testRequest(),
		Options{Workers: 1, Prelim: 3, OnEvent: log.record}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	msgs := log.allMessages()
	if strings.Contains(msgs, "QUICK TEST RUN") {
		t.Errorf("prelim equal to the loadout count must not trigger a quick run:\n%s", msgs)
	}
	if !strings.Contains(msgs, "Generator Variants: [3]") {
		t.Errorf("missing full variant count in:\n%s", msgs)
	}
}

func TestSearchForeverOutranksDying(t *testing.T) {
	req := testRequest()
	req.Damage = DamageProfile{Kinetic: 2, Thermal: 1, Absolute: 0.5, Effectiveness: 0.5}

	got, err := Search(context.Background(), req, Options{Workers: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if !got.Forever {
		t.Fatal("expected a never-dies result")
	}
	if got.Loadout.Generator.Name != "Rapid" {
		t.Errorf("winner = %s, want Rapid", got.Loadout.Generator.Name)
	}
	for _, n := range boosterNames(got.Loadout) {
		if n != "Resistance Augmented" {
			t.Errorf("winner booster = %q, want Resistance Augmented", n)
		}
	}
	if got.NetDPS != -0.9116499999999998 {
		t.Errorf("NetDPS = %v, want -0.9116499999999998", got.NetDPS)
	}
	if got.Survival != 0 {
		t.Errorf("Survival = %v, want 0 for a never-dies result", got.Survival)
	}
}

func TestSearchEventSequence(t *testing.T) {
	log := &eventLog{}
	if _, err := Search(context.Background(), testRequest(),
		Options{Workers: 1, ChunkSize: 35, OnEvent: log.record}); err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := []EventKind{EventMessage, EventStep, EventMessage}
	if len(log.kinds) != len(want) {
		t.Fatalf("event kinds = %v, want %v", log.kinds, want)
	}
	for i := range want {
		if log.kinds[i] != want[i] {
			t.Fatalf("event kinds = %v, want %v", log.kinds, want)
		}
	}
	if !strings.Contains(log.messages[0], "Running calculations. Please wait...") {
		t.Errorf("first message = %q", log.messages[0])
	}
	if !strings.Contains(log.messages[1], "Calculations took") {
		t.Errorf("final message = %q", log.messages[1])
	}
}
