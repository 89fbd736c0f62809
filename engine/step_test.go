package engine

import (
	"errors"
	"math/rand/v2"
	"testing"
)

// TestSwapPairCodec verifies the pair-swap id round trip over the whole
// 4x4 range.
func TestSwapPairCodec(t *testing.T) {
	for my := 0; my < StepMaxHand; my++ {
		for op := 0; op < StepMaxHand; op++ {
			id := EncodeSwapPair(my, op)
			if id < StepSwapPairBase || id >= StepSkipPower {
				t.Fatalf("EncodeSwapPair(%d,%d) = %d out of range", my, op, id)
			}
			gotMy, gotOp := DecodeSwapPair(id)
			if gotMy != my || gotOp != op {
				t.Errorf("round trip (%d,%d) -> %d -> (%d,%d)", my, op, id, gotMy, gotOp)
			}
		}
	}
}

// TestStepPhaseCycle walks one full agent turn through the phase
// machine and verifies the transitions and the valid-action sets.
func TestStepPhaseCycle(t *testing.T) {
	s := NewStepGame("agent", nil, "opp", &stubPolicy{}, rand.New(rand.NewPCG(1, 0)), nil)

	st := s.State()
	if st.Phase != PhaseDraw {
		t.Fatalf("initial phase = %s, want draw", st.Phase)
	}
	if st.MyHandSize != DealSize || st.OppHandSize != DealSize {
		t.Fatalf("hand sizes = %d/%d, want %d", st.MyHandSize, st.OppHandSize, DealSize)
	}
	if !containsAction(st.ValidActions, StepDrawDeck) || !containsAction(st.ValidActions, StepDrawDiscard) {
		t.Fatalf("draw phase actions = %v", st.ValidActions)
	}

	// Phase-inappropriate action is rejected without state change.
	if _, _, err := s.Step(StepStickPass); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("stick during draw: err = %v, want ErrInvalidAction", err)
	}
	if s.State().Phase != PhaseDraw {
		t.Fatal("rejected action changed phase")
	}

	st, res, err := s.Step(StepDrawDeck)
	if err != nil {
		t.Fatal(err)
	}
	if res.Drawn == EmptyCard {
		t.Fatal("deck draw produced no card")
	}
	if st.Phase != PhaseAction || st.Drawn != res.Drawn {
		t.Fatalf("after draw: phase=%s drawn=%v", st.Phase, st.Drawn)
	}

	st, _, err = s.Step(StepDiscard)
	if err != nil {
		t.Fatal(err)
	}
	if st.Phase == PhasePower {
		if !containsAction(st.ValidActions, StepSkipPower) {
			t.Fatalf("power phase actions = %v", st.ValidActions)
		}
		if st, _, err = s.Step(StepSkipPower); err != nil {
			t.Fatal(err)
		}
	}
	if st.Phase != PhaseStickWindow {
		t.Fatalf("phase = %s, want stick_window", st.Phase)
	}

	if st, _, err = s.Step(StepStickPass); err != nil {
		t.Fatal(err)
	}
	if st.Phase != PhaseCambioDecision {
		t.Fatalf("phase = %s, want cambio_decision", st.Phase)
	}
	if !containsAction(st.ValidActions, StepCallCambio) {
		t.Fatalf("cambio phase actions = %v", st.ValidActions)
	}

	// Passing hands the turn to the opponent and comes back.
	if st, _, err = s.Step(StepPassCambio); err != nil {
		t.Fatal(err)
	}
	if st.Phase != PhaseDraw && st.Phase != PhaseGameOver {
		t.Fatalf("phase after pass = %s", st.Phase)
	}
}

// TestStepSwapRecordsKnowledge verifies a keep-swap updates the hand
// and the knowledge map through the step interface.
func TestStepSwapRecordsKnowledge(t *testing.T) {
	s := NewStepGame("agent", nil, "opp", &stubPolicy{}, rand.New(rand.NewPCG(4, 0)), nil)

	_, res, err := s.Step(StepDrawDeck)
	if err != nil {
		t.Fatal(err)
	}
	drawn := res.Drawn

	st, _, err := s.Step(StepSwapBase + 3)
	if err != nil {
		t.Fatal(err)
	}
	if c, ok := st.MyKnown[3]; !ok || c != drawn {
		t.Errorf("slot 3 known = %v ok=%v, want drawn %v", c, ok, drawn)
	}
	if s.agent.Hand[3] != drawn {
		t.Errorf("slot 3 holds %v, want %v", s.agent.Hand[3], drawn)
	}
}

// TestStepCambioEndsGame verifies calling through the step interface
// triggers the final round and the game ends after the opponent's last
// turn.
func TestStepCambioEndsGame(t *testing.T) {
	s := NewStepGame("agent", nil, "opp", &stubPolicy{}, rand.New(rand.NewPCG(8, 0)), nil)

	st := mustAdvanceToCambio(t, s)
	st, res, err := s.Step(StepCallCambio)
	if err != nil {
		t.Fatal(err)
	}
	if !res.CalledCambio || !st.CambioCalled || st.CambioCaller != 0 {
		t.Fatalf("cambio not recorded: res=%+v caller=%d", res, st.CambioCaller)
	}
	if st.Phase != PhaseGameOver {
		t.Fatalf("phase = %s after cambio, want game_over", st.Phase)
	}
	if !s.GameOver() {
		t.Fatal("GameOver() = false")
	}
	if scores := s.Game().Scores(); len(scores) != 2 {
		t.Fatalf("scores = %v", scores)
	}

	// The finished game accepts nothing further.
	if _, _, err := s.Step(StepDrawDeck); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("step after game over: err = %v, want ErrInvalidAction", err)
	}
}

// TestStepFullGame drives an always-discard, never-cambio agent to the
// turn cap and verifies the loop terminates cleanly.
func TestStepFullGame(t *testing.T) {
	s := NewStepGame("agent", nil, "opp", &stubPolicy{}, rand.New(rand.NewPCG(2, 0)), nil)

	for steps := 0; !s.GameOver(); steps++ {
		if steps > 1000 {
			t.Fatal("game did not terminate")
		}
		st := s.State()
		var act int
		switch st.Phase {
		case PhaseDraw:
			act = StepDrawDeck
		case PhaseAction:
			act = StepDiscard
		case PhasePower:
			act = StepSkipPower
		case PhaseStickWindow:
			act = StepStickPass
		case PhaseCambioDecision:
			act = StepPassCambio
		default:
			t.Fatalf("unexpected phase %s", st.Phase)
		}
		if _, _, err := s.Step(act); err != nil {
			t.Fatal(err)
		}
	}
	if s.Game().Turn() < s.Game().MaxTurns {
		t.Errorf("turn = %d at game over, want cap %d", s.Game().Turn(), s.Game().MaxTurns)
	}
}

func mustAdvanceToCambio(t *testing.T, s *StepGame) StepState {
	t.Helper()
	for steps := 0; steps < 20; steps++ {
		st := s.State()
		switch st.Phase {
		case PhaseCambioDecision:
			return st
		case PhaseDraw:
			s.Step(StepDrawDeck)
		case PhaseAction:
			s.Step(StepDiscard)
		case PhasePower:
			s.Step(StepSkipPower)
		case PhaseStickWindow:
			s.Step(StepStickPass)
		default:
			t.Fatalf("unexpected phase %s", st.Phase)
		}
	}
	t.Fatal("never reached the cambio decision")
	return StepState{}
}

func containsAction(acts []int, want int) bool {
	for _, a := range acts {
		if a == want {
			return true
		}
	}
	return false
}
