package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

// Phase identifies the decision point a StepGame is waiting on.
type Phase uint8

const (
	PhaseDraw           Phase = iota // choose deck or discard
	PhaseAction                      // swap into a slot or discard
	PhasePower                       // use the discarded card's power
	PhaseStickWindow                 // optional stick attempt
	PhaseCambioDecision              // call Cambio or pass
	PhaseOpponentTurn                // opponents are playing
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseDraw:
		return "draw"
	case PhaseAction:
		return "action"
	case PhasePower:
		return "power"
	case PhaseStickWindow:
		return "stick_window"
	case PhaseCambioDecision:
		return "cambio_decision"
	case PhaseOpponentTurn:
		return "opponent_turn"
	}
	return "game_over"
}

// StepMaxHand fixes the slot range the discrete action space covers.
// Hands can grow past it via penalties, but enumerated actions only
// address the first four slots.
const StepMaxHand = 4

// Discrete action identifiers, one-to-one with the engine primitives.
const (
	StepDrawDeck    = 0
	StepDrawDiscard = 1
	StepDiscard     = 2
	StepSwapBase    = 3 // 3–6: swap drawn card into slot 0–3
	StepPeekOwnBase = 7 // 7–10: peek own slot 0–3
	StepPeekOppBase = 11 // 11–14: peek opponent slot 0–3
	StepSwapPairBase = 15 // 15–30: myPos*4 + oppPos pair swap
	StepSkipPower   = 31
	StepStickBase   = 32 // 32–35: stick own slot 0–3
	StepStickPass   = 36
	StepCallCambio  = 37
	StepPassCambio  = 38

	NumStepActions = 39
)

// EncodeSwapPair returns the action id for swapping own slot myPos with
// the opponent's slot oppPos.
func EncodeSwapPair(myPos, oppPos int) int { return StepSwapPairBase + myPos*StepMaxHand + oppPos }

// DecodeSwapPair splits a pair-swap action id into its two slots.
func DecodeSwapPair(id int) (myPos, oppPos int) {
	off := id - StepSwapPairBase
	return off / StepMaxHand, off % StepMaxHand
}

// StepState is the agent-visible snapshot returned after every step.
// It exposes only what the agent seat may legally see.
type StepState struct {
	Phase        Phase
	CurrentSeat  int
	MyHandSize   int
	MyKnown      map[int]Card
	OppHandSize  int
	DiscardTop   Card
	DeckSize     int
	Drawn        Card // pending drawn card during PhaseAction, else EmptyCard
	CambioCalled bool
	CambioCaller int
	FinalRound   bool
	ValidActions []int
}

// StepResult carries the private outcome of one step.
type StepResult struct {
	Drawn        Card // card produced by a draw action
	Peeked       Card // card revealed by a peek or black-king look
	StickTried   bool
	StickSuccess bool
	CalledCambio bool
}

// StepGame is a step-wise driver around a two-seat Game for external
// controllers (RL loops, GUIs). The controlled agent sits at seat 0 and
// acts through discrete action ids; the opponent seat plays its own
// policy between the agent's turns. Actions outside the current valid
// set are rejected with ErrInvalidAction.
type StepGame struct {
	game  *Game
	agent *Player
	opp   *Player

	phase     Phase
	drawn     Card
	discarded Card // card whose power is pending
	ev        *TurnEvent
}

// nopPolicy satisfies Policy with no-ops; it backs the agent seat so
// event broadcasts have a receiver even when the controller keeps no
// tracker.
type nopPolicy struct{}

func (nopPolicy) ChooseDraw(*Game, *Player) DrawSource                          { return DrawDeck }
func (nopPolicy) ChooseAction(*Game, *Player, Card) Action                      { return Discard() }
func (nopPolicy) ChoosePowerAction(*Game, *Player, Card) PowerAction            { return PowerAction{} }
func (nopPolicy) ConfirmKingSwap(*Game, *Player, PowerAction, Card) bool        { return false }
func (nopPolicy) ChooseStick(*Game, *Player) []int                              { return nil }
func (nopPolicy) CallCambio(*Game, *Player) bool                                { return false }
func (nopPolicy) ObservePeek(*Game, int, int, Card)                             {}
func (nopPolicy) ObserveTurn(*Game, *TurnEvent)                                 {}
func (nopPolicy) ObserveStick(*Game, *StickEvent)                               {}

// NewStepGame creates a fresh two-seat round. observer receives the
// agent seat's event broadcasts (pass nil for none); oppPolicy drives
// the opponent seat.
func NewStepGame(agentName string, observer Policy, oppName string, oppPolicy Policy, rng *rand.Rand, log logrus.FieldLogger) *StepGame {
	if observer == nil {
		observer = nopPolicy{}
	}
	agent := NewPlayer(agentName, observer)
	opp := NewPlayer(oppName, oppPolicy)
	s := &StepGame{
		game:  NewGame([]*Player{agent, opp}, rng, log),
		agent: agent,
		opp:   opp,
	}
	s.game.Deal()
	s.drawn = EmptyCard
	s.discarded = EmptyCard
	s.phase = PhaseDraw
	s.beginTurnEvent()
	return s
}

// Game exposes the underlying round for score queries.
func (s *StepGame) Game() *Game { return s.game }

// State returns the current agent-visible snapshot.
func (s *StepGame) State() StepState {
	known := make(map[int]Card, len(s.agent.Known))
	for k, v := range s.agent.Known {
		known[k] = v
	}
	return StepState{
		Phase:        s.phase,
		CurrentSeat:  s.game.CurrentSeat(),
		MyHandSize:   len(s.agent.Hand),
		MyKnown:      known,
		OppHandSize:  len(s.opp.Hand),
		DiscardTop:   s.game.DiscardTop(),
		DeckSize:     s.game.DeckLen(),
		Drawn:        s.drawn,
		CambioCalled: s.game.CambioCalled(),
		CambioCaller: s.game.CambioCaller(),
		FinalRound:   s.game.finalRoundActive,
		ValidActions: s.ValidActions(),
	}
}

// ValidActions enumerates the action ids legal in the current phase.
func (s *StepGame) ValidActions() []int {
	switch s.phase {
	case PhaseDraw:
		acts := []int{StepDrawDeck}
		if s.game.DiscardTop() != EmptyCard {
			acts = append(acts, StepDrawDiscard)
		}
		return acts

	case PhaseAction:
		acts := []int{StepDiscard}
		for i := 0; i < len(s.agent.Hand) && i < StepMaxHand; i++ {
			acts = append(acts, StepSwapBase+i)
		}
		return acts

	case PhasePower:
		return s.powerActions()

	case PhaseStickWindow:
		acts := []int{StepStickPass}
		if s.game.DiscardTop() != EmptyCard {
			for i := 0; i < len(s.agent.Hand) && i < StepMaxHand; i++ {
				acts = append(acts, StepStickBase+i)
			}
		}
		return acts

	case PhaseCambioDecision:
		acts := []int{StepPassCambio}
		if !s.game.CambioCalled() {
			acts = append(acts, StepCallCambio)
		}
		return acts
	}
	return nil
}

func (s *StepGame) powerActions() []int {
	acts := []int{StepSkipPower}
	if s.discarded == EmptyCard {
		return acts
	}
	switch s.discarded.Power() {
	case PowerPeekOwn:
		for i := 0; i < len(s.agent.Hand) && i < StepMaxHand; i++ {
			acts = append(acts, StepPeekOwnBase+i)
		}
	case PowerPeekOther:
		for i := 0; i < len(s.opp.Hand) && i < StepMaxHand; i++ {
			acts = append(acts, StepPeekOppBase+i)
		}
	case PowerBlindSwap, PowerKingSwap:
		for my := 0; my < len(s.agent.Hand) && my < StepMaxHand; my++ {
			for op := 0; op < len(s.opp.Hand) && op < StepMaxHand; op++ {
				acts = append(acts, EncodeSwapPair(my, op))
			}
		}
	}
	return acts
}

// Step applies one discrete action. The action must be in the current
// valid set; anything else is a protocol violation by the caller.
func (s *StepGame) Step(action int) (StepState, StepResult, error) {
	valid := false
	for _, a := range s.ValidActions() {
		if a == action {
			valid = true
			break
		}
	}
	if !valid {
		return s.State(), StepResult{}, fmt.Errorf("%w: action %d in phase %s", ErrInvalidAction, action, s.phase)
	}

	var res StepResult
	switch s.phase {
	case PhaseDraw:
		res = s.handleDraw(action)
	case PhaseAction:
		res = s.handleAction(action)
	case PhasePower:
		res = s.handlePower(action)
	case PhaseStickWindow:
		res = s.handleStick(action)
	case PhaseCambioDecision:
		res = s.handleCambio(action)
	}
	return s.State(), res, nil
}

func (s *StepGame) beginTurnEvent() {
	s.ev = &TurnEvent{
		Turn:         s.game.turn,
		Seat:         0,
		SeatName:     s.agent.Name,
		DrawnDiscard: EmptyCard,
		Discarded:    EmptyCard,
		MyPos:        -1,
		Seat1:        -1,
		Pos1:         -1,
		Seat2:        -1,
		Pos2:         -1,
		PeekSeat:     -1,
		PeekPos:      -1,
	}
}

func (s *StepGame) handleDraw(action int) StepResult {
	if action == StepDrawDiscard {
		s.drawn = s.game.discard[len(s.game.discard)-1]
		s.game.discard = s.game.discard[:len(s.game.discard)-1]
		s.ev.Source = DrawDiscard
		s.ev.DrawnDiscard = s.drawn
	} else {
		c, ok := s.game.drawFromDeck()
		if !ok {
			// Nothing to draw: abandon the turn.
			s.ev.Source = DrawNone
			s.finishAgentTurn()
			return StepResult{Drawn: EmptyCard}
		}
		s.drawn = c
		s.ev.Source = DrawDeck
	}
	s.phase = PhaseAction
	return StepResult{Drawn: s.drawn}
}

func (s *StepGame) handleAction(action int) StepResult {
	if action == StepDiscard {
		s.game.discard = append(s.game.discard, s.drawn)
		s.discarded = s.drawn
		s.ev.Action = ActionDiscard
	} else {
		pos := action - StepSwapBase
		old := s.agent.Hand[pos]
		s.agent.Hand[pos] = s.drawn
		s.agent.Known[pos] = s.drawn
		s.game.discard = append(s.game.discard, old)
		s.discarded = old
		s.ev.Action = ActionSwap
		s.ev.SwapPos = pos
	}
	s.ev.Discarded = s.discarded
	s.drawn = EmptyCard

	if s.discarded.HasPower() {
		s.phase = PhasePower
	} else {
		s.phase = PhaseStickWindow
	}
	return StepResult{}
}

func (s *StepGame) handlePower(action int) StepResult {
	var res StepResult
	if action == StepSkipPower {
		s.phase = PhaseStickWindow
		return res
	}

	switch s.discarded.Power() {
	case PowerPeekOwn:
		pos := action - StepPeekOwnBase
		c, err := s.game.Peek(0, pos)
		if err == nil {
			res.Peeked = c
			s.ev.Power = PowerActPeekOwn
			s.ev.Seat1, s.ev.Pos1 = 0, pos
		}

	case PowerPeekOther:
		pos := action - StepPeekOppBase
		res.Peeked = s.opp.Hand[pos]
		s.ev.Power = PowerActPeekOpponent
		s.ev.Seat1, s.ev.Pos1 = 1, pos

	case PowerBlindSwap:
		my, op := DecodeSwapPair(action)
		s.game.Swap(0, 1, my, op)
		delete(s.agent.Known, my)
		delete(s.opp.Known, op)
		s.ev.Power = PowerActBlindSwap
		s.ev.MyPos = my
		s.ev.Seat1, s.ev.Pos1 = 1, op

	case PowerKingSwap:
		// The step driver commits to the swap up front; the look is
		// returned so the controller can learn the incoming card.
		my, op := DecodeSwapPair(action)
		res.Peeked = s.opp.Hand[op]
		s.game.Swap(0, 1, my, op)
		s.agent.Known[my] = s.agent.Hand[my]
		delete(s.opp.Known, op)
		s.ev.Power = PowerActKingSwap
		s.ev.MyPos = my
		s.ev.Seat1, s.ev.Pos1 = 1, op
		s.ev.Swapped = true
	}

	s.phase = PhaseStickWindow
	return res
}

func (s *StepGame) handleStick(action int) StepResult {
	var res StepResult
	if action != StepStickPass {
		pos := action - StepStickBase
		res.StickTried = true
		res.StickSuccess = s.game.AttemptStick(0, pos)
		sev := &StickEvent{
			Turn:     s.game.turn,
			Seat:     0,
			SeatName: s.agent.Name,
			Pos:      pos,
			Success:  res.StickSuccess,
			Stuck:    EmptyCard,
			HandSize: len(s.agent.Hand),
		}
		if res.StickSuccess {
			sev.Stuck = s.game.DiscardTop()
		}
		for _, p := range s.game.players {
			p.Policy.ObserveStick(s.game, sev)
		}
	}
	s.phase = PhaseCambioDecision
	return res
}

func (s *StepGame) handleCambio(action int) StepResult {
	var res StepResult
	if action == StepCallCambio && !s.game.CambioCalled() {
		s.game.cambioCalled = true
		s.game.cambioCaller = 0
		s.game.finalRoundActive = true
		s.ev.CalledCambio = true
		res.CalledCambio = true
	}
	s.finishAgentTurn()
	return res
}

// finishAgentTurn broadcasts the agent's turn record, rotates play, and
// runs opponent turns until control returns to the agent or the round
// ends.
func (s *StepGame) finishAgentTurn() {
	s.ev.HandSize = len(s.agent.Hand)
	s.game.finishTurn(s.ev)
	s.discarded = EmptyCard

	for !s.game.GameOver() && s.game.CurrentSeat() != 0 {
		s.phase = PhaseOpponentTurn
		s.game.PlayTurn()
	}

	if s.game.GameOver() {
		s.phase = PhaseGameOver
		return
	}
	s.phase = PhaseDraw
	s.beginTurnEvent()
}

// GameOver reports whether the wrapped round has ended.
func (s *StepGame) GameOver() bool { return s.phase == PhaseGameOver || s.game.GameOver() }
