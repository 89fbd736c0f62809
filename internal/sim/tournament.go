package sim

import (
	"context"
	"math/rand/v2"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Tournament runs a fixed number of independent matches over the same
// seat lineup and aggregates the outcomes. Matches are independent by
// construction (each gets its own RNG stream derived from the base
// seed), so they run in parallel.
type Tournament struct {
	Seats       []SeatConfig
	NumMatches  int
	PointLimit  int
	MaxTurns    int
	Parallelism int // worker cap; 0 means GOMAXPROCS
	Seed        uint64

	log logrus.FieldLogger
}

// TournamentResult aggregates every match of a tournament. All per-seat
// slices are indexed by seat.
type TournamentResult struct {
	Matches []*MatchResult

	WinCounts    []int
	WinRates     []float64
	Scores       []ScoreDistribution
	AvgRounds    float64
	MedianRounds float64

	// Cambio accounting across every round of every match: how often
	// each seat called, and how often the call won the round.
	CambioCalls []int
	CambioWins  []int
}

// NewTournament creates a tournament with the package defaults.
func NewTournament(seats []SeatConfig, numMatches int, seed uint64, log logrus.FieldLogger) *Tournament {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		log = l
	}
	return &Tournament{
		Seats:      seats,
		NumMatches: numMatches,
		PointLimit: DefaultPointLimit,
		MaxTurns:   0,
		Seed:       seed,
		log:        log,
	}
}

// Play runs every match and aggregates. The context cancels outstanding
// matches on the first failure.
func (t *Tournament) Play(ctx context.Context) (*TournamentResult, error) {
	results := make([]*MatchResult, t.NumMatches)

	workers := t.Parallelism
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < t.NumMatches; i++ {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			// A distinct stream per match keeps results reproducible
			// regardless of scheduling order.
			rng := rand.New(rand.NewPCG(t.Seed, uint64(i)))
			m := NewMatch(t.Seats, rng, t.log)
			m.PointLimit = t.PointLimit
			if t.MaxTurns > 0 {
				m.MaxTurns = t.MaxTurns
			}
			res, err := m.Play()
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return t.aggregate(results), nil
}

func (t *Tournament) aggregate(matches []*MatchResult) *TournamentResult {
	n := len(t.Seats)
	out := &TournamentResult{
		Matches:     matches,
		WinCounts:   make([]int, n),
		WinRates:    make([]float64, n),
		Scores:      make([]ScoreDistribution, n),
		CambioCalls: make([]int, n),
		CambioWins:  make([]int, n),
	}

	scoresBySeat := make([][]int, n)
	var roundsPerMatch []int
	for _, m := range matches {
		out.WinCounts[m.Winner]++
		roundsPerMatch = append(roundsPerMatch, len(m.Rounds))
		for seat, score := range m.FinalScores {
			scoresBySeat[seat] = append(scoresBySeat[seat], score)
		}
		for _, round := range m.Rounds {
			if round.CambioCaller < 0 {
				continue
			}
			out.CambioCalls[round.CambioCaller]++
			if round.CambioCaller == round.Winner {
				out.CambioWins[round.CambioCaller]++
			}
		}
	}

	for seat := 0; seat < n; seat++ {
		if len(matches) > 0 {
			out.WinRates[seat] = float64(out.WinCounts[seat]) / float64(len(matches))
		}
		out.Scores[seat] = distribution(scoresBySeat[seat])
	}
	out.AvgRounds = meanInts(roundsPerMatch)
	out.MedianRounds = median(roundsPerMatch)
	return out
}
