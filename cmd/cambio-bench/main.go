// Command cambio-bench runs the policy benchmark grid: tournaments of
// every interesting lineup, from 1v1 controls up to six-seat tables,
// and prints win rates, score distributions, and Cambio-call accuracy
// per seat.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/HannahHughes30/cambio.ai/agent"
	"github.com/HannahHughes30/cambio.ai/internal/config"
	"github.com/HannahHughes30/cambio.ai/internal/sim"
)

type matchup struct {
	name  string
	seats []sim.SeatConfig
}

func seat(kind agent.Kind, name string) sim.SeatConfig {
	return sim.SeatConfig{Kind: kind, Name: name}
}

var matchups = []matchup{
	// 1v1
	{"EVGreedy vs Smart (1v1)", []sim.SeatConfig{
		seat(agent.KindEVGreedy, "EVGreedy"),
		seat(agent.KindSmart, "Smart"),
	}},
	{"EVGreedy vs Heuristic (1v1)", []sim.SeatConfig{
		seat(agent.KindEVGreedy, "EVGreedy"),
		seat(agent.KindHeuristic, "Heuristic"),
	}},
	{"Smart vs Heuristic (1v1 control)", []sim.SeatConfig{
		seat(agent.KindSmart, "Smart"),
		seat(agent.KindHeuristic, "Heuristic"),
	}},
	{"Disruptive vs EVGreedy (1v1)", []sim.SeatConfig{
		seat(agent.KindDisruptive, "Disruptive"),
		seat(agent.KindEVGreedy, "EVGreedy"),
	}},
	{"Disruptive vs Smart (1v1)", []sim.SeatConfig{
		seat(agent.KindDisruptive, "Disruptive"),
		seat(agent.KindSmart, "Smart"),
	}},
	// 3 seats
	{"2xSmart + EVGreedy (3p)", []sim.SeatConfig{
		seat(agent.KindSmart, "Smart-1"),
		seat(agent.KindSmart, "Smart-2"),
		seat(agent.KindEVGreedy, "EVGreedy"),
	}},
	{"Smart + Heuristic + EVGreedy (3p)", []sim.SeatConfig{
		seat(agent.KindSmart, "Smart"),
		seat(agent.KindHeuristic, "Heuristic"),
		seat(agent.KindEVGreedy, "EVGreedy"),
	}},
	{"2xSmart + Disruptive (3p)", []sim.SeatConfig{
		seat(agent.KindSmart, "Smart-1"),
		seat(agent.KindSmart, "Smart-2"),
		seat(agent.KindDisruptive, "Disruptive"),
	}},
	{"EVGreedy + Disruptive + Smart (3p)", []sim.SeatConfig{
		seat(agent.KindEVGreedy, "EVGreedy"),
		seat(agent.KindDisruptive, "Disruptive"),
		seat(agent.KindSmart, "Smart"),
	}},
	{"2xDisruptive + EVGreedy (3p)", []sim.SeatConfig{
		seat(agent.KindDisruptive, "Disruptive-1"),
		seat(agent.KindDisruptive, "Disruptive-2"),
		seat(agent.KindEVGreedy, "EVGreedy"),
	}},
	// 6 seats
	{"5xSmart + EVGreedy (6p)", []sim.SeatConfig{
		seat(agent.KindSmart, "Smart-1"),
		seat(agent.KindSmart, "Smart-2"),
		seat(agent.KindSmart, "Smart-3"),
		seat(agent.KindSmart, "Smart-4"),
		seat(agent.KindSmart, "Smart-5"),
		seat(agent.KindEVGreedy, "EVGreedy"),
	}},
	{"3xSmart + 2xHeuristic + EVGreedy (6p)", []sim.SeatConfig{
		seat(agent.KindSmart, "Smart-1"),
		seat(agent.KindSmart, "Smart-2"),
		seat(agent.KindSmart, "Smart-3"),
		seat(agent.KindHeuristic, "Heuristic-1"),
		seat(agent.KindHeuristic, "Heuristic-2"),
		seat(agent.KindEVGreedy, "EVGreedy"),
	}},
	{"5xSmart + Disruptive (6p)", []sim.SeatConfig{
		seat(agent.KindSmart, "Smart-1"),
		seat(agent.KindSmart, "Smart-2"),
		seat(agent.KindSmart, "Smart-3"),
		seat(agent.KindSmart, "Smart-4"),
		seat(agent.KindSmart, "Smart-5"),
		seat(agent.KindDisruptive, "Disruptive"),
	}},
	{"5xDisruptive + EVGreedy (6p)", []sim.SeatConfig{
		seat(agent.KindDisruptive, "Disruptive-1"),
		seat(agent.KindDisruptive, "Disruptive-2"),
		seat(agent.KindDisruptive, "Disruptive-3"),
		seat(agent.KindDisruptive, "Disruptive-4"),
		seat(agent.KindDisruptive, "Disruptive-5"),
		seat(agent.KindEVGreedy, "EVGreedy"),
	}},
	{"5xEVGreedy + Disruptive (6p)", []sim.SeatConfig{
		seat(agent.KindEVGreedy, "EVGreedy-1"),
		seat(agent.KindEVGreedy, "EVGreedy-2"),
		seat(agent.KindEVGreedy, "EVGreedy-3"),
		seat(agent.KindEVGreedy, "EVGreedy-4"),
		seat(agent.KindEVGreedy, "EVGreedy-5"),
		seat(agent.KindDisruptive, "Disruptive"),
	}},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	matches := flag.Int("matches", cfg.Matches, "matches per matchup")
	pointLimit := flag.Int("point-limit", cfg.PointLimit, "cumulative score that loses the match")
	maxTurns := flag.Int("max-turns", cfg.MaxTurns, "turn cap per round")
	seed := flag.Uint64("seed", cfg.Seed, "base RNG seed")
	parallelism := flag.Int("parallelism", cfg.Parallelism, "concurrent matches (0 = GOMAXPROCS)")
	logLevel := flag.String("log-level", cfg.LogLevel, "logrus level")
	only := flag.String("matchup", "", "run only matchups whose name contains this substring")
	flag.Parse()

	log := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ran := 0
	for _, mu := range matchups {
		if *only != "" && !strings.Contains(mu.name, *only) {
			continue
		}
		ran++
		log.WithFields(logrus.Fields{
			"matchup": mu.name,
			"matches": *matches,
		}).Info("running matchup")

		t := sim.NewTournament(mu.seats, *matches, *seed, log)
		t.PointLimit = *pointLimit
		t.MaxTurns = *maxTurns
		t.Parallelism = *parallelism

		res, err := t.Play(ctx)
		if err != nil {
			log.WithError(err).Fatal("tournament failed")
		}
		printMatchup(mu, res)
	}
	if ran == 0 {
		fmt.Fprintf(os.Stderr, "no matchup matches %q\n", *only)
		os.Exit(1)
	}
}

func printMatchup(mu matchup, res *sim.TournamentResult) {
	fmt.Printf("\n--- %s ---\n", mu.name)
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Agent\tWins\tWin%\tAvg Score\tStdev\tCambio\tCallerWin%")
	for seatIdx, sc := range mu.seats {
		dist := res.Scores[seatIdx]
		callerWin := "n/a"
		if calls := res.CambioCalls[seatIdx]; calls > 0 {
			callerWin = fmt.Sprintf("%.0f%%", 100*float64(res.CambioWins[seatIdx])/float64(calls))
		}
		fmt.Fprintf(w, "%s\t%d\t%.0f%%\t%.1f\t%.1f\t%d\t%s\n",
			sc.Name,
			res.WinCounts[seatIdx],
			100*res.WinRates[seatIdx],
			dist.Mean,
			dist.Stdev,
			res.CambioCalls[seatIdx],
			callerWin,
		)
	}
	w.Flush()
	fmt.Printf("Avg rounds/match: %.1f\n", res.AvgRounds)
}
