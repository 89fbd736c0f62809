package agent

import (
	"math/rand/v2"

	"github.com/HannahHughes30/cambio.ai/engine"
)

// smartCambioThreshold is the noisy hand estimate at or below which the
// Smart variant calls Cambio.
const smartCambioThreshold = 10

// Smart plays the baseline strategy but will call Cambio when a noisy
// estimate of its hand looks low enough: known slots count at face
// value and each unknown slot is sampled uniformly from -1 to 10.
type Smart struct {
	Heuristic
}

// NewSmart creates the noisy-estimate policy.
func NewSmart(rng *rand.Rand) *Smart {
	return &Smart{Heuristic: *NewHeuristic(rng)}
}

func (s *Smart) CallCambio(g *engine.Game, self *engine.Player) bool {
	total := 0
	for pos := 0; pos < len(self.Hand); pos++ {
		if c, known := self.KnownAt(pos); known {
			total += c.Value()
		} else {
			total += s.rng.IntN(12) - 1
		}
	}
	return total <= smartCambioThreshold
}
