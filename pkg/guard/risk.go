package guard

// riskScorer accumulates integer score contributed by weight-positive rules
// across a stream, optionally decaying before each new contribution, and
// latches once the running total reaches a configured threshold.
type riskScorer struct {
	threshold int
	decay     int
	total     int
}

func newRiskScorer(threshold, decay int) riskScorer {
	return riskScorer{threshold: threshold, decay: decay}
}

// decayThenAdd subtracts the configured decay (never below zero) and then
// adds delta, returning the new running total.
func (s *riskScorer) decayThenAdd(delta int) int {
	if s.decay > 0 {
		s.total -= s.decay
		if s.total < 0 {
			s.total = 0
		}
	}
	s.total += delta
	return s.total
}

// exceeded reports whether the running total has reached the threshold. A
// non-positive threshold disables scoring entirely.
func (s *riskScorer) exceeded() bool {
	return s.threshold > 0 && s.total >= s.threshold
}

func (s *riskScorer) reset() {
	s.total = 0
}
