package guard

// Rule is the closed capability every guardrail rule implements. The set of
// concrete rule kinds (sequence, pattern) is fixed; Rule itself stays a
// narrow interface so the engine can fan a chunk out to an arbitrary
// collection of them without knowing their concrete type.
type Rule interface {
	// Name identifies the rule for logging, telemetry and score breakdowns.
	Name() string

	// Feed processes one chunk of a stream and returns the rule's verdict
	// for it. Feed must be total: it never panics and never returns an
	// error, regardless of chunk content or boundaries.
	Feed(chunk string) Decision

	// Reset clears all accumulated state (carry buffers, sequence index,
	// latch) so the rule can be reused on a fresh stream.
	Reset()

	// ScoreWeight reports the score this rule contributes to the engine's
	// cumulative risk total when it completes without itself terminating
	// the stream. A weight of zero means the rule blocks immediately on
	// completion instead of scoring.
	ScoreWeight() int

	// LastScore reports how much score this rule contributed on its most
	// recent Feed call. It is distinct from ScoreWeight because a single
	// chunk can trigger zero, one, or several completions.
	LastScore() int
}

// RuleScore is one entry of a score breakdown: how much a named rule has
// contributed to the engine's running total.
type RuleScore struct {
	Name  string
	Score int
}
