package guard

import (
	"log/slog"

	"github.com/google/uuid"
)

// RewriteMode selects how a GuardEngine composes multiple rules' rewrite
// decisions within a single chunk.
type RewriteMode int

const (
	// RewriteChain feeds each rule's rewritten text forward as the input to
	// the next rule, so rewrites compose within one pass. This is the
	// default.
	RewriteChain RewriteMode = iota
	// RewriteFirstWins keeps only the first rewrite produced for a chunk;
	// every rule still sees the chunk's original text, and later rewrites
	// are discarded.
	RewriteFirstWins
)

// GuardEngine fans an incoming chunk out to an ordered list of rules,
// composes their rewrite decisions, tracks a cumulative risk score, and
// latches the first Block decision for the lifetime of the stream.
type GuardEngine struct {
	id uuid.UUID

	rules       []Rule
	scorer      riskScorer
	rewriteMode RewriteMode

	stopped   bool
	latched   Decision
	breakdown map[string]int

	logger *slog.Logger
}

// New constructs a GuardEngine with no score threshold (scoring disabled)
// and RewriteChain composition.
func New() *GuardEngine {
	return &GuardEngine{
		id:        uuid.New(),
		scorer:    newRiskScorer(0, 0),
		breakdown: make(map[string]int),
	}
}

// WithScoreThreshold sets the cumulative score at which the engine blocks
// with the reason "score threshold exceeded".
func (g *GuardEngine) WithScoreThreshold(threshold int) *GuardEngine {
	g.scorer.threshold = threshold
	return g
}

// WithScoreDecay sets the amount subtracted from the running score, floored
// at zero, before each chunk's contributions are added.
func (g *GuardEngine) WithScoreDecay(decay int) *GuardEngine {
	g.scorer.decay = decay
	return g
}

// WithRewriteMode selects how multiple rules' rewrites compose within a
// chunk.
func (g *GuardEngine) WithRewriteMode(mode RewriteMode) *GuardEngine {
	g.rewriteMode = mode
	return g
}

// WithLogger attaches a structured logger the engine uses to record Block
// decisions: decision kind, reason, and score, never the chunk content or
// matched text. With no logger configured (the default), Feed never touches
// log/slog at all, not even slog.Default, so the hot path stays allocation
// free for callers who don't want logging.
func (g *GuardEngine) WithLogger(logger *slog.Logger) *GuardEngine {
	g.logger = logger
	return g
}

// AddRule appends a rule to the engine's fan-out list. Rules are evaluated
// in the order they were added.
func (g *GuardEngine) AddRule(rule Rule) *GuardEngine {
	g.rules = append(g.rules, rule)
	return g
}

// RuleCount reports how many rules are registered.
func (g *GuardEngine) RuleCount() int { return len(g.rules) }

// ID returns the engine instance's identifier, used only for telemetry
// attribution.
func (g *GuardEngine) ID() uuid.UUID { return g.id }

// IsStopped reports whether the engine has latched a Block decision.
func (g *GuardEngine) IsStopped() bool { return g.stopped }

// CurrentScore returns the engine's running cumulative risk score.
func (g *GuardEngine) CurrentScore() int { return g.scorer.total }

// ScoreBreakdown returns, for every rule that has ever contributed score,
// its cumulative contribution so far, in rule-registration order.
func (g *GuardEngine) ScoreBreakdown() []RuleScore {
	out := make([]RuleScore, 0, len(g.breakdown))
	for _, r := range g.rules {
		if score, ok := g.breakdown[r.Name()]; ok {
			out = append(out, RuleScore{Name: r.Name(), Score: score})
		}
	}
	return out
}

// Reset clears the latch, the running score, and every rule's internal
// state, returning the engine to its freshly-constructed condition.
func (g *GuardEngine) Reset() {
	g.stopped = false
	g.latched = Decision{}
	g.scorer.reset()
	for k := range g.breakdown {
		delete(g.breakdown, k)
	}
	for _, r := range g.rules {
		r.Reset()
	}
}

// Feed processes one chunk through every registered rule and returns
// exactly one terminal Decision for it. Once the engine has latched a
// Block, every subsequent Feed call replays it without invoking any rule.
func (g *GuardEngine) Feed(chunk string) Decision {
	if g.stopped {
		return g.latched
	}

	working := chunk
	ruleInput := chunk
	rewriteApplied := false
	var pendingBlock *Decision
	chunkScore := 0

	for _, rule := range g.rules {
		input := ruleInput
		if g.rewriteMode == RewriteFirstWins {
			input = chunk
		}

		decision := rule.Feed(input)

		switch {
		case decision.IsBlock():
			if pendingBlock == nil {
				d := decision
				pendingBlock = &d
			}
		case decision.IsRewrite():
			if g.rewriteMode == RewriteChain {
				working = decision.Replacement
				ruleInput = working
			} else if !rewriteApplied {
				working = decision.Replacement
				rewriteApplied = true
			}
		default: // Allow
			if score := rule.LastScore(); score > 0 {
				chunkScore += score
				g.breakdown[rule.Name()] += score
			}
		}
	}

	g.scorer.decayThenAdd(chunkScore)
	if pendingBlock == nil && g.scorer.exceeded() {
		d := Block("score threshold exceeded")
		pendingBlock = &d
	}

	if pendingBlock != nil {
		g.stopped = true
		g.latched = *pendingBlock
		if g.logger != nil {
			g.logger.Info("streamguard decision",
				"kind", g.latched.Kind.String(),
				"reason", g.latched.Reason,
				"score", g.scorer.total,
			)
		}
		return g.latched
	}

	if working != chunk {
		return Rewrite(working)
	}
	return Allow()
}
