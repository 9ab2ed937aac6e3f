package guard

import "fmt"

// PatternRule recognizes one of the four closed pattern grammars using a
// hand-coded, byte-at-a-time scanner (never a backtracking regex engine),
// carrying at most carryBound(kind) trailing bytes across Feed calls so a
// match split across a chunk boundary is still recognized whole.
//
// Block-action rules never need to reconstruct output text: a match simply
// ends the stream, so the carry buffer only needs to answer "has this
// grammar matched yet". Rewrite-action rules must additionally avoid
// leaking an unresolved candidate's raw bytes into the output before it is
// known whether the candidate is a match; those rules hold such bytes back
// (returning a Rewrite decision, possibly with an empty replacement) until
// the candidate resolves one way or the other.
type PatternRule struct {
	name   string
	kind   PatternKind
	action patternAction

	reason      string
	replacement string
	weight      int

	buffer    []byte
	lastScore int
}

// PatternConfig describes a PatternRule's construction parameters.
type PatternConfig struct {
	Name        string
	Kind        PatternKind
	Action      patternAction
	Reason      string
	Replacement string
	Score       int
}

// NewPatternRule builds a PatternRule from a PatternConfig.
func NewPatternRule(cfg PatternConfig) *PatternRule {
	return &PatternRule{
		name:        cfg.Name,
		kind:        cfg.Kind,
		action:      cfg.Action,
		reason:      cfg.Reason,
		replacement: cfg.Replacement,
		weight:      cfg.Score,
	}
}

// BlockOnEmail builds a rule that blocks when an email address is detected.
func BlockOnEmail(name, reason string) *PatternRule {
	return NewPatternRule(PatternConfig{Name: name, Kind: PatternEmail, Action: patternActionBlock, Reason: reason})
}

// BlockOnURL builds a rule that blocks when a URL is detected.
func BlockOnURL(name, reason string) *PatternRule {
	return NewPatternRule(PatternConfig{Name: name, Kind: PatternURL, Action: patternActionBlock, Reason: reason})
}

// BlockOnIPv4 builds a rule that blocks when an IPv4 address is detected.
func BlockOnIPv4(name, reason string) *PatternRule {
	return NewPatternRule(PatternConfig{Name: name, Kind: PatternIPv4, Action: patternActionBlock, Reason: reason})
}

// BlockOnCreditCard builds a rule that blocks when a Luhn-valid card number is detected.
func BlockOnCreditCard(name, reason string) *PatternRule {
	return NewPatternRule(PatternConfig{Name: name, Kind: PatternCreditCard, Action: patternActionBlock, Reason: reason})
}

// RewriteEmail builds a rule that replaces detected email addresses with replacement.
func RewriteEmail(name, replacement string) *PatternRule {
	return NewPatternRule(PatternConfig{Name: name, Kind: PatternEmail, Action: patternActionRewrite, Replacement: replacement})
}

// RewriteURL builds a rule that replaces detected URLs with replacement.
func RewriteURL(name, replacement string) *PatternRule {
	return NewPatternRule(PatternConfig{Name: name, Kind: PatternURL, Action: patternActionRewrite, Replacement: replacement})
}

// RewriteIPv4 builds a rule that replaces detected IPv4 addresses with replacement.
func RewriteIPv4(name, replacement string) *PatternRule {
	return NewPatternRule(PatternConfig{Name: name, Kind: PatternIPv4, Action: patternActionRewrite, Replacement: replacement})
}

// RewriteCreditCard builds a rule that replaces detected card numbers with replacement.
func RewriteCreditCard(name, replacement string) *PatternRule {
	return NewPatternRule(PatternConfig{Name: name, Kind: PatternCreditCard, Action: patternActionRewrite, Replacement: replacement})
}

// Name returns the rule's configured name.
func (r *PatternRule) Name() string { return r.name }

// ScoreWeight returns the configured score. Pattern matches drive the
// engine's own Block/Rewrite path directly; the engine adds no pattern-rule
// score to the cumulative scorer or to ScoreBreakdown.
func (r *PatternRule) ScoreWeight() int { return r.weight }

// LastScore reports the configured weight when the most recent Feed call
// blocked on a match, and zero otherwise (including after a rewrite).
func (r *PatternRule) LastScore() int { return r.lastScore }

// Reset discards the carry buffer.
func (r *PatternRule) Reset() {
	r.buffer = r.buffer[:0]
	r.lastScore = 0
}

// Feed scans carry+chunk for the rule's grammar.
func (r *PatternRule) Feed(chunk string) Decision {
	r.lastScore = 0
	if chunk == "" {
		return Allow()
	}

	combined := make([]byte, 0, len(r.buffer)+len(chunk))
	combined = append(combined, r.buffer...)
	combined = append(combined, chunk...)

	res := scanKind(r.kind, combined)
	tailStart := clampTail(res.tailStart, len(combined), carryBound(r.kind))

	if r.action == patternActionBlock {
		if len(res.matches) > 0 {
			r.buffer = r.buffer[:0]
			r.lastScore = r.weight
			return Block(r.reason)
		}
		r.buffer = append(r.buffer[:0], combined[tailStart:]...)
		return Allow()
	}

	// Rewrite: rebuild the emittable prefix, substituting every confirmed
	// match, and hold the unresolved tail back as carry.
	var out []byte
	pos := 0
	for _, m := range res.matches {
		out = append(out, combined[pos:m.start]...)
		out = append(out, r.replacement...)
		pos = m.end
	}
	out = append(out, combined[pos:tailStart]...)
	r.buffer = append(r.buffer[:0], combined[tailStart:]...)

	if len(res.matches) == 0 && len(r.buffer) == 0 && string(out) == chunk {
		return Allow()
	}
	return Rewrite(string(out))
}

// NewPatternRuleFromStrings builds a PatternRule for callers outside this
// package (such as a declarative config loader) that only have the action
// as a plain string ("block" or "rewrite") rather than the unexported
// patternAction type.
func NewPatternRuleFromStrings(cfg PatternConfig, action string) (*PatternRule, error) {
	switch action {
	case "block":
		cfg.Action = patternActionBlock
	case "rewrite":
		cfg.Action = patternActionRewrite
	default:
		return nil, fmt.Errorf("guard: unknown pattern action %q", action)
	}
	return NewPatternRule(cfg), nil
}

// clampTail enforces the kind's carry bound: when the unresolved candidate
// would exceed it, the candidate is deemed spurious and everything up to
// the last bound bytes is folded into the emittable region instead.
func clampTail(tailStart, total, bound int) int {
	if total-tailStart <= bound {
		return tailStart
	}
	return total - bound
}
