package guard

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SequenceMode selects how strictly a ForbiddenSequenceRule requires its
// tokens to appear back to back.
type SequenceMode int

const (
	// ModeStrict requires the tokens to appear with no intervening tokens:
	// any non-matching token resets progress to zero, unless that token
	// happens to equal the sequence's first token, in which case matching
	// restarts from index one.
	ModeStrict SequenceMode = iota
	// ModeGaps allows arbitrary tokens between sequence tokens, as long as
	// none of them is a configured stop word; a stop word resets progress
	// to zero.
	ModeGaps
)

// ForbiddenSequenceRule blocks (or scores) on an ordered run of tokens,
// tracked incrementally across chunks via an internal Tokenizer.
type ForbiddenSequenceRule struct {
	name      string
	tokens    []string
	mode      SequenceMode
	stopWords map[string]struct{}
	reason    string
	weight    int
	fold      FoldMode

	tok       *Tokenizer
	caser     cases.Caser
	index     int
	lastScore int
}

// SequenceConfig describes a ForbiddenSequenceRule's construction parameters.
type SequenceConfig struct {
	Name      string
	Tokens    []string
	Mode      SequenceMode
	StopWords []string
	Reason    string
	Score     int
	Fold      FoldMode
}

// NewForbiddenSequenceRule builds a rule from a SequenceConfig. Tokens and
// stop words are folded with cfg.Fold so comparisons at match time are
// consistent regardless of the casing rule callers pass in.
func NewForbiddenSequenceRule(cfg SequenceConfig) *ForbiddenSequenceRule {
	r := &ForbiddenSequenceRule{
		name:   cfg.Name,
		mode:   cfg.Mode,
		reason: cfg.Reason,
		weight: cfg.Score,
		fold:   cfg.Fold,
		tok:    NewTokenizer(cfg.Fold),
	}
	if cfg.Fold == FoldUnicode {
		r.caser = cases.Lower(language.Und)
	}
	r.tokens = make([]string, len(cfg.Tokens))
	for i, t := range cfg.Tokens {
		r.tokens[i] = r.fold_(t)
	}
	if len(cfg.StopWords) > 0 {
		r.stopWords = make(map[string]struct{}, len(cfg.StopWords))
		for _, w := range cfg.StopWords {
			r.stopWords[r.fold_(w)] = struct{}{}
		}
	}
	return r
}

// NewStrictSequence builds a zero-weight, Strict-mode sequence rule that
// blocks immediately on completion.
func NewStrictSequence(name string, tokens []string, reason string) *ForbiddenSequenceRule {
	return NewForbiddenSequenceRule(SequenceConfig{Name: name, Tokens: tokens, Mode: ModeStrict, Reason: reason})
}

// NewGapsSequence builds a zero-weight, Gaps-mode sequence rule with the
// given stop words.
func NewGapsSequence(name string, tokens []string, stopWords []string, reason string) *ForbiddenSequenceRule {
	return NewForbiddenSequenceRule(SequenceConfig{
		Name: name, Tokens: tokens, Mode: ModeGaps, StopWords: stopWords, Reason: reason,
	})
}

// NewScoredSequence builds a Strict-mode sequence rule that contributes
// score instead of blocking directly when it completes.
func NewScoredSequence(name string, tokens []string, reason string, score int) *ForbiddenSequenceRule {
	return NewForbiddenSequenceRule(SequenceConfig{Name: name, Tokens: tokens, Mode: ModeStrict, Reason: reason, Score: score})
}

func (r *ForbiddenSequenceRule) fold_(s string) string {
	if r.fold == FoldUnicode {
		return r.caser.String(s)
	}
	return foldASCII(s)
}

// Name returns the rule's configured name.
func (r *ForbiddenSequenceRule) Name() string { return r.name }

// ScoreWeight returns the configured score contribution.
func (r *ForbiddenSequenceRule) ScoreWeight() int { return r.weight }

// LastScore returns the score contributed by the most recent Feed call.
func (r *ForbiddenSequenceRule) LastScore() int { return r.lastScore }

// Reset clears tokenizer carry state and sequence progress.
func (r *ForbiddenSequenceRule) Reset() {
	r.tok.Reset()
	r.index = 0
	r.lastScore = 0
}

// Feed advances the sequence DFA by every token chunk completes, per the
// Strict/Gaps transition rules. A weight-zero rule that completes its
// sequence returns Block and stays latched at index == len(tokens); a
// weight-positive rule resets to index zero and accumulates score instead.
func (r *ForbiddenSequenceRule) Feed(chunk string) Decision {
	r.lastScore = 0
	if chunk == "" {
		return Allow()
	}

	tokens := r.tok.Feed(chunk)
	total := 0
	for _, tok := range tokens {
		if r.advance(tok) {
			if r.weight == 0 {
				r.lastScore = 0
				return Block(r.reason)
			}
			total += r.weight
		}
	}
	r.lastScore = total
	return Allow()
}

// advance applies one token's transition and reports whether the sequence
// just completed. For weight-positive rules it also resets index to zero so
// the sequence can recur within the same stream.
func (r *ForbiddenSequenceRule) advance(tok string) bool {
	k := len(r.tokens)
	if k == 0 {
		return false
	}

	// A weight-zero rule that has already completed stays latched at
	// index == k until Reset; it must not re-evaluate transitions, or the
	// next non-matching token would silently reset progress to zero.
	if r.weight == 0 && r.index >= k {
		return true
	}

	switch r.mode {
	case ModeGaps:
		if r.index < k && tok == r.tokens[r.index] {
			r.index++
		} else if _, stop := r.stopWords[tok]; stop {
			r.index = 0
		}
	default: // ModeStrict
		if r.index < k && tok == r.tokens[r.index] {
			r.index++
		} else if r.index < k && tok == r.tokens[0] {
			r.index = 1
		} else {
			r.index = 0
		}
	}

	if r.index >= k {
		if r.weight > 0 {
			r.index = 0
		}
		return true
	}
	return false
}
