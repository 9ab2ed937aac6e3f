package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineAllowsCleanStream(t *testing.T) {
	eng := New().AddRule(NewStrictSequence("weapons", []string{"build", "a", "bomb"}, "blocked"))

	for _, chunk := range []string{"Here's a recipe ", "for a lovely cake."} {
		decision := eng.Feed(chunk)
		assert.True(t, decision.IsAllow())
	}
	assert.False(t, eng.IsStopped())
}

func TestEngineBlocksAndLatches(t *testing.T) {
	eng := New().AddRule(NewStrictSequence("weapons", []string{"build", "a", "bomb"}, "weapons sequence detected"))

	assert.True(t, eng.Feed("please build a").IsAllow())
	first := eng.Feed(" bomb now")
	require.True(t, first.IsBlock())
	assert.Equal(t, "weapons sequence detected", first.Reason)
	assert.True(t, eng.IsStopped())

	// Subsequent feeds replay the same decision without re-evaluating rules.
	second := eng.Feed("anything at all")
	assert.Equal(t, first, second)
}

func TestEngineComposesRewritesInChainMode(t *testing.T) {
	eng := New().
		AddRule(RewriteEmail("pii.email", "[EMAIL]")).
		AddRule(RewriteURL("pii.url", "[URL]"))

	decision := eng.Feed("reach me at a@b.co or https://a.co now")
	require.True(t, decision.IsRewrite())
	text, _ := decision.RewrittenText()
	assert.Contains(t, text, "[EMAIL]")
	assert.Contains(t, text, "[URL]")
}

func TestEngineScoreThresholdBlocks(t *testing.T) {
	eng := New().
		WithScoreThreshold(10).
		AddRule(NewScoredSequence("mild", []string{"darn"}, "score threshold exceeded", 6))

	assert.True(t, eng.Feed("darn").IsAllow())
	assert.Equal(t, 6, eng.CurrentScore())

	decision := eng.Feed("darn again")
	assert.True(t, decision.IsBlock())
	assert.Equal(t, "score threshold exceeded", decision.Reason)
}

func TestEngineScoreDecay(t *testing.T) {
	eng := New().
		WithScoreThreshold(100).
		WithScoreDecay(3).
		AddRule(NewScoredSequence("mild", []string{"darn"}, "blocked", 2))

	eng.Feed("darn")
	assert.Equal(t, 2, eng.CurrentScore())
	eng.Feed("nothing here")
	assert.Equal(t, 0, eng.CurrentScore()) // decay(3) floors at zero before adding zero
	eng.Feed("darn")
	assert.Equal(t, 2, eng.CurrentScore())
}

func TestEngineScoreBreakdown(t *testing.T) {
	eng := New().
		WithScoreThreshold(1000).
		AddRule(NewScoredSequence("mild", []string{"darn"}, "blocked", 4))

	eng.Feed("darn")
	eng.Feed("darn")

	breakdown := eng.ScoreBreakdown()
	require.Len(t, breakdown, 1)
	assert.Equal(t, "mild", breakdown[0].Name)
	assert.Equal(t, 8, breakdown[0].Score)
}

func TestEngineResetRestoresFreshState(t *testing.T) {
	eng := New().AddRule(NewStrictSequence("weapons", []string{"build", "bomb"}, "blocked"))

	require.True(t, eng.Feed("build bomb").IsBlock())
	require.True(t, eng.IsStopped())

	eng.Reset()
	assert.False(t, eng.IsStopped())
	assert.Equal(t, 0, eng.CurrentScore())
	assert.True(t, eng.Feed("build bomb").IsBlock())
}

func TestEngineRewriteFirstWinsIgnoresLaterRewrites(t *testing.T) {
	eng := New().
		WithRewriteMode(RewriteFirstWins).
		AddRule(RewriteEmail("pii.email", "[EMAIL]")).
		AddRule(RewriteURL("pii.url", "[URL]"))

	decision := eng.Feed("a@b.co and https://a.co now")
	require.True(t, decision.IsRewrite())
	text, _ := decision.RewrittenText()
	assert.Contains(t, text, "[EMAIL]")
	assert.NotContains(t, text, "[URL]")
}

func TestEngineEmptyChunkIsAllow(t *testing.T) {
	eng := New().AddRule(NewStrictSequence("weapons", []string{"build", "bomb"}, "blocked"))
	assert.True(t, eng.Feed("").IsAllow())
}
