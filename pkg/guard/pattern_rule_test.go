package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailBlockWithinOneChunk(t *testing.T) {
	rule := BlockOnEmail("pii.email", "email address detected")
	decision := rule.Feed("contact me at john@example.com please")
	assert.True(t, decision.IsBlock())
}

func TestEmailBlockAcrossChunkBoundary(t *testing.T) {
	rule := BlockOnEmail("pii.email", "email address detected")
	assert.True(t, rule.Feed("Email me at ").IsAllow())
	assert.True(t, rule.Feed("john@exam").IsAllow())
	assert.True(t, rule.Feed("ple.com now").IsBlock())
}

func TestEmailRewriteReassemblesAcrossChunks(t *testing.T) {
	rule := RewriteEmail("pii.email", "[EMAIL]")

	var out string
	chunks := []string{"Contact ", "me at ", "john@exa", "mple.com", " for details"}
	for _, c := range chunks {
		d := rule.Feed(c)
		if text, ok := d.RewrittenText(); ok {
			out += text
		} else {
			out += c
		}
	}
	assert.Equal(t, "Contact me at [EMAIL] for details", out)
}

func TestEmailRejectsInvalidTLD(t *testing.T) {
	rule := BlockOnEmail("pii.email", "blocked")
	decision := rule.Feed("ping me at root@localhost now")
	assert.True(t, decision.IsAllow())
}

func TestURLBlockAcrossChunks(t *testing.T) {
	rule := BlockOnURL("pii.url", "url detected")
	assert.True(t, rule.Feed("visit https://exam").IsAllow())
	assert.True(t, rule.Feed("ple.com/path now").IsBlock())
}

func TestURLBlockAcrossProtocolSplit(t *testing.T) {
	rule := BlockOnURL("pii.url", "url detected")
	assert.True(t, rule.Feed("visit htt").IsAllow())
	assert.True(t, rule.Feed("ps://example.com now").IsBlock())
}

func TestURLRewriteHoldsPartialCandidate(t *testing.T) {
	rule := RewriteURL("pii.url", "[URL]")

	var out string
	for _, c := range []string{"see ", "https://example.com/x", " for more"} {
		d := rule.Feed(c)
		if text, ok := d.RewrittenText(); ok {
			out += text
		} else {
			out += c
		}
	}
	assert.Equal(t, "see [URL] for more", out)
}

func TestIPv4BlockExactMatch(t *testing.T) {
	rule := BlockOnIPv4("pii.ip", "ip detected")
	assert.True(t, rule.Feed("server at 192.168.1.1 is down").IsBlock())
}

func TestIPv4RejectsOutOfRangeOctet(t *testing.T) {
	rule := BlockOnIPv4("pii.ip", "blocked")
	assert.True(t, rule.Feed("version 999.1.1.1 here").IsAllow())
}

func TestIPv4AcrossChunks(t *testing.T) {
	rule := BlockOnIPv4("pii.ip", "ip detected")
	assert.True(t, rule.Feed("ip is 10.0.0.").IsAllow())
	assert.True(t, rule.Feed("1 right now").IsBlock())
}

func TestCreditCardLuhnValidBlocks(t *testing.T) {
	rule := BlockOnCreditCard("pii.cc", "card detected")
	// 4111111111111111 is a well known Luhn-valid test number.
	assert.True(t, rule.Feed("card 4111111111111111 on file").IsBlock())
}

func TestCreditCardLuhnInvalidAllows(t *testing.T) {
	rule := BlockOnCreditCard("pii.cc", "blocked")
	assert.True(t, rule.Feed("card 4111111111111112 on file").IsAllow())
}

func TestCreditCardWithSeparators(t *testing.T) {
	rule := BlockOnCreditCard("pii.cc", "card detected")
	assert.True(t, rule.Feed("number 4111-1111-1111-1111 on file").IsBlock())
}

func TestPatternRuleResetClearsCarry(t *testing.T) {
	rule := BlockOnEmail("pii.email", "blocked")
	assert.True(t, rule.Feed("john@exa").IsAllow())
	rule.Reset()
	assert.True(t, rule.Feed("mple.com").IsAllow())
}
