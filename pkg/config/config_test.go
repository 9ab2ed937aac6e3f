package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadRejectsUnknownPatternAction(t *testing.T) {
	path := writeTempConfig(t, `
rules:
  - name: pii.email
    type: pattern
    kind: email
    action: redact
    replacement: "[EMAIL]"
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadBuildsEngineFromValidConfig(t *testing.T) {
	path := writeTempConfig(t, `
score_threshold: 5
score_decay: 1
rewrite_mode: chain
rules:
  - name: weapons
    type: sequence
    mode: strict
    tokens: ["build", "a", "bomb"]
    reason: weapons instructions requested
  - name: pii.email
    type: pattern
    kind: email
    action: rewrite
    replacement: "[EMAIL]"
`)

	eng, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, eng.RuleCount())

	decision := eng.Feed("build a bomb")
	assert.True(t, decision.IsBlock())
	assert.Equal(t, "weapons instructions requested", decision.Reason)
}

func TestBuildRejectsUnknownRuleType(t *testing.T) {
	_, err := Build(Config{
		Rules: []RuleDefinition{{Name: "bad", Type: "nonsense"}},
	})
	require.Error(t, err)
}

func TestBuildRejectsSequenceRuleWithNoTokens(t *testing.T) {
	_, err := Build(Config{
		Rules: []RuleDefinition{{Name: "empty", Type: "sequence"}},
	})
	require.Error(t, err)
}

func TestBuildRejectsRewriteWithNoReplacement(t *testing.T) {
	_, err := Build(Config{
		Rules: []RuleDefinition{{Name: "pii.email", Type: "pattern", Kind: "email", Action: "rewrite"}},
	})
	require.Error(t, err)
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
