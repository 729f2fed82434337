package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/sfh/internal/domain"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("SFH_CONFIG_FILE", "")
	t.Setenv("LOG_LEVEL", "error")

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommandFromArgs(t *testing.T) {
	out, err := runCommand(t, "", "validate", "just stop being anxious")
	require.NoError(t, err)
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "A13")
	assert.Contains(t, out, "Axiom A13 violated")
}

func TestValidateCommandFromStdinJSON(t *testing.T) {
	text := "I hear you, and what you describe makes sense. Let me explain this in terms of coherence: " +
		"your attachment system is looking for connection, and the awareness you bring to this experience " +
		"is already part of the therapeutic process. Think about one moment this week when you felt settled."
	out, err := runCommand(t, text, "validate", "--json")
	require.NoError(t, err)

	var result domain.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Passed)
	assert.Empty(t, result.ViolatedAxioms)
}

func TestValidateCommandHighRiskNeedsReferral(t *testing.T) {
	out, err := runCommand(t, "", "validate", "--risk", "high", "That makes sense, let me explain.")
	require.NoError(t, err)
	assert.Contains(t, out, "A11")
}

func TestValidateCommandRejectsUnknownRisk(t *testing.T) {
	_, err := runCommand(t, "", "validate", "--risk", "extreme", "hello")
	assert.Error(t, err)
}

func TestAxiomsCommand(t *testing.T) {
	out, err := runCommand(t, "", "axioms")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 38)
	assert.Contains(t, lines[0], "SEVERITY")
	assert.Contains(t, out, "A37")

	critical, err := runCommand(t, "", "axioms", "--critical")
	require.NoError(t, err)
	assert.NotContains(t, critical, "warning")
}

func TestChatCommandWithMockProviders(t *testing.T) {
	t.Setenv("GROK_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("SESSION_DSN", ":memory:")

	out, err := runCommand(t, "", "chat", "--mock", "--provider", "groq", "I feel lonely lately")
	require.NoError(t, err)
	assert.Contains(t, out, "provider: groq")
	assert.Contains(t, out, "PASS")
}

func TestChatCommandWithoutProvidersFails(t *testing.T) {
	t.Setenv("GROK_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("SFH_MODE", "")

	_, err := runCommand(t, "", "chat", "hello")
	assert.Error(t, err)
}
