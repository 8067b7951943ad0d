package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchExactOnly(t *testing.T) {
	table := Default()

	tests := []struct {
		name    string
		input   string
		want    string
		matched bool
	}{
		{"exact", "hello", "Hello! Ask me anything.", true},
		{"mixed case", "Hello", "Hello! Ask me anything.", true},
		{"surrounding whitespace", "  hello \n", "Hello! Ask me anything.", true},
		{"identity with question mark", "Who are you?", "I'm a local Qwen chat assistant running on your machine.", true},
		{"identity without question mark", "who are you", "I'm a local Qwen chat assistant running on your machine.", true},
		{"substring must not fire", "hello, can you explain goroutines?", "", false},
		{"prefix must not fire", "who are you talking to", "", false},
		{"real question", "Explain quantum entanglement", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, ok := table.Match(tt.input)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, reply)
		})
	}
}

func TestMatchEmptyInputIsClarification(t *testing.T) {
	table := Default()

	for _, input := range []string{"", "   ", "\t\n"} {
		reply, ok := table.Match(input)
		assert.True(t, ok)
		assert.Equal(t, table.Clarification(), reply)
	}
}

func TestMatchFirstRuleWins(t *testing.T) {
	table := New("",
		Rule{Pattern: "ping", Reply: "first"},
		Rule{Pattern: "ping", Reply: "second"},
	)

	reply, ok := table.Match("ping")
	assert.True(t, ok)
	assert.Equal(t, "first", reply)
}

func TestMatchIsDeterministic(t *testing.T) {
	table := Default()

	first, ok := table.Match("hello")
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		reply, ok := table.Match("hello")
		assert.True(t, ok)
		assert.Equal(t, first, reply)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	content := `
clarification = "Say something first."

[[rule]]
pattern = "Hej"
reply = "Hello there."

[[rule]]
pattern = "who made you"
reply = "A weekend project."
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "Say something first.", table.Clarification())

	// Patterns are normalized on load.
	reply, ok := table.Match("hej")
	assert.True(t, ok)
	assert.Equal(t, "Hello there.", reply)
}

func TestLoadFileRejectsEmptyFields(t *testing.T) {
	dir := t.TempDir()

	noPattern := filepath.Join(dir, "no_pattern.toml")
	require.NoError(t, os.WriteFile(noPattern, []byte("[[rule]]\nreply = \"x\"\n"), 0644))
	_, err := LoadFile(noPattern)
	assert.Error(t, err)

	noReply := filepath.Join(dir, "no_reply.toml")
	require.NoError(t, os.WriteFile(noReply, []byte("[[rule]]\npattern = \"x\"\n"), 0644))
	_, err = LoadFile(noReply)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
