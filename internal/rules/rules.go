package rules

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Rule pairs a normalized pattern with its canned reply.
type Rule struct {
	Pattern string `toml:"pattern"`
	Reply   string `toml:"reply"`
}

// Table is an ordered rule table. It is built once at startup and never
// mutated afterwards, so handlers may share it without locking.
//
// Matching policy: a rule fires on an EXACT match of the normalized input
// against the normalized pattern. Substring and prefix matching were
// rejected because they let canned replies swallow real questions
// ("hello, can you explain goroutines?" must reach the model).
type Table struct {
	rules         []Rule
	clarification string
}

const defaultClarification = "I didn't catch that. Could you type your question again?"

type tableFile struct {
	Clarification string `toml:"clarification"`
	Rules         []Rule `toml:"rule"`
}

// New builds a table from rules in evaluation order. Patterns are
// normalized up front so matching is a plain string compare.
func New(clarification string, ruleList ...Rule) *Table {
	if clarification == "" {
		clarification = defaultClarification
	}
	normalized := make([]Rule, 0, len(ruleList))
	for _, r := range ruleList {
		normalized = append(normalized, Rule{
			Pattern: Normalize(r.Pattern),
			Reply:   r.Reply,
		})
	}
	return &Table{rules: normalized, clarification: clarification}
}

// Default returns the built-in table used when no rules file is configured.
func Default() *Table {
	return New(defaultClarification,
		Rule{Pattern: "hello", Reply: "Hello! Ask me anything."},
		Rule{Pattern: "hi", Reply: "Hello! Ask me anything."},
		Rule{Pattern: "who are you", Reply: "I'm a local Qwen chat assistant running on your machine."},
		Rule{Pattern: "who are you?", Reply: "I'm a local Qwen chat assistant running on your machine."},
	)
}

// LoadFile reads a rule table from a TOML file:
//
//	clarification = "..."
//
//	[[rule]]
//	pattern = "hello"
//	reply = "Hello! Ask me anything."
func LoadFile(path string) (*Table, error) {
	var file tableFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to load rules file: %w", err)
	}
	for i, r := range file.Rules {
		if strings.TrimSpace(r.Pattern) == "" {
			return nil, fmt.Errorf("rule %d has an empty pattern", i)
		}
		if r.Reply == "" {
			return nil, fmt.Errorf("rule %d (%q) has an empty reply", i, r.Pattern)
		}
	}
	return New(file.Clarification, file.Rules...), nil
}

// Normalize lowercases and trims input for matching. The original casing is
// never altered for anything forwarded to the model backend.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Match tests input against the table in order, first match wins.
func (t *Table) Match(input string) (string, bool) {
	normalized := Normalize(input)
	if normalized == "" {
		return t.clarification, true
	}
	for _, r := range t.rules {
		if normalized == r.Pattern {
			return r.Reply, true
		}
	}
	return "", false
}

// Clarification is the fixed reply for empty or whitespace-only input.
func (t *Table) Clarification() string {
	return t.clarification
}

// Len reports how many rules the table holds.
func (t *Table) Len() int {
	return len(t.rules)
}
