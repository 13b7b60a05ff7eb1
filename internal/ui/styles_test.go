package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormattersPrefixAndMessage(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(string) string
		prefix string
	}{
		{"Success", Success, "✓"},
		{"Warn", Warn, "⚠"},
		{"Err", Err, "✗"},
		{"Info", Info, "ℹ"},
		{"Hint", Hint, "💡"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.fn("hello")
			assert.Contains(t, out, tt.prefix)
			assert.Contains(t, out, "hello")
		})
	}
}

func TestPlainFormattersKeepInput(t *testing.T) {
	for name, fn := range map[string]func(string) string{"Addr": Addr, "Val": Val, "Meta": Meta} {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, fn("0xabc"), "0xabc")
		})
	}
}

func TestInfoDifferentFromHint(t *testing.T) {
	assert.NotEqual(t, Info("message"), Hint("message"))
}

func TestBanner(t *testing.T) {
	b := Banner()
	assert.True(t, strings.Count(b, "\n") >= 6)
	assert.Contains(t, b, "no-code dapps")
}
