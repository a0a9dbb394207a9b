package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharRefTable(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"amp;", "&"},
		{"amp", "&"},
		{"AMP;", "&"},
		{"lt;", "<"},
		{"gt", ">"},
		{"nbsp;", " "},
		{"euro;", "€"},
		{"copy", "©"},
		{"hellip;", "…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := charRefTable[tt.name]
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	// semicolon-only names have no bare form
	_, ok := charRefTable["euro"]
	assert.False(t, ok)
}

func TestHasCharRefPrefix(t *testing.T) {
	assert.True(t, hasCharRefPrefix("a"))
	assert.True(t, hasCharRefPrefix("am"))
	assert.True(t, hasCharRefPrefix("amp"))
	assert.True(t, hasCharRefPrefix("not"))
	assert.False(t, hasCharRefPrefix("zzz"))
	assert.False(t, hasCharRefPrefix("amq"))
}
