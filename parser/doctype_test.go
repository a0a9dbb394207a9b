package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuirksModeFromDoctype(t *testing.T) {
	tests := []struct {
		name string
		tok  Token
		want quirksMode
	}{
		{
			name: "modern doctype",
			tok:  Token{TagName: "html"},
			want: noQuirks,
		},
		{
			name: "force quirks flag",
			tok:  Token{TagName: "html", ForceQuirks: true},
			want: quirks,
		},
		{
			name: "wrong name",
			tok:  Token{TagName: "foo"},
			want: quirks,
		},
		{
			name: "public id html",
			tok:  Token{TagName: "html", HasPublicID: true, PublicIdentifier: "HTML"},
			want: quirks,
		},
		{
			name: "legacy prefix",
			tok: Token{TagName: "html", HasPublicID: true,
				PublicIdentifier: "-//W3C//DTD HTML 3.2//EN"},
			want: quirks,
		},
		{
			name: "ibm system id",
			tok: Token{TagName: "html", HasSystemID: true,
				SystemIdentifier: "http://www.ibm.com/data/dtd/v11/ibmxhtml1-transitional.dtd"},
			want: quirks,
		},
		{
			name: "html 4.01 transitional without system id",
			tok: Token{TagName: "html", HasPublicID: true,
				PublicIdentifier: "-//W3C//DTD HTML 4.01 Transitional//EN"},
			want: quirks,
		},
		{
			name: "html 4.01 transitional with system id",
			tok: Token{TagName: "html", HasPublicID: true, HasSystemID: true,
				PublicIdentifier: "-//W3C//DTD HTML 4.01 Transitional//EN",
				SystemIdentifier: "http://www.w3.org/TR/html4/loose.dtd"},
			want: limitedQuirks,
		},
		{
			name: "xhtml 1.0 frameset",
			tok: Token{TagName: "html", HasPublicID: true,
				PublicIdentifier: "-//W3C//DTD XHTML 1.0 Frameset//EN"},
			want: limitedQuirks,
		},
		{
			name: "strict html 4.01",
			tok: Token{TagName: "html", HasPublicID: true,
				PublicIdentifier: "-//W3C//DTD HTML 4.01//EN"},
			want: noQuirks,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := tt.tok
			tok.TokenType = docTypeToken
			assert.Equal(t, tt.want, quirksModeFromDoctype(&tok))
		})
	}
}

func TestQuirksModeDecidedOnce(t *testing.T) {
	t.Run("missing doctype forces quirks", func(t *testing.T) {
		c := NewTreeConstructor(newDefaultSink())
		c.ProcessToken(&Token{TokenType: characterToken, Data: "x"})
		assert.Equal(t, quirks, c.quirksMode)
	})
	t.Run("modern doctype stays no-quirks", func(t *testing.T) {
		c := NewTreeConstructor(newDefaultSink())
		c.ProcessToken(&Token{TokenType: docTypeToken, TagName: "html"})
		c.ProcessToken(&Token{TokenType: characterToken, Data: "x"})
		assert.Equal(t, noQuirks, c.quirksMode)
	})
}
