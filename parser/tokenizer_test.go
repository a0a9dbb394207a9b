package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonasBSD/hiwave-windows-sub003/parser/spec"
)

// collectTokens lexes the whole input with no tree construction feedback and
// returns every token before end of file.
func collectTokens(t *testing.T, input string) []Token {
	t.Helper()
	z := NewTokenizer(strings.NewReader(input))
	var out []Token
	progress := Progress{}
	for z.Next() {
		tok, err := z.Token(&progress)
		require.NoError(t, err)
		if tok.TokenType == endOfFileToken {
			break
		}
		out = append(out, *tok)
		progress = Progress{}
	}
	return out
}

// textOf concatenates the data of every character token.
func textOf(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		if tok.TokenType == characterToken {
			b.WriteString(tok.Data)
		}
	}
	return b.String()
}

func TestTokenizerStartTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Token
	}{
		{
			name:  "bare tag",
			input: "<div>",
			want:  Token{TokenType: startTagToken, TagName: "div"},
		},
		{
			name:  "uppercase tag and attribute names are lowercased",
			input: "<DIV CLASS=x>",
			want: Token{TokenType: startTagToken, TagName: "div",
				Attributes: []spec.Attribute{{Name: "class", Value: "x"}}},
		},
		{
			name:  "quoted and unquoted attributes",
			input: `<div class="a b" id=c>`,
			want: Token{TokenType: startTagToken, TagName: "div",
				Attributes: []spec.Attribute{
					{Name: "class", Value: "a b"},
					{Name: "id", Value: "c"},
				}},
		},
		{
			name:  "single quoted attribute",
			input: "<a href='x'>",
			want: Token{TokenType: startTagToken, TagName: "a",
				Attributes: []spec.Attribute{{Name: "href", Value: "x"}}},
		},
		{
			name:  "first duplicate attribute wins",
			input: "<a href=1 href=2>",
			want: Token{TokenType: startTagToken, TagName: "a",
				Attributes: []spec.Attribute{{Name: "href", Value: "1"}}},
		},
		{
			name:  "valueless attribute",
			input: "<input disabled>",
			want: Token{TokenType: startTagToken, TagName: "input",
				Attributes: []spec.Attribute{{Name: "disabled", Value: ""}}},
		},
		{
			name:  "self closing",
			input: "<br/>",
			want:  Token{TokenType: startTagToken, TagName: "br", SelfClosing: true},
		},
		{
			name:  "entity inside attribute value",
			input: `<a b="&amp;c">`,
			want: Token{TokenType: startTagToken, TagName: "a",
				Attributes: []spec.Attribute{{Name: "b", Value: "&c"}}},
		},
		{
			name:  "legacy entity followed by equals stays literal",
			input: `<a href="?a=b&not=c">`,
			want: Token{TokenType: startTagToken, TagName: "a",
				Attributes: []spec.Attribute{{Name: "href", Value: "?a=b&not=c"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := collectTokens(t, tt.input)
			require.Len(t, tokens, 1)
			if diff := cmp.Diff(tt.want, tokens[0]); diff != "" {
				t.Errorf("token mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizerEndTags(t *testing.T) {
	tokens := collectTokens(t, "</DiV >")
	require.Len(t, tokens, 1)
	assert.Equal(t, endTagToken, tokens[0].TokenType)
	assert.Equal(t, "div", tokens[0].TagName)
}

func TestTokenizerComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "<!--x-->", "x"},
		{"empty", "<!---->", ""},
		{"dashes inside", "<!-- a - b -->", " a - b "},
		{"bogus from bang", "<!x>", "x"},
		{"bogus from question mark", "<?xml?>", "?xml?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := collectTokens(t, tt.input)
			require.Len(t, tokens, 1)
			assert.Equal(t, commentToken, tokens[0].TokenType)
			assert.Equal(t, tt.want, tokens[0].Data)
		})
	}
}

func TestTokenizerDoctype(t *testing.T) {
	t.Run("bare html", func(t *testing.T) {
		tokens := collectTokens(t, "<!DOCTYPE html>")
		require.Len(t, tokens, 1)
		tok := tokens[0]
		assert.Equal(t, docTypeToken, tok.TokenType)
		assert.Equal(t, "html", tok.TagName)
		assert.False(t, tok.HasPublicID)
		assert.False(t, tok.HasSystemID)
		assert.False(t, tok.ForceQuirks)
	})
	t.Run("public and system identifiers", func(t *testing.T) {
		tokens := collectTokens(t,
			`<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd">`)
		require.Len(t, tokens, 1)
		tok := tokens[0]
		assert.Equal(t, "-//W3C//DTD HTML 4.01//EN", tok.PublicIdentifier)
		assert.Equal(t, "http://www.w3.org/TR/html4/strict.dtd", tok.SystemIdentifier)
		assert.True(t, tok.HasPublicID)
		assert.True(t, tok.HasSystemID)
	})
	t.Run("truncated doctype forces quirks", func(t *testing.T) {
		tokens := collectTokens(t, "<!DOCTYPE")
		require.Len(t, tokens, 1)
		assert.True(t, tokens[0].ForceQuirks)
	})
}

func TestTokenizerCharacterReferences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"named", "&amp;", "&"},
		{"named without semicolon", "&amp x", "& x"},
		{"longest match wins", "&notit;", "¬it;"},
		{"semicolon only entity", "&notin;", "∉"},
		{"decimal", "&#65;", "A"},
		{"hex", "&#x41;", "A"},
		{"hex uppercase", "&#X41;", "A"},
		{"windows-1252 remap", "&#150;", "–"},
		{"euro remap", "&#128;", "€"},
		{"null becomes replacement", "&#0;", "�"},
		{"out of range becomes replacement", "&#x110000;", "�"},
		{"surrogate becomes replacement", "&#xD800;", "�"},
		{"unknown name stays literal", "&nosuch;", "&nosuch;"},
		{"bare ampersand", "a & b", "a & b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textOf(collectTokens(t, tt.input)))
		})
	}
}

func TestTokenizerNewlineNormalization(t *testing.T) {
	assert.Equal(t, "a\nb\nc\n", textOf(collectTokens(t, "a\r\nb\rc\n")))
}

func TestTokenizerInvalidUTF8(t *testing.T) {
	z := NewTokenizer(strings.NewReader("ab\xffc"))
	progress := Progress{}
	var err error
	for z.Next() {
		if _, err = z.Token(&progress); err != nil {
			break
		}
		progress = Progress{}
	}
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestTokenizerTextAroundTags(t *testing.T) {
	tokens := collectTokens(t, "a<b>c</b>d")
	var kinds []tokenType
	for _, tok := range tokens {
		kinds = append(kinds, tok.TokenType)
	}
	want := []tokenType{characterToken, startTagToken, characterToken,
		endTagToken, characterToken}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("token kinds mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "acd", textOf(tokens))
}

func TestTokenizerLessThanWithoutTag(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lone bracket", "a < b", "a < b"},
		{"bracket before digit", "<3", "<3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textOf(collectTokens(t, tt.input)))
		})
	}
}
