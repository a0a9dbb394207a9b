package parser

import (
	"strings"

	"github.com/yonasBSD/hiwave-windows-sub003/parser/spec"
)

type tokenType uint

const (
	characterToken tokenType = iota
	startTagToken
	endTagToken
	commentToken
	docTypeToken
	endOfFileToken
)

func (t tokenType) String() string {
	switch t {
	case characterToken:
		return "character"
	case startTagToken:
		return "start tag"
	case endTagToken:
		return "end tag"
	case commentToken:
		return "comment"
	case docTypeToken:
		return "doctype"
	case endOfFileToken:
		return "eof"
	}
	return "unknown"
}

type tagType uint

const (
	startTag tagType = iota
	endTag
)

// Token is a finished lexical token ready for the tree constructor. Tokens
// own their string payloads and are consumed exactly once.
type Token struct {
	TokenType        tokenType
	TagName          string
	Attributes       []spec.Attribute
	PublicIdentifier string
	SystemIdentifier string
	HasPublicID      bool
	HasSystemID      bool
	ForceQuirks      bool
	SelfClosing      bool
	Data             string
}

// isWhitespace reports whether the token is a single ASCII-whitespace
// character token.
func (t *Token) isWhitespace() bool {
	if t.TokenType != characterToken || len(t.Data) != 1 {
		return false
	}
	switch t.Data[0] {
	case '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func (t *Token) getAttribute(name string) (string, bool) {
	for _, a := range t.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// TokenBuilder accumulates the pieces of the token currently being lexed.
type TokenBuilder struct {
	name           strings.Builder
	data           strings.Builder
	tempBuffer     strings.Builder
	publicID       strings.Builder
	systemID       strings.Builder
	attributeKey   strings.Builder
	attributeValue strings.Builder

	attributes []spec.Attribute
	seenAttrs  map[string]bool
	dropAttr   bool

	curTagType  tagType
	selfClosing bool
	forceQuirks bool
	hasPublicID bool
	hasSystemID bool

	characterReferenceCode int
}

func newTokenBuilder() *TokenBuilder {
	return &TokenBuilder{seenAttrs: map[string]bool{}}
}

// Reset clears everything except the temporary buffer, whose lifetime is
// managed by the character-reference and end-tag-name states.
func (b *TokenBuilder) Reset() {
	b.name.Reset()
	b.data.Reset()
	b.publicID.Reset()
	b.systemID.Reset()
	b.attributeKey.Reset()
	b.attributeValue.Reset()
	b.attributes = nil
	b.seenAttrs = map[string]bool{}
	b.dropAttr = false
	b.selfClosing = false
	b.forceQuirks = false
	b.hasPublicID = false
	b.hasSystemID = false
}

func (b *TokenBuilder) WriteName(r rune)           { b.name.WriteRune(r) }
func (b *TokenBuilder) WriteData(r rune)           { b.data.WriteRune(r) }
func (b *TokenBuilder) WriteAttributeName(r rune)  { b.attributeKey.WriteRune(r) }
func (b *TokenBuilder) WriteAttributeValue(r rune) { b.attributeValue.WriteRune(r) }
func (b *TokenBuilder) WriteTempBuffer(r rune)     { b.tempBuffer.WriteRune(r) }
func (b *TokenBuilder) ResetTempBuffer()           { b.tempBuffer.Reset() }
func (b *TokenBuilder) TempBuffer() string         { return b.tempBuffer.String() }
func (b *TokenBuilder) EnableSelfClosing()         { b.selfClosing = true }
func (b *TokenBuilder) EnableForceQuirks()         { b.forceQuirks = true }

func (b *TokenBuilder) WritePublicIdentifier(r rune) { b.publicID.WriteRune(r) }
func (b *TokenBuilder) WriteSystemIdentifier(r rune) { b.systemID.WriteRune(r) }

// MarkPublicIdentifier records that the doctype carried a public identifier,
// even an empty one. Quirks-mode decisions distinguish empty from missing.
func (b *TokenBuilder) MarkPublicIdentifier() { b.hasPublicID = true }
func (b *TokenBuilder) MarkSystemIdentifier() { b.hasSystemID = true }

// CheckDuplicateAttribute marks the attribute currently being built for
// dropping if one with the same name was already committed on this tag. The
// earlier occurrence wins.
func (b *TokenBuilder) CheckDuplicateAttribute() bool {
	if b.seenAttrs[b.attributeKey.String()] {
		b.dropAttr = true
	}
	return b.dropAttr
}

// CommitAttribute moves the in-progress name/value pair onto the attribute
// list, unless it was flagged as a duplicate.
func (b *TokenBuilder) CommitAttribute() {
	k := b.attributeKey.String()
	if k != "" {
		b.CheckDuplicateAttribute()
		if !b.dropAttr {
			b.seenAttrs[k] = true
			b.attributes = append(b.attributes, spec.Attribute{Name: k, Value: b.attributeValue.String()})
		}
	}
	b.attributeKey.Reset()
	b.attributeValue.Reset()
	b.dropAttr = false
}

func (b *TokenBuilder) SetCharRef(i int)    { b.characterReferenceCode = i }
func (b *TokenBuilder) GetCharRef() int     { return b.characterReferenceCode }
func (b *TokenBuilder) AddToCharRef(i int)  { b.characterReferenceCode += i }
func (b *TokenBuilder) MultByCharRef(i int) { b.characterReferenceCode *= i }

func (b *TokenBuilder) StartTagToken() Token {
	return Token{
		TokenType:   startTagToken,
		TagName:     b.name.String(),
		Attributes:  b.attributes,
		SelfClosing: b.selfClosing,
	}
}

func (b *TokenBuilder) EndTagToken() Token {
	return Token{
		TokenType:   endTagToken,
		TagName:     b.name.String(),
		Attributes:  b.attributes,
		SelfClosing: b.selfClosing,
	}
}

func (b *TokenBuilder) CharacterToken(r rune) Token {
	return Token{TokenType: characterToken, Data: string(r)}
}

// TempBufferCharTokens turns the temporary buffer into one character token
// per rune, used when a partial end tag or character reference is abandoned.
func (b *TokenBuilder) TempBufferCharTokens() []Token {
	var toks []Token
	for _, r := range b.TempBuffer() {
		toks = append(toks, b.CharacterToken(r))
	}
	return toks
}

func (b *TokenBuilder) CommentToken() Token {
	return Token{TokenType: commentToken, Data: b.data.String()}
}

func (b *TokenBuilder) DocTypeToken() Token {
	return Token{
		TokenType:        docTypeToken,
		TagName:          b.name.String(),
		ForceQuirks:      b.forceQuirks,
		PublicIdentifier: b.publicID.String(),
		SystemIdentifier: b.systemID.String(),
		HasPublicID:      b.hasPublicID,
		HasSystemID:      b.hasSystemID,
	}
}

func (b *TokenBuilder) EndOfFileToken() Token {
	return Token{TokenType: endOfFileToken}
}
