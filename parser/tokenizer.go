package parser

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/yonasBSD/hiwave-windows-sub003/parser/spec"
)

// ErrInvalidEncoding is returned when the input stream contains bytes that
// are not valid UTF-8. The caller decides whether to re-decode; no byte
// sniffing happens here.
var ErrInvalidEncoding = errors.New("invalid UTF-8 byte sequence in input stream")

// Tokenizer turns a stream of runes into HTML tokens. It is driven one token
// at a time by the tree constructor, which can switch its state between
// tokens (script, style and friends change how text is scanned).
type Tokenizer struct {
	done                      bool
	returnState, currentState tokenizerState
	inputStream               *bufio.Reader
	offset                    int
	adjustedCurrentNode       *spec.Node
	emittedTokens             []Token
	tokenBuilder              *TokenBuilder
	lastEmittedStartTagName   string
	stateHandlers             map[tokenizerState]stateHandler
}

// discard skips n buffered bytes, keeping the byte offset reported on
// encoding errors accurate.
func (p *Tokenizer) discard(n int) {
	skipped, _ := p.inputStream.Discard(n)
	p.offset += skipped
}

// Progress carries the tree constructor's feedback to the tokenizer: the
// adjusted current node (for CDATA handling in foreign content) and, when
// set, a state override.
type Progress struct {
	AdjustedCurrentNode *spec.Node
	TokenizerState      *tokenizerState
}

// NewTokenizer creates a tokenizer reading from r, starting in the data
// state.
func NewTokenizer(r io.Reader) *Tokenizer {
	p := &Tokenizer{
		inputStream:  bufio.NewReader(r),
		tokenBuilder: newTokenBuilder(),
	}
	p.createStateMappings()
	return p
}

// a stateHandler processes one rune (or end of file) and reports whether the
// same rune must be reconsumed, plus the state to run next.
type stateHandler func(r rune, eof bool) (bool, tokenizerState)

type tokenizerState uint

const (
	dataState tokenizerState = iota
	rcDataState
	rawTextState
	scriptDataState
	plaintextState
	tagOpenState
	endTagOpenState
	tagNameState
	rcDataLessThanSignState
	rcDataEndTagOpenState
	rcDataEndTagNameState
	rawTextLessThanSignState
	rawTextEndTagOpenState
	rawTextEndTagNameState
	scriptDataLessThanSignState
	scriptDataEndTagOpenState
	scriptDataEndTagNameState
	scriptDataEscapeStartState
	scriptDataEscapeStartDashState
	scriptDataEscapedState
	scriptDataEscapedDashState
	scriptDataEscapedDashDashState
	scriptDataEscapedLessThanSignState
	scriptDataEscapedEndTagOpenState
	scriptDataEscapedEndTagNameState
	scriptDataDoubleEscapeStartState
	scriptDataDoubleEscapedState
	scriptDataDoubleEscapedDashState
	scriptDataDoubleEscapedDashDashState
	scriptDataDoubleEscapedLessThanSignState
	scriptDataDoubleEscapeEndState
	beforeAttributeNameState
	attributeNameState
	afterAttributeNameState
	beforeAttributeValueState
	attributeValueDoubleQuotedState
	attributeValueSingleQuotedState
	attributeValueUnquotedState
	afterAttributeValueQuotedState
	selfClosingStartTagState
	bogusCommentState
	markupDeclarationOpenState
	commentStartState
	commentStartDashState
	commentState
	commentLessThanSignState
	commentLessThanSignBangState
	commentLessThanSignBangDashState
	commentLessThanSignBangDashDashState
	commentEndDashState
	commentEndState
	commentEndBangState
	doctypeState
	beforeDoctypeNameState
	doctypeNameState
	afterDoctypeNameState
	afterDoctypePublicKeywordState
	beforeDoctypePublicIdentifierState
	doctypePublicIdentifierDoubleQuotedState
	doctypePublicIdentifierSingleQuotedState
	afterDoctypePublicIdentifierState
	betweenDoctypePublicAndSystemIdentifiersState
	afterDoctypeSystemKeywordState
	beforeDoctypeSystemIdentifierState
	doctypeSystemIdentifierDoubleQuotedState
	doctypeSystemIdentifierSingleQuotedState
	afterDoctypeSystemIdentifierState
	bogusDoctypeState
	cdataSectionState
	cdataSectionBracketState
	cdataSectionEndState
	characterReferenceState
	namedCharacterReferenceState
	ambiguousAmpersandState
	numericCharacterReferenceState
	hexadecimalCharacterReferenceStartState
	decimalCharacterReferenceStartState
	hexadecimalCharacterReferenceState
	decimalCharacterReferenceState
	numericCharacterReferenceEndState
)

var tokenizerStateNames = [...]string{
	"data", "rcData", "rawText", "scriptData", "plaintext",
	"tagOpen", "endTagOpen", "tagName",
	"rcDataLessThanSign", "rcDataEndTagOpen", "rcDataEndTagName",
	"rawTextLessThanSign", "rawTextEndTagOpen", "rawTextEndTagName",
	"scriptDataLessThanSign", "scriptDataEndTagOpen", "scriptDataEndTagName",
	"scriptDataEscapeStart", "scriptDataEscapeStartDash",
	"scriptDataEscaped", "scriptDataEscapedDash", "scriptDataEscapedDashDash",
	"scriptDataEscapedLessThanSign", "scriptDataEscapedEndTagOpen",
	"scriptDataEscapedEndTagName", "scriptDataDoubleEscapeStart",
	"scriptDataDoubleEscaped", "scriptDataDoubleEscapedDash",
	"scriptDataDoubleEscapedDashDash", "scriptDataDoubleEscapedLessThanSign",
	"scriptDataDoubleEscapeEnd",
	"beforeAttributeName", "attributeName", "afterAttributeName",
	"beforeAttributeValue", "attributeValueDoubleQuoted",
	"attributeValueSingleQuoted", "attributeValueUnquoted",
	"afterAttributeValueQuoted", "selfClosingStartTag",
	"bogusComment", "markupDeclarationOpen",
	"commentStart", "commentStartDash", "comment",
	"commentLessThanSign", "commentLessThanSignBang",
	"commentLessThanSignBangDash", "commentLessThanSignBangDashDash",
	"commentEndDash", "commentEnd", "commentEndBang",
	"doctype", "beforeDoctypeName", "doctypeName", "afterDoctypeName",
	"afterDoctypePublicKeyword", "beforeDoctypePublicIdentifier",
	"doctypePublicIdentifierDoubleQuoted", "doctypePublicIdentifierSingleQuoted",
	"afterDoctypePublicIdentifier", "betweenDoctypePublicAndSystemIdentifiers",
	"afterDoctypeSystemKeyword", "beforeDoctypeSystemIdentifier",
	"doctypeSystemIdentifierDoubleQuoted", "doctypeSystemIdentifierSingleQuoted",
	"afterDoctypeSystemIdentifier", "bogusDoctype",
	"cdataSection", "cdataSectionBracket", "cdataSectionEnd",
	"characterReference", "namedCharacterReference", "ambiguousAmpersand",
	"numericCharacterReference", "hexadecimalCharacterReferenceStart",
	"decimalCharacterReferenceStart", "hexadecimalCharacterReference",
	"decimalCharacterReference", "numericCharacterReferenceEnd",
}

func (s tokenizerState) String() string {
	if int(s) < len(tokenizerStateNames) {
		return tokenizerStateNames[s]
	}
	return "unknown"
}

func (p *Tokenizer) createStateMappings() {
	p.stateHandlers = map[tokenizerState]stateHandler{
		dataState:                                     p.dataStateHandler,
		rcDataState:                                   p.rcDataStateHandler,
		rawTextState:                                  p.rawTextStateHandler,
		scriptDataState:                               p.scriptDataStateHandler,
		plaintextState:                                p.plaintextStateHandler,
		tagOpenState:                                  p.tagOpenStateHandler,
		endTagOpenState:                               p.endTagOpenStateHandler,
		tagNameState:                                  p.tagNameStateHandler,
		rcDataLessThanSignState:                       p.rcDataLessThanSignStateHandler,
		rcDataEndTagOpenState:                         p.rcDataEndTagOpenStateHandler,
		rcDataEndTagNameState:                         p.rcDataEndTagNameStateHandler,
		rawTextLessThanSignState:                      p.rawTextLessThanSignStateHandler,
		rawTextEndTagOpenState:                        p.rawTextEndTagOpenStateHandler,
		rawTextEndTagNameState:                        p.rawTextEndTagNameStateHandler,
		scriptDataLessThanSignState:                   p.scriptDataLessThanSignStateHandler,
		scriptDataEndTagOpenState:                     p.scriptDataEndTagOpenStateHandler,
		scriptDataEndTagNameState:                     p.scriptDataEndTagNameStateHandler,
		scriptDataEscapeStartState:                    p.scriptDataEscapeStartStateHandler,
		scriptDataEscapeStartDashState:                p.scriptDataEscapeStartDashStateHandler,
		scriptDataEscapedState:                        p.scriptDataEscapedStateHandler,
		scriptDataEscapedDashState:                    p.scriptDataEscapedDashStateHandler,
		scriptDataEscapedDashDashState:                p.scriptDataEscapedDashDashStateHandler,
		scriptDataEscapedLessThanSignState:            p.scriptDataEscapedLessThanSignStateHandler,
		scriptDataEscapedEndTagOpenState:              p.scriptDataEscapedEndTagOpenStateHandler,
		scriptDataEscapedEndTagNameState:              p.scriptDataEscapedEndTagNameStateHandler,
		scriptDataDoubleEscapeStartState:              p.scriptDataDoubleEscapeStartStateHandler,
		scriptDataDoubleEscapedState:                  p.scriptDataDoubleEscapedStateHandler,
		scriptDataDoubleEscapedDashState:              p.scriptDataDoubleEscapedDashStateHandler,
		scriptDataDoubleEscapedDashDashState:          p.scriptDataDoubleEscapedDashDashStateHandler,
		scriptDataDoubleEscapedLessThanSignState:      p.scriptDataDoubleEscapedLessThanSignStateHandler,
		scriptDataDoubleEscapeEndState:                p.scriptDataDoubleEscapeEndStateHandler,
		beforeAttributeNameState:                      p.beforeAttributeNameStateHandler,
		attributeNameState:                            p.attributeNameStateHandler,
		afterAttributeNameState:                       p.afterAttributeNameStateHandler,
		beforeAttributeValueState:                     p.beforeAttributeValueStateHandler,
		attributeValueDoubleQuotedState:               p.attributeValueDoubleQuotedStateHandler,
		attributeValueSingleQuotedState:               p.attributeValueSingleQuotedStateHandler,
		attributeValueUnquotedState:                   p.attributeValueUnquotedStateHandler,
		afterAttributeValueQuotedState:                p.afterAttributeValueQuotedStateHandler,
		selfClosingStartTagState:                      p.selfClosingStartTagStateHandler,
		bogusCommentState:                             p.bogusCommentStateHandler,
		markupDeclarationOpenState:                    p.markupDeclarationOpenStateHandler,
		commentStartState:                             p.commentStartStateHandler,
		commentStartDashState:                         p.commentStartDashStateHandler,
		commentState:                                  p.commentStateHandler,
		commentLessThanSignState:                      p.commentLessThanSignStateHandler,
		commentLessThanSignBangState:                  p.commentLessThanSignBangStateHandler,
		commentLessThanSignBangDashState:              p.commentLessThanSignBangDashStateHandler,
		commentLessThanSignBangDashDashState:          p.commentLessThanSignBangDashDashStateHandler,
		commentEndDashState:                           p.commentEndDashStateHandler,
		commentEndState:                               p.commentEndStateHandler,
		commentEndBangState:                           p.commentEndBangStateHandler,
		doctypeState:                                  p.doctypeStateHandler,
		beforeDoctypeNameState:                        p.beforeDoctypeNameStateHandler,
		doctypeNameState:                              p.doctypeNameStateHandler,
		afterDoctypeNameState:                         p.afterDoctypeNameStateHandler,
		afterDoctypePublicKeywordState:                p.afterDoctypePublicKeywordStateHandler,
		beforeDoctypePublicIdentifierState:            p.beforeDoctypePublicIdentifierStateHandler,
		doctypePublicIdentifierDoubleQuotedState:      p.doctypePublicIdentifierDoubleQuotedStateHandler,
		doctypePublicIdentifierSingleQuotedState:      p.doctypePublicIdentifierSingleQuotedStateHandler,
		afterDoctypePublicIdentifierState:             p.afterDoctypePublicIdentifierStateHandler,
		betweenDoctypePublicAndSystemIdentifiersState: p.betweenDoctypePublicAndSystemIdentifiersStateHandler,
		afterDoctypeSystemKeywordState:                p.afterDoctypeSystemKeywordStateHandler,
		beforeDoctypeSystemIdentifierState:            p.beforeDoctypeSystemIdentifierStateHandler,
		doctypeSystemIdentifierDoubleQuotedState:      p.doctypeSystemIdentifierDoubleQuotedStateHandler,
		doctypeSystemIdentifierSingleQuotedState:      p.doctypeSystemIdentifierSingleQuotedStateHandler,
		afterDoctypeSystemIdentifierState:             p.afterDoctypeSystemIdentifierStateHandler,
		bogusDoctypeState:                             p.bogusDoctypeStateHandler,
		cdataSectionState:                             p.cdataSectionStateHandler,
		cdataSectionBracketState:                      p.cdataSectionBracketStateHandler,
		cdataSectionEndState:                          p.cdataSectionEndStateHandler,
		characterReferenceState:                       p.characterReferenceStateHandler,
		namedCharacterReferenceState:                  p.namedCharacterReferenceStateHandler,
		ambiguousAmpersandState:                       p.ambiguousAmpersandStateHandler,
		numericCharacterReferenceState:                p.numericCharacterReferenceStateHandler,
		hexadecimalCharacterReferenceStartState:       p.hexadecimalCharacterReferenceStartStateHandler,
		decimalCharacterReferenceStartState:           p.decimalCharacterReferenceStartStateHandler,
		hexadecimalCharacterReferenceState:            p.hexadecimalCharacterReferenceStateHandler,
		decimalCharacterReferenceState:                p.decimalCharacterReferenceStateHandler,
		numericCharacterReferenceEndState:             p.numericCharacterReferenceEndStateHandler,
	}
}

func isHTMLWhitespace(r rune) bool {
	return r == '\t' || r == '\n' || r == '\f' || r == ' '
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }
func isASCIIAlpha(r rune) bool { return isASCIIUpper(r) || isASCIILower(r) }
func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func isASCIIHexDigit(r rune) bool {
	return isASCIIDigit(r) || (r >= 'A' && r <= 'F') || (r >= 'a' && r <= 'f')
}

func isASCIIAlphanumeric(r rune) bool { return isASCIIAlpha(r) || isASCIIDigit(r) }

func wasConsumedByAttribute(returnState tokenizerState) bool {
	switch returnState {
	case attributeValueDoubleQuotedState, attributeValueSingleQuotedState, attributeValueUnquotedState:
		return true
	}
	return false
}

func (p *Tokenizer) flushCodePointsAsCharacterReference() {
	if wasConsumedByAttribute(p.returnState) {
		for _, v := range p.tokenBuilder.TempBuffer() {
			p.tokenBuilder.WriteAttributeValue(v)
		}
	} else {
		p.emit(p.tokenBuilder.TempBufferCharTokens()...)
	}
}

// isApprEndTagToken reports whether the end tag being built matches the last
// start tag this tokenizer emitted, which is what ends RCDATA and RAWTEXT.
func (p *Tokenizer) isApprEndTagToken() bool {
	return p.lastEmittedStartTagName == p.tokenBuilder.name.String()
}

func (p *Tokenizer) emit(tokens ...Token) {
	for _, token := range tokens {
		if token.TokenType == endTagToken {
			// end tags never carry attributes or the self-closing flag
			token.Attributes = nil
			token.SelfClosing = false
		} else if token.TokenType == startTagToken {
			p.lastEmittedStartTagName = token.TagName
		}

		p.emittedTokens = append(p.emittedTokens, token)
	}
}

func (p *Tokenizer) emitCurrentTag() tokenizerState {
	p.tokenBuilder.CommitAttribute()
	switch p.tokenBuilder.curTagType {
	case startTag:
		p.emit(p.tokenBuilder.StartTagToken())
	case endTag:
		p.emit(p.tokenBuilder.EndTagToken())
	}

	return dataState
}

func (p *Tokenizer) dataStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '&':
		p.returnState = dataState
		return false, characterReferenceState
	case '<':
		return false, tagOpenState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, dataState
	}
}

func (p *Tokenizer) rcDataStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '&':
		p.returnState = rcDataState
		return false, characterReferenceState
	case '<':
		return false, rcDataLessThanSignState
	case '\x00':
		p.emit(p.tokenBuilder.CharacterToken('�'))
		return false, rcDataState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, rcDataState
	}
}

func (p *Tokenizer) rawTextStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '<':
		return false, rawTextLessThanSignState
	case '\x00':
		p.emit(p.tokenBuilder.CharacterToken('�'))
		return false, rawTextState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, rawTextState
	}
}

func (p *Tokenizer) scriptDataStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '<':
		return false, scriptDataLessThanSignState
	case '\x00':
		p.emit(p.tokenBuilder.CharacterToken('�'))
		return false, scriptDataState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, scriptDataState
	}
}

func (p *Tokenizer) plaintextStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	if r == '\x00' {
		p.emit(p.tokenBuilder.CharacterToken('�'))
		return false, plaintextState
	}
	p.emit(p.tokenBuilder.CharacterToken(r))
	return false, plaintextState
}

func (p *Tokenizer) tagOpenStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case r == '!':
		return false, markupDeclarationOpenState
	case r == '/':
		return false, endTagOpenState
	case isASCIIAlpha(r):
		p.tokenBuilder.Reset()
		p.tokenBuilder.curTagType = startTag
		return true, tagNameState
	case r == '?':
		p.tokenBuilder.Reset()
		return true, bogusCommentState
	default:
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return true, dataState
	}
}

func (p *Tokenizer) endTagOpenStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isASCIIAlpha(r):
		p.tokenBuilder.Reset()
		p.tokenBuilder.curTagType = endTag
		return true, tagNameState
	case r == '>':
		return false, dataState
	default:
		p.tokenBuilder.Reset()
		return true, bogusCommentState
	}
}

func (p *Tokenizer) tagNameStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isHTMLWhitespace(r):
		return false, beforeAttributeNameState
	case r == '/':
		return false, selfClosingStartTagState
	case r == '>':
		return false, p.emitCurrentTag()
	case isASCIIUpper(r):
		p.tokenBuilder.WriteName(r + 0x20)
		return false, tagNameState
	case r == '\x00':
		p.tokenBuilder.WriteName('�')
		return false, tagNameState
	default:
		p.tokenBuilder.WriteName(r)
		return false, tagNameState
	}
}

func (p *Tokenizer) rcDataLessThanSignStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof && r == '/' {
		p.tokenBuilder.ResetTempBuffer()
		return false, rcDataEndTagOpenState
	}
	p.emit(p.tokenBuilder.CharacterToken('<'))
	return true, rcDataState
}

func (p *Tokenizer) rcDataEndTagOpenStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof && isASCIIAlpha(r) {
		p.tokenBuilder.Reset()
		p.tokenBuilder.curTagType = endTag
		return true, rcDataEndTagNameState
	}
	p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'))
	return true, rcDataState
}

// endTagNameStateHandler implements the shared shape of the RCDATA, RAWTEXT
// and script data end tag name states, which differ only in their fallback
// state.
func (p *Tokenizer) endTagNameStateHandler(r rune, eof bool, self, fallback tokenizerState) (bool, tokenizerState) {
	abandon := func() (bool, tokenizerState) {
		p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'))
		p.emit(p.tokenBuilder.TempBufferCharTokens()...)
		return true, fallback
	}
	if eof {
		return abandon()
	}
	switch {
	case isHTMLWhitespace(r):
		if p.isApprEndTagToken() {
			return false, beforeAttributeNameState
		}
		return abandon()
	case r == '/':
		if p.isApprEndTagToken() {
			return false, selfClosingStartTagState
		}
		return abandon()
	case r == '>':
		if p.isApprEndTagToken() {
			return false, p.emitCurrentTag()
		}
		return abandon()
	case isASCIIUpper(r):
		p.tokenBuilder.WriteTempBuffer(r)
		p.tokenBuilder.WriteName(r + 0x20)
		return false, self
	case isASCIILower(r):
		p.tokenBuilder.WriteTempBuffer(r)
		p.tokenBuilder.WriteName(r)
		return false, self
	default:
		return abandon()
	}
}

func (p *Tokenizer) rcDataEndTagNameStateHandler(r rune, eof bool) (bool, tokenizerState) {
	return p.endTagNameStateHandler(r, eof, rcDataEndTagNameState, rcDataState)
}

func (p *Tokenizer) rawTextLessThanSignStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof && r == '/' {
		p.tokenBuilder.ResetTempBuffer()
		return false, rawTextEndTagOpenState
	}
	p.emit(p.tokenBuilder.CharacterToken('<'))
	return true, rawTextState
}

func (p *Tokenizer) rawTextEndTagOpenStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof && isASCIIAlpha(r) {
		p.tokenBuilder.Reset()
		p.tokenBuilder.curTagType = endTag
		return true, rawTextEndTagNameState
	}
	p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'))
	return true, rawTextState
}

func (p *Tokenizer) rawTextEndTagNameStateHandler(r rune, eof bool) (bool, tokenizerState) {
	return p.endTagNameStateHandler(r, eof, rawTextEndTagNameState, rawTextState)
}

func (p *Tokenizer) scriptDataLessThanSignStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof {
		switch r {
		case '/':
			p.tokenBuilder.ResetTempBuffer()
			return false, scriptDataEndTagOpenState
		case '!':
			p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('!'))
			return false, scriptDataEscapeStartState
		}
	}
	p.emit(p.tokenBuilder.CharacterToken('<'))
	return true, scriptDataState
}

func (p *Tokenizer) scriptDataEndTagOpenStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof && isASCIIAlpha(r) {
		p.tokenBuilder.Reset()
		p.tokenBuilder.curTagType = endTag
		return true, scriptDataEndTagNameState
	}
	p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'))
	return true, scriptDataState
}

func (p *Tokenizer) scriptDataEndTagNameStateHandler(r rune, eof bool) (bool, tokenizerState) {
	return p.endTagNameStateHandler(r, eof, scriptDataEndTagNameState, scriptDataState)
}

func (p *Tokenizer) scriptDataEscapeStartStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof && r == '-' {
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataEscapeStartDashState
	}
	return true, scriptDataState
}

func (p *Tokenizer) scriptDataEscapeStartDashStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof && r == '-' {
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataEscapedDashDashState
	}
	return true, scriptDataState
}

func (p *Tokenizer) scriptDataEscapedStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataEscapedDashState
	case '<':
		return false, scriptDataEscapedLessThanSignState
	case '\x00':
		p.emit(p.tokenBuilder.CharacterToken('�'))
		return false, scriptDataEscapedState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, scriptDataEscapedState
	}
}

func (p *Tokenizer) scriptDataEscapedDashStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataEscapedDashDashState
	case '<':
		return false, scriptDataEscapedLessThanSignState
	case '\x00':
		p.emit(p.tokenBuilder.CharacterToken('�'))
		return false, scriptDataEscapedState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, scriptDataEscapedState
	}
}

func (p *Tokenizer) scriptDataEscapedDashDashStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataEscapedDashDashState
	case '<':
		return false, scriptDataEscapedLessThanSignState
	case '>':
		p.emit(p.tokenBuilder.CharacterToken('>'))
		return false, scriptDataState
	case '\x00':
		p.emit(p.tokenBuilder.CharacterToken('�'))
		return false, scriptDataEscapedState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, scriptDataEscapedState
	}
}

func (p *Tokenizer) scriptDataEscapedLessThanSignStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof {
		if r == '/' {
			p.tokenBuilder.ResetTempBuffer()
			return false, scriptDataEscapedEndTagOpenState
		}
		if isASCIIAlpha(r) {
			p.tokenBuilder.ResetTempBuffer()
			p.emit(p.tokenBuilder.CharacterToken('<'))
			return true, scriptDataDoubleEscapeStartState
		}
	}
	p.emit(p.tokenBuilder.CharacterToken('<'))
	return true, scriptDataEscapedState
}

func (p *Tokenizer) scriptDataEscapedEndTagOpenStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof && isASCIIAlpha(r) {
		p.tokenBuilder.Reset()
		p.tokenBuilder.curTagType = endTag
		return true, scriptDataEscapedEndTagNameState
	}
	p.emit(p.tokenBuilder.CharacterToken('<'), p.tokenBuilder.CharacterToken('/'))
	return true, scriptDataEscapedState
}

func (p *Tokenizer) scriptDataEscapedEndTagNameStateHandler(r rune, eof bool) (bool, tokenizerState) {
	return p.endTagNameStateHandler(r, eof, scriptDataEscapedEndTagNameState, scriptDataEscapedState)
}

// doubleEscapeStateHandler covers the double escape start and end states,
// which scan a tag name into the temporary buffer and compare it against
// "script" to decide which escaping level to run next.
func (p *Tokenizer) doubleEscapeStateHandler(r rune, eof bool, self, onScript, onOther tokenizerState) (bool, tokenizerState) {
	if eof {
		return true, onOther
	}
	switch {
	case isHTMLWhitespace(r), r == '/', r == '>':
		p.emit(p.tokenBuilder.CharacterToken(r))
		if p.tokenBuilder.TempBuffer() == "script" {
			return false, onScript
		}
		return false, onOther
	case isASCIIUpper(r):
		p.tokenBuilder.WriteTempBuffer(r + 0x20)
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, self
	case isASCIILower(r):
		p.tokenBuilder.WriteTempBuffer(r)
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, self
	default:
		return true, onOther
	}
}

func (p *Tokenizer) scriptDataDoubleEscapeStartStateHandler(r rune, eof bool) (bool, tokenizerState) {
	return p.doubleEscapeStateHandler(r, eof, scriptDataDoubleEscapeStartState, scriptDataDoubleEscapedState, scriptDataEscapedState)
}

func (p *Tokenizer) scriptDataDoubleEscapedStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataDoubleEscapedDashState
	case '<':
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return false, scriptDataDoubleEscapedLessThanSignState
	case '\x00':
		p.emit(p.tokenBuilder.CharacterToken('�'))
		return false, scriptDataDoubleEscapedState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, scriptDataDoubleEscapedState
	}
}

func (p *Tokenizer) scriptDataDoubleEscapedDashStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataDoubleEscapedDashDashState
	case '<':
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return false, scriptDataDoubleEscapedLessThanSignState
	case '\x00':
		p.emit(p.tokenBuilder.CharacterToken('�'))
		return false, scriptDataDoubleEscapedState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, scriptDataDoubleEscapedState
	}
}

func (p *Tokenizer) scriptDataDoubleEscapedDashDashStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		p.emit(p.tokenBuilder.CharacterToken('-'))
		return false, scriptDataDoubleEscapedDashDashState
	case '<':
		p.emit(p.tokenBuilder.CharacterToken('<'))
		return false, scriptDataDoubleEscapedLessThanSignState
	case '>':
		p.emit(p.tokenBuilder.CharacterToken('>'))
		return false, scriptDataState
	case '\x00':
		p.emit(p.tokenBuilder.CharacterToken('�'))
		return false, scriptDataDoubleEscapedState
	default:
		p.emit(p.tokenBuilder.CharacterToken(r))
		return false, scriptDataDoubleEscapedState
	}
}

func (p *Tokenizer) scriptDataDoubleEscapedLessThanSignStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof && r == '/' {
		p.tokenBuilder.ResetTempBuffer()
		p.emit(p.tokenBuilder.CharacterToken('/'))
		return false, scriptDataDoubleEscapeEndState
	}
	return true, scriptDataDoubleEscapedState
}

func (p *Tokenizer) scriptDataDoubleEscapeEndStateHandler(r rune, eof bool) (bool, tokenizerState) {
	return p.doubleEscapeStateHandler(r, eof, scriptDataDoubleEscapeEndState, scriptDataEscapedState, scriptDataDoubleEscapedState)
}

func (p *Tokenizer) beforeAttributeNameStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, afterAttributeNameState
	}
	switch {
	case isHTMLWhitespace(r):
		return false, beforeAttributeNameState
	case r == '/', r == '>':
		return true, afterAttributeNameState
	case r == '=':
		// unexpected-equals-sign-before-attribute-name: '=' becomes the
		// first character of the attribute name
		p.tokenBuilder.CommitAttribute()
		p.tokenBuilder.WriteAttributeName(r)
		return false, attributeNameState
	default:
		p.tokenBuilder.CommitAttribute()
		return true, attributeNameState
	}
}

func (p *Tokenizer) attributeNameStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, afterAttributeNameState
	}
	switch {
	case isHTMLWhitespace(r), r == '/', r == '>':
		return true, afterAttributeNameState
	case r == '=':
		return false, beforeAttributeValueState
	case isASCIIUpper(r):
		p.tokenBuilder.WriteAttributeName(r + 0x20)
		return false, attributeNameState
	case r == '\x00':
		p.tokenBuilder.WriteAttributeName('�')
		return false, attributeNameState
	default:
		// '"', '\'' and '<' are parse errors here but are kept as-is
		p.tokenBuilder.WriteAttributeName(r)
		return false, attributeNameState
	}
}

func (p *Tokenizer) afterAttributeNameStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isHTMLWhitespace(r):
		return false, afterAttributeNameState
	case r == '/':
		return false, selfClosingStartTagState
	case r == '=':
		return false, beforeAttributeValueState
	case r == '>':
		return false, p.emitCurrentTag()
	default:
		p.tokenBuilder.CommitAttribute()
		return true, attributeNameState
	}
}

func (p *Tokenizer) beforeAttributeValueStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return true, attributeValueUnquotedState
	}
	switch r {
	case '\t', '\n', '\f', ' ':
		return false, beforeAttributeValueState
	case '"':
		return false, attributeValueDoubleQuotedState
	case '\'':
		return false, attributeValueSingleQuotedState
	case '>':
		// missing-attribute-value
		return false, p.emitCurrentTag()
	default:
		return true, attributeValueUnquotedState
	}
}

func (p *Tokenizer) attributeValueDoubleQuotedStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '"':
		return false, afterAttributeValueQuotedState
	case '&':
		p.returnState = attributeValueDoubleQuotedState
		return false, characterReferenceState
	case '\x00':
		p.tokenBuilder.WriteAttributeValue('�')
		return false, attributeValueDoubleQuotedState
	default:
		p.tokenBuilder.WriteAttributeValue(r)
		return false, attributeValueDoubleQuotedState
	}
}

func (p *Tokenizer) attributeValueSingleQuotedStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\'':
		return false, afterAttributeValueQuotedState
	case '&':
		p.returnState = attributeValueSingleQuotedState
		return false, characterReferenceState
	case '\x00':
		p.tokenBuilder.WriteAttributeValue('�')
		return false, attributeValueSingleQuotedState
	default:
		p.tokenBuilder.WriteAttributeValue(r)
		return false, attributeValueSingleQuotedState
	}
}

func (p *Tokenizer) attributeValueUnquotedStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isHTMLWhitespace(r):
		return false, beforeAttributeNameState
	case r == '&':
		p.returnState = attributeValueUnquotedState
		return false, characterReferenceState
	case r == '>':
		return false, p.emitCurrentTag()
	case r == '\x00':
		p.tokenBuilder.WriteAttributeValue('�')
		return false, attributeValueUnquotedState
	default:
		// '"', '\'', '<', '=' and '`' are parse errors in unquoted values
		p.tokenBuilder.WriteAttributeValue(r)
		return false, attributeValueUnquotedState
	}
}

func (p *Tokenizer) afterAttributeValueQuotedStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isHTMLWhitespace(r):
		return false, beforeAttributeNameState
	case r == '/':
		return false, selfClosingStartTagState
	case r == '>':
		return false, p.emitCurrentTag()
	default:
		// missing-whitespace-between-attributes
		return true, beforeAttributeNameState
	}
}

func (p *Tokenizer) selfClosingStartTagStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	if r == '>' {
		p.tokenBuilder.EnableSelfClosing()
		return false, p.emitCurrentTag()
	}
	// unexpected-solidus-in-tag
	return true, beforeAttributeNameState
}

func (p *Tokenizer) bogusCommentStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	case '\x00':
		p.tokenBuilder.WriteData('�')
		return false, bogusCommentState
	default:
		p.tokenBuilder.WriteData(r)
		return false, bogusCommentState
	}
}

const peekDist = 6

var (
	doctypeRest = []byte("OCTYPE")
	cdataRest   = []byte("CDATA[")
)

func (p *Tokenizer) defaultMarkupDeclarationOpenStateHandler() (bool, tokenizerState) {
	// incorrectly-opened-comment: everything up to the next '>' becomes a
	// comment
	p.tokenBuilder.Reset()
	return true, bogusCommentState
}

func (p *Tokenizer) markupDeclarationOpenStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.Reset()
		return true, bogusCommentState
	}

	switch r {
	case '-':
		peeked, err := p.inputStream.Peek(1)
		if err == nil && len(peeked) == 1 && peeked[0] == '-' {
			p.discard(1)
			p.tokenBuilder.Reset()
			return false, commentStartState
		}
	case 'D', 'd':
		peeked, err := p.inputStream.Peek(peekDist)
		if err == nil && bytes.EqualFold(peeked, doctypeRest) {
			p.discard(peekDist)
			return false, doctypeState
		}
	case '[':
		peeked, err := p.inputStream.Peek(peekDist)
		if err == nil && bytes.Equal(peeked, cdataRest) {
			p.discard(peekDist)
			if p.adjustedCurrentNode != nil && p.adjustedCurrentNode.Namespace != spec.HTMLNamespace {
				return false, cdataSectionState
			}
			// cdata-in-html-content
			p.tokenBuilder.Reset()
			for _, c := range "[CDATA[" {
				p.tokenBuilder.WriteData(c)
			}
			return false, bogusCommentState
		}
	}

	return p.defaultMarkupDeclarationOpenStateHandler()
}

func (p *Tokenizer) commentStartStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof {
		switch r {
		case '-':
			return false, commentStartDashState
		case '>':
			// abrupt-closing-of-empty-comment
			p.emit(p.tokenBuilder.CommentToken())
			return false, dataState
		}
	}
	return true, commentState
}

func (p *Tokenizer) commentStartDashStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		return false, commentEndState
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	default:
		p.tokenBuilder.WriteData('-')
		return true, commentState
	}
}

func (p *Tokenizer) commentStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '<':
		p.tokenBuilder.WriteData(r)
		return false, commentLessThanSignState
	case '-':
		return false, commentEndDashState
	case '\x00':
		p.tokenBuilder.WriteData('�')
		return false, commentState
	default:
		p.tokenBuilder.WriteData(r)
		return false, commentState
	}
}

func (p *Tokenizer) commentLessThanSignStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof {
		switch r {
		case '!':
			p.tokenBuilder.WriteData(r)
			return false, commentLessThanSignBangState
		case '<':
			p.tokenBuilder.WriteData(r)
			return false, commentLessThanSignState
		}
	}
	return true, commentState
}

func (p *Tokenizer) commentLessThanSignBangStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof && r == '-' {
		return false, commentLessThanSignBangDashState
	}
	return true, commentState
}

func (p *Tokenizer) commentLessThanSignBangDashStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof && r == '-' {
		return false, commentLessThanSignBangDashDashState
	}
	return true, commentEndDashState
}

func (p *Tokenizer) commentLessThanSignBangDashDashStateHandler(r rune, eof bool) (bool, tokenizerState) {
	// nested-comment parse error unless '>' or end of file
	return true, commentEndState
}

func (p *Tokenizer) commentEndDashStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	if r == '-' {
		return false, commentEndState
	}
	p.tokenBuilder.WriteData('-')
	return true, commentState
}

func (p *Tokenizer) commentEndStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	case '!':
		return false, commentEndBangState
	case '-':
		p.tokenBuilder.WriteData('-')
		return false, commentEndState
	default:
		p.tokenBuilder.WriteData('-')
		p.tokenBuilder.WriteData('-')
		return true, commentState
	}
}

func (p *Tokenizer) commentEndBangStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '-':
		for _, c := range "--!" {
			p.tokenBuilder.WriteData(c)
		}
		return false, commentEndDashState
	case '>':
		// incorrectly-closed-comment
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	default:
		for _, c := range "--!" {
			p.tokenBuilder.WriteData(c)
		}
		return true, commentState
	}
}

func (p *Tokenizer) doctypeStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.Reset()
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	if isHTMLWhitespace(r) {
		return false, beforeDoctypeNameState
	}
	// missing-whitespace-before-doctype-name unless '>'
	return true, beforeDoctypeNameState
}

func (p *Tokenizer) beforeDoctypeNameStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.Reset()
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isHTMLWhitespace(r):
		return false, beforeDoctypeNameState
	case isASCIIUpper(r):
		p.tokenBuilder.Reset()
		p.tokenBuilder.WriteName(r + 0x20)
		return false, doctypeNameState
	case r == '\x00':
		p.tokenBuilder.Reset()
		p.tokenBuilder.WriteName('�')
		return false, doctypeNameState
	case r == '>':
		// missing-doctype-name
		p.tokenBuilder.Reset()
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		p.tokenBuilder.Reset()
		p.tokenBuilder.WriteName(r)
		return false, doctypeNameState
	}
}

func (p *Tokenizer) doctypeNameStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isHTMLWhitespace(r):
		return false, afterDoctypeNameState
	case r == '>':
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	case isASCIIUpper(r):
		p.tokenBuilder.WriteName(r + 0x20)
		return false, doctypeNameState
	case r == '\x00':
		p.tokenBuilder.WriteName('�')
		return false, doctypeNameState
	default:
		p.tokenBuilder.WriteName(r)
		return false, doctypeNameState
	}
}

var (
	publicRest = []byte("UBLIC")
	systemRest = []byte("YSTEM")
)

func (p *Tokenizer) afterDoctypeNameStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case '\t', '\n', '\f', ' ':
		return false, afterDoctypeNameState
	case '>':
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	case 'P', 'p':
		peeked, err := p.inputStream.Peek(5)
		if err == nil && bytes.EqualFold(peeked, publicRest) {
			p.discard(5)
			return false, afterDoctypePublicKeywordState
		}
	case 'S', 's':
		peeked, err := p.inputStream.Peek(5)
		if err == nil && bytes.EqualFold(peeked, systemRest) {
			p.discard(5)
			return false, afterDoctypeSystemKeywordState
		}
	}
	// invalid-character-sequence-after-doctype-name
	p.tokenBuilder.EnableForceQuirks()
	return true, bogusDoctypeState
}

func (p *Tokenizer) afterDoctypePublicKeywordStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isHTMLWhitespace(r):
		return false, beforeDoctypePublicIdentifierState
	case r == '"':
		p.tokenBuilder.MarkPublicIdentifier()
		return false, doctypePublicIdentifierDoubleQuotedState
	case r == '\'':
		p.tokenBuilder.MarkPublicIdentifier()
		return false, doctypePublicIdentifierSingleQuotedState
	case r == '>':
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		p.tokenBuilder.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (p *Tokenizer) beforeDoctypePublicIdentifierStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isHTMLWhitespace(r):
		return false, beforeDoctypePublicIdentifierState
	case r == '"':
		p.tokenBuilder.MarkPublicIdentifier()
		return false, doctypePublicIdentifierDoubleQuotedState
	case r == '\'':
		p.tokenBuilder.MarkPublicIdentifier()
		return false, doctypePublicIdentifierSingleQuotedState
	case r == '>':
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		p.tokenBuilder.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (p *Tokenizer) doctypeIdentifierQuotedStateHandler(r rune, eof bool, quote rune, self, after tokenizerState, write func(rune)) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch r {
	case quote:
		return false, after
	case '\x00':
		write('�')
		return false, self
	case '>':
		// abrupt-doctype-public/system-identifier
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		write(r)
		return false, self
	}
}

func (p *Tokenizer) doctypePublicIdentifierDoubleQuotedStateHandler(r rune, eof bool) (bool, tokenizerState) {
	return p.doctypeIdentifierQuotedStateHandler(r, eof, '"', doctypePublicIdentifierDoubleQuotedState, afterDoctypePublicIdentifierState, p.tokenBuilder.WritePublicIdentifier)
}

func (p *Tokenizer) doctypePublicIdentifierSingleQuotedStateHandler(r rune, eof bool) (bool, tokenizerState) {
	return p.doctypeIdentifierQuotedStateHandler(r, eof, '\'', doctypePublicIdentifierSingleQuotedState, afterDoctypePublicIdentifierState, p.tokenBuilder.WritePublicIdentifier)
}

func (p *Tokenizer) afterDoctypePublicIdentifierStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isHTMLWhitespace(r):
		return false, betweenDoctypePublicAndSystemIdentifiersState
	case r == '>':
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	case r == '"':
		p.tokenBuilder.MarkSystemIdentifier()
		return false, doctypeSystemIdentifierDoubleQuotedState
	case r == '\'':
		p.tokenBuilder.MarkSystemIdentifier()
		return false, doctypeSystemIdentifierSingleQuotedState
	default:
		p.tokenBuilder.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (p *Tokenizer) betweenDoctypePublicAndSystemIdentifiersStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isHTMLWhitespace(r):
		return false, betweenDoctypePublicAndSystemIdentifiersState
	case r == '>':
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	case r == '"':
		p.tokenBuilder.MarkSystemIdentifier()
		return false, doctypeSystemIdentifierDoubleQuotedState
	case r == '\'':
		p.tokenBuilder.MarkSystemIdentifier()
		return false, doctypeSystemIdentifierSingleQuotedState
	default:
		p.tokenBuilder.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (p *Tokenizer) afterDoctypeSystemKeywordStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isHTMLWhitespace(r):
		return false, beforeDoctypeSystemIdentifierState
	case r == '"':
		p.tokenBuilder.MarkSystemIdentifier()
		return false, doctypeSystemIdentifierDoubleQuotedState
	case r == '\'':
		p.tokenBuilder.MarkSystemIdentifier()
		return false, doctypeSystemIdentifierSingleQuotedState
	case r == '>':
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		p.tokenBuilder.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (p *Tokenizer) beforeDoctypeSystemIdentifierStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isHTMLWhitespace(r):
		return false, beforeDoctypeSystemIdentifierState
	case r == '"':
		p.tokenBuilder.MarkSystemIdentifier()
		return false, doctypeSystemIdentifierDoubleQuotedState
	case r == '\'':
		p.tokenBuilder.MarkSystemIdentifier()
		return false, doctypeSystemIdentifierSingleQuotedState
	case r == '>':
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		p.tokenBuilder.EnableForceQuirks()
		return true, bogusDoctypeState
	}
}

func (p *Tokenizer) doctypeSystemIdentifierDoubleQuotedStateHandler(r rune, eof bool) (bool, tokenizerState) {
	return p.doctypeIdentifierQuotedStateHandler(r, eof, '"', doctypeSystemIdentifierDoubleQuotedState, afterDoctypeSystemIdentifierState, p.tokenBuilder.WriteSystemIdentifier)
}

func (p *Tokenizer) doctypeSystemIdentifierSingleQuotedStateHandler(r rune, eof bool) (bool, tokenizerState) {
	return p.doctypeIdentifierQuotedStateHandler(r, eof, '\'', doctypeSystemIdentifierSingleQuotedState, afterDoctypeSystemIdentifierState, p.tokenBuilder.WriteSystemIdentifier)
}

func (p *Tokenizer) afterDoctypeSystemIdentifierStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.tokenBuilder.EnableForceQuirks()
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	switch {
	case isHTMLWhitespace(r):
		return false, afterDoctypeSystemIdentifierState
	case r == '>':
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	default:
		// unexpected-character-after-doctype-system-identifier: no
		// force-quirks here
		return true, bogusDoctypeState
	}
}

func (p *Tokenizer) bogusDoctypeStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.DocTypeToken(), p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	if r == '>' {
		p.emit(p.tokenBuilder.DocTypeToken())
		return false, dataState
	}
	return false, bogusDoctypeState
}

func (p *Tokenizer) cdataSectionStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		// eof-in-cdata
		p.emit(p.tokenBuilder.EndOfFileToken())
		return false, dataState
	}
	if r == ']' {
		return false, cdataSectionBracketState
	}
	p.emit(p.tokenBuilder.CharacterToken(r))
	return false, cdataSectionState
}

func (p *Tokenizer) cdataSectionBracketStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof && r == ']' {
		return false, cdataSectionEndState
	}
	p.emit(p.tokenBuilder.CharacterToken(']'))
	return true, cdataSectionState
}

func (p *Tokenizer) cdataSectionEndStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof {
		switch r {
		case ']':
			p.emit(p.tokenBuilder.CharacterToken(']'))
			return false, cdataSectionEndState
		case '>':
			return false, dataState
		}
	}
	p.emit(p.tokenBuilder.CharacterToken(']'), p.tokenBuilder.CharacterToken(']'))
	return true, cdataSectionState
}

func (p *Tokenizer) characterReferenceStateHandler(r rune, eof bool) (bool, tokenizerState) {
	p.tokenBuilder.ResetTempBuffer()
	p.tokenBuilder.WriteTempBuffer('&')
	if !eof {
		switch {
		case isASCIIAlphanumeric(r):
			return true, namedCharacterReferenceState
		case r == '#':
			p.tokenBuilder.WriteTempBuffer(r)
			return false, numericCharacterReferenceState
		}
	}
	p.flushCodePointsAsCharacterReference()
	return true, p.returnState
}

// namedCharacterReferenceStateHandler consumes the longest run of characters
// that names a known reference. The first character has already been read;
// the rest are taken by peeking so an abandoned match leaves the stream
// untouched.
func (p *Tokenizer) namedCharacterReferenceStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.flushCodePointsAsCharacterReference()
		return true, p.returnState
	}

	name := string(r)
	var bestName, bestValue string
	if v, ok := charRefTable[name]; ok {
		bestName, bestValue = name, v
	}
	for i := 1; ; i++ {
		peeked, err := p.inputStream.Peek(i)
		if err != nil || len(peeked) < i {
			break
		}
		cand := name + string(peeked)
		if !hasCharRefPrefix(cand) {
			break
		}
		if v, ok := charRefTable[cand]; ok {
			bestName, bestValue = cand, v
		}
	}

	if bestName == "" {
		p.tokenBuilder.WriteTempBuffer(r)
		p.flushCodePointsAsCharacterReference()
		return false, ambiguousAmpersandState
	}

	rest := len(bestName) - 1
	if !strings.HasSuffix(bestName, ";") && wasConsumedByAttribute(p.returnState) {
		// historical quirk: a reference without its semicolon stays
		// literal inside an attribute when followed by '=' or an
		// alphanumeric, so URLs like ?a=b&not=c survive
		peeked, err := p.inputStream.Peek(rest + 1)
		if err == nil && len(peeked) > rest {
			next := rune(peeked[rest])
			if next == '=' || isASCIIAlphanumeric(next) {
				p.discard(rest)
				for _, c := range bestName {
					p.tokenBuilder.WriteTempBuffer(c)
				}
				p.flushCodePointsAsCharacterReference()
				return false, p.returnState
			}
		}
	}

	if !strings.HasSuffix(bestName, ";") {
		logrus.Debugf("missing-semicolon-after-character-reference: &%s", bestName)
	}
	p.discard(rest)
	p.tokenBuilder.ResetTempBuffer()
	for _, c := range bestValue {
		p.tokenBuilder.WriteTempBuffer(c)
	}
	p.flushCodePointsAsCharacterReference()
	return false, p.returnState
}

func (p *Tokenizer) ambiguousAmpersandStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof {
		switch {
		case isASCIIAlphanumeric(r):
			if wasConsumedByAttribute(p.returnState) {
				p.tokenBuilder.WriteAttributeValue(r)
			} else {
				p.emit(p.tokenBuilder.CharacterToken(r))
			}
			return false, ambiguousAmpersandState
		case r == ';':
			// unknown-named-character-reference
			return true, p.returnState
		}
	}
	return true, p.returnState
}

func (p *Tokenizer) numericCharacterReferenceStateHandler(r rune, eof bool) (bool, tokenizerState) {
	p.tokenBuilder.SetCharRef(0)
	if !eof && (r == 'x' || r == 'X') {
		p.tokenBuilder.WriteTempBuffer(r)
		return false, hexadecimalCharacterReferenceStartState
	}
	return true, decimalCharacterReferenceStartState
}

func (p *Tokenizer) hexadecimalCharacterReferenceStartStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof && isASCIIHexDigit(r) {
		return true, hexadecimalCharacterReferenceState
	}
	// absence-of-digits-in-numeric-character-reference
	p.flushCodePointsAsCharacterReference()
	return true, p.returnState
}

func (p *Tokenizer) decimalCharacterReferenceStartStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof && isASCIIDigit(r) {
		return true, decimalCharacterReferenceState
	}
	p.flushCodePointsAsCharacterReference()
	return true, p.returnState
}

// charRefOverflowGuard keeps the accumulator from growing without bound on
// absurdly long references; anything past the Unicode range is replaced at
// the end anyway.
const charRefOverflowGuard = 0x110000

func (p *Tokenizer) hexadecimalCharacterReferenceStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof {
		switch {
		case isASCIIDigit(r):
			if p.tokenBuilder.GetCharRef() < charRefOverflowGuard {
				p.tokenBuilder.MultByCharRef(16)
				p.tokenBuilder.AddToCharRef(int(r - '0'))
			}
			return false, hexadecimalCharacterReferenceState
		case r >= 'A' && r <= 'F':
			if p.tokenBuilder.GetCharRef() < charRefOverflowGuard {
				p.tokenBuilder.MultByCharRef(16)
				p.tokenBuilder.AddToCharRef(int(r - 'A' + 10))
			}
			return false, hexadecimalCharacterReferenceState
		case r >= 'a' && r <= 'f':
			if p.tokenBuilder.GetCharRef() < charRefOverflowGuard {
				p.tokenBuilder.MultByCharRef(16)
				p.tokenBuilder.AddToCharRef(int(r - 'a' + 10))
			}
			return false, hexadecimalCharacterReferenceState
		case r == ';':
			return false, numericCharacterReferenceEndState
		}
	}
	// missing-semicolon-after-character-reference
	return true, numericCharacterReferenceEndState
}

func (p *Tokenizer) decimalCharacterReferenceStateHandler(r rune, eof bool) (bool, tokenizerState) {
	if !eof {
		switch {
		case isASCIIDigit(r):
			if p.tokenBuilder.GetCharRef() < charRefOverflowGuard {
				p.tokenBuilder.MultByCharRef(10)
				p.tokenBuilder.AddToCharRef(int(r - '0'))
			}
			return false, decimalCharacterReferenceState
		case r == ';':
			return false, numericCharacterReferenceEndState
		}
	}
	return true, numericCharacterReferenceEndState
}

// the C1 control range decodes to the historical Windows-1252 repertoire
var numericCharRefRemap = map[int]rune{
	0x80: '€', 0x82: '‚', 0x83: 'ƒ', 0x84: '„',
	0x85: '…', 0x86: '†', 0x87: '‡', 0x88: 'ˆ',
	0x89: '‰', 0x8A: 'Š', 0x8B: '‹', 0x8C: 'Œ',
	0x8E: 'Ž', 0x91: '‘', 0x92: '’', 0x93: '“',
	0x94: '”', 0x95: '•', 0x96: '–', 0x97: '—',
	0x98: '˜', 0x99: '™', 0x9A: 'š', 0x9B: '›',
	0x9C: 'œ', 0x9E: 'ž', 0x9F: 'Ÿ',
}

// numericCharacterReferenceEndStateHandler does not consume: whatever rune it
// was handed is reconsumed in the return state after the accumulated code
// point is flushed.
func (p *Tokenizer) numericCharacterReferenceEndStateHandler(r rune, eof bool) (bool, tokenizerState) {
	code := p.tokenBuilder.GetCharRef()
	switch {
	case code == 0x00, code > 0x10FFFF, code >= 0xD800 && code <= 0xDFFF:
		code = 0xFFFD
	default:
		if repl, ok := numericCharRefRemap[code]; ok {
			code = int(repl)
		}
	}

	p.tokenBuilder.ResetTempBuffer()
	p.tokenBuilder.WriteTempBuffer(rune(code))
	p.flushCodePointsAsCharacterReference()
	return true, p.returnState
}

// normalizeNewlines collapses CRLF pairs and lone CRs to a single LF before
// the state machine sees them.
func (p *Tokenizer) normalizeNewlines(r rune) rune {
	if r == '\r' {
		b, err := p.inputStream.Peek(1)
		if err == nil && len(b) > 0 && b[0] == '\n' {
			p.discard(1)
		}
		return '\n'
	}
	return r
}

func (p *Tokenizer) takeEmittedToken() *Token {
	if len(p.emittedTokens) > 0 {
		ret := p.emittedTokens[0]
		p.emittedTokens = p.emittedTokens[1:]
		if ret.TokenType == endOfFileToken {
			p.done = true
		}
		return &ret
	}
	return nil
}

// Next reports whether more tokens remain. It turns false once the end of
// file token has been handed out.
func (p *Tokenizer) Next() bool {
	return !p.done
}

// Token returns the next token. The progress argument carries the tree
// constructor's view back into the tokenizer: the adjusted current node and,
// when the construction stage switched the scanning mode (RCDATA, RAWTEXT,
// script data, PLAINTEXT), the state to continue in.
func (p *Tokenizer) Token(progress *Progress) (*Token, error) {
	p.adjustedCurrentNode = progress.AdjustedCurrentNode
	if progress.TokenizerState != nil {
		p.currentState = *progress.TokenizerState
	}

	// some states emit several tokens at once and some emit none; loop
	// until at least one is available
	for {
		token := p.takeEmittedToken()
		if token != nil {
			return token, nil
		}

		r, size, err := p.inputStream.ReadRune()
		if err != nil && err != io.EOF {
			return nil, err
		}
		if err == nil && r == utf8.RuneError && size == 1 {
			return nil, errors.Wrapf(ErrInvalidEncoding, "byte offset %d", p.offset)
		}
		p.offset += size

		p.processRune(p.normalizeNewlines(r), err == io.EOF)
	}
}

func (p *Tokenizer) processRune(r rune, eof bool) {
	reconsume := true
	for reconsume {
		reconsume, p.currentState = p.stateHandlers[p.currentState](r, eof)
		if logrus.IsLevelEnabled(logrus.TraceLevel) {
			logrus.Tracef("tokenizer: rune=%q eof=%t mode=%s", r, eof, p.currentState)
		}
	}
}
