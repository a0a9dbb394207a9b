package parser

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yonasBSD/hiwave-windows-sub003/parser/spec"
)

// parseError describes a recoverable syntax error. The empty string means no
// error; anything else is reported to the sink and parsing continues.
type parseError string

const noError parseError = ""

type insertionMode uint

const (
	initial insertionMode = iota
	beforeHTML
	beforeHead
	inHead
	inHeadNoscript
	afterHead
	inBody
	text
	inTable
	inTableText
	inCaption
	inColumnGroup
	inTableBody
	inRow
	inCell
	inSelect
	inSelectInTable
	inTemplate
	afterBody
	inFrameset
	afterFrameset
	afterAfterBody
	afterAfterFrameset
)

type treeConstructionModeHandler func(t *Token) (bool, insertionMode, parseError)

// TreeConstructor consumes the token stream and drives a TreeSink. All
// parsing state (open elements, active formatting elements, pointers, modes)
// lives here; the sink only holds the tree.
type TreeConstructor struct {
	sink TreeSink

	insertionMode          insertionMode
	originalInsertionMode  insertionMode
	templateInsertionModes []insertionMode

	openElements             spec.NodeList
	activeFormattingElements spec.NodeList

	headElementPointer *spec.Node
	formElementPointer *spec.Node

	quirksMode       quirksMode
	fosterParenting  bool
	framesetOK       bool
	scriptingEnabled bool

	// fragment parsing
	fragment bool
	context  *spec.Node

	pendingTableText   []*Token
	ignoreNextLineFeed bool
	stopped            bool

	nextTokenizerState *tokenizerState

	mappings map[insertionMode]treeConstructionModeHandler
}

// NewTreeConstructor creates a construction stage that feeds sink, starting
// in the initial insertion mode.
func NewTreeConstructor(sink TreeSink) *TreeConstructor {
	c := &TreeConstructor{
		sink:       sink,
		quirksMode: noQuirks,
		framesetOK: true,
	}
	c.createMappings()
	return c
}

// SetScriptingEnabled controls whether noscript elements are parsed as raw
// text, the way a browser with scripting available treats them.
func (c *TreeConstructor) SetScriptingEnabled(enabled bool) {
	c.scriptingEnabled = enabled
}

func (c *TreeConstructor) createMappings() {
	c.mappings = map[insertionMode]treeConstructionModeHandler{
		initial:            c.initialModeHandler,
		beforeHTML:         c.beforeHTMLModeHandler,
		beforeHead:         c.beforeHeadModeHandler,
		inHead:             c.inHeadModeHandler,
		inHeadNoscript:     c.inHeadNoscriptModeHandler,
		afterHead:          c.afterHeadModeHandler,
		inBody:             c.inBodyModeHandler,
		text:               c.textModeHandler,
		inTable:            c.inTableModeHandler,
		inTableText:        c.inTableTextModeHandler,
		inCaption:          c.inCaptionModeHandler,
		inColumnGroup:      c.inColumnGroupModeHandler,
		inTableBody:        c.inTableBodyModeHandler,
		inRow:              c.inRowModeHandler,
		inCell:             c.inCellModeHandler,
		inSelect:           c.inSelectModeHandler,
		inSelectInTable:    c.inSelectInTableModeHandler,
		inTemplate:         c.inTemplateModeHandler,
		afterBody:          c.afterBodyModeHandler,
		inFrameset:         c.inFramesetModeHandler,
		afterFrameset:      c.afterFramesetModeHandler,
		afterAfterBody:     c.afterAfterBodyModeHandler,
		afterAfterFrameset: c.afterAfterFramesetModeHandler,
	}
}

func (c *TreeConstructor) currentNode() *spec.Node {
	return c.openElements.Top()
}

// adjustedCurrentNode is the context element while a fragment parse still
// has only its synthetic html root open.
func (c *TreeConstructor) adjustedCurrentNode() *spec.Node {
	if c.fragment && len(c.openElements) == 1 {
		return c.context
	}
	return c.currentNode()
}

func (c *TreeConstructor) setTokenizerState(s tokenizerState) {
	state := s
	c.nextTokenizerState = &state
}

// Progress reports the feedback the tokenizer needs before producing the
// next token, consuming any pending state switch.
func (c *TreeConstructor) Progress() Progress {
	pr := Progress{
		AdjustedCurrentNode: c.adjustedCurrentNode(),
		TokenizerState:      c.nextTokenizerState,
	}
	c.nextTokenizerState = nil
	return pr
}

// Done reports whether an end of file token has been fully processed.
func (c *TreeConstructor) Done() bool { return c.stopped }

type insertionLocation struct {
	parent *spec.Node
	before *spec.Node
}

// insertionLocation computes where a node would be inserted relative to
// target. With foster set, content aimed at a table is redirected before the
// table (or into an enclosing template).
func (c *TreeConstructor) insertionLocation(target *spec.Node, foster bool) insertionLocation {
	loc := insertionLocation{parent: target}
	if foster {
		switch target.Data {
		case "table", "tbody", "tfoot", "thead", "tr":
			lastTemplate, lastTable := -1, -1
			for i := len(c.openElements) - 1; i >= 0; i-- {
				n := c.openElements[i]
				if n.Namespace != spec.HTMLNamespace {
					continue
				}
				if lastTemplate == -1 && n.Data == "template" {
					lastTemplate = i
				}
				if lastTable == -1 && n.Data == "table" {
					lastTable = i
				}
			}
			switch {
			case lastTemplate != -1 && (lastTable == -1 || lastTemplate > lastTable):
				loc = insertionLocation{parent: c.sink.TemplateContents(c.openElements[lastTemplate])}
			case lastTable == -1:
				loc = insertionLocation{parent: c.openElements[0]}
			case c.openElements[lastTable].Parent != nil:
				loc = insertionLocation{
					parent: c.openElements[lastTable].Parent,
					before: c.openElements[lastTable],
				}
			default:
				loc = insertionLocation{parent: c.openElements[lastTable-1]}
			}
		}
	}
	if loc.parent != nil && loc.parent.Type == spec.ElementNode &&
		loc.parent.Namespace == spec.HTMLNamespace && loc.parent.Data == "template" &&
		loc.parent.Contents != nil {
		loc = insertionLocation{parent: c.sink.TemplateContents(loc.parent)}
	}
	return loc
}

func (c *TreeConstructor) appropriateInsertionLocation() insertionLocation {
	target := c.currentNode()
	if target == nil {
		return insertionLocation{parent: c.sink.Document()}
	}
	return c.insertionLocation(target, c.fosterParenting)
}

func (c *TreeConstructor) insertNode(n *spec.Node) {
	loc := c.appropriateInsertionLocation()
	c.sink.InsertBefore(loc.parent, n, loc.before)
}

func (c *TreeConstructor) insertCharacter(data string) {
	loc := c.appropriateInsertionLocation()
	// character data never lands directly in the document
	if loc.parent == nil || loc.parent == c.sink.Document() {
		return
	}
	c.sink.AppendText(loc.parent, loc.before, data)
}

func (c *TreeConstructor) insertComment(t *Token) {
	loc := c.appropriateInsertionLocation()
	c.sink.InsertBefore(loc.parent, c.sink.CreateComment(t.Data), loc.before)
}

func (c *TreeConstructor) insertCommentIn(t *Token, parent *spec.Node) {
	c.sink.InsertBefore(parent, c.sink.CreateComment(t.Data), nil)
}

func (c *TreeConstructor) insertHTMLElementForToken(t *Token) *spec.Node {
	elem := c.sink.CreateElement(t.TagName, spec.HTMLNamespace, t.Attributes)
	c.insertNode(elem)
	c.openElements.Push(elem)
	return elem
}

func (c *TreeConstructor) insertForeignElementForToken(t *Token, name string, ns spec.Namespace) *spec.Node {
	elem := c.sink.CreateElement(name, ns, t.Attributes)
	c.insertNode(elem)
	c.openElements.Push(elem)
	return elem
}

// genericParseElement covers the generic RCDATA and raw text element parsing
// algorithms: the element is inserted, the tokenizer switches scanning mode,
// and everything until the matching end tag is text. The current insertion
// mode is saved even when the caller is running under borrowed rules.
func (c *TreeConstructor) genericParseElement(t *Token, state tokenizerState) insertionMode {
	c.insertHTMLElementForToken(t)
	c.setTokenizerState(state)
	c.originalInsertionMode = c.insertionMode
	return text
}

type scope int

const (
	defaultScope scope = iota
	listItemScope
	buttonScope
	tableScope
	selectScope
)

func (c *TreeConstructor) indexOfElementInScope(s scope, matchTags ...string) int {
	for i := len(c.openElements) - 1; i >= 0; i-- {
		node := c.openElements[i]
		if node.Namespace == spec.HTMLNamespace {
			for _, tag := range matchTags {
				if node.Data == tag {
					return i
				}
			}
			switch s {
			case defaultScope, listItemScope, buttonScope:
				switch node.Data {
				case "applet", "caption", "html", "table", "td", "th", "marquee", "object", "template":
					return -1
				}
			case tableScope:
				switch node.Data {
				case "html", "table", "template":
					return -1
				}
			case selectScope:
				switch node.Data {
				case "optgroup", "option":
				default:
					return -1
				}
			}
			switch s {
			case listItemScope:
				if node.Data == "ol" || node.Data == "ul" {
					return -1
				}
			case buttonScope:
				if node.Data == "button" {
					return -1
				}
			}
		} else {
			switch s {
			case defaultScope, listItemScope, buttonScope:
				if isMathMLTextIntegrationPoint(node) || isHTMLIntegrationPoint(node) ||
					(node.Namespace == spec.MathMLNamespace && node.Data == "annotation-xml") {
					return -1
				}
			case selectScope:
				return -1
			}
		}
	}
	return -1
}

func (c *TreeConstructor) elementInScope(s scope, matchTags ...string) bool {
	return c.indexOfElementInScope(s, matchTags...) != -1
}

// popUntil pops up to and including the highest element in scope s matching
// one of matchTags. It reports whether anything was popped.
func (c *TreeConstructor) popUntil(s scope, matchTags ...string) bool {
	if i := c.indexOfElementInScope(s, matchTags...); i != -1 {
		c.openElements = c.openElements[:i]
		return true
	}
	return false
}

// popIncluding pops elements off the stack without regard to scope
// boundaries until an element with the given tag name has been popped.
func (c *TreeConstructor) popIncluding(tagName string) {
	for {
		n := c.openElements.Pop()
		if n == nil || (n.Data == tagName && n.Namespace == spec.HTMLNamespace) {
			return
		}
	}
}

var impliedEndTags = map[string]bool{
	"dd": true, "dt": true, "li": true, "optgroup": true, "option": true,
	"p": true, "rb": true, "rp": true, "rt": true, "rtc": true,
}

func (c *TreeConstructor) generateImpliedEndTags(exceptions ...string) {
	for {
		n := c.currentNode()
		if n == nil || n.Namespace != spec.HTMLNamespace || !impliedEndTags[n.Data] {
			return
		}
		excepted := false
		for _, e := range exceptions {
			if n.Data == e {
				excepted = true
				break
			}
		}
		if excepted {
			return
		}
		c.openElements.Pop()
	}
}

func (c *TreeConstructor) generateImpliedEndTagsThoroughly() {
	for {
		n := c.currentNode()
		if n == nil || n.Namespace != spec.HTMLNamespace {
			return
		}
		switch n.Data {
		case "caption", "colgroup", "dd", "dt", "li", "optgroup", "option",
			"p", "rb", "rp", "rt", "rtc", "tbody", "td", "tfoot", "th",
			"thead", "tr":
			c.openElements.Pop()
		default:
			return
		}
	}
}

func (c *TreeConstructor) clearStackBackToTableContext() {
	for {
		n := c.currentNode()
		if n == nil {
			return
		}
		switch n.Data {
		case "table", "template", "html":
			return
		}
		c.openElements.Pop()
	}
}

func (c *TreeConstructor) clearStackBackToTableBodyContext() {
	for {
		n := c.currentNode()
		if n == nil {
			return
		}
		switch n.Data {
		case "tbody", "tfoot", "thead", "template", "html":
			return
		}
		c.openElements.Pop()
	}
}

func (c *TreeConstructor) clearStackBackToTableRowContext() {
	for {
		n := c.currentNode()
		if n == nil {
			return
		}
		switch n.Data {
		case "tr", "template", "html":
			return
		}
		c.openElements.Pop()
	}
}

func (c *TreeConstructor) closePElement() {
	c.generateImpliedEndTags("p")
	c.popUntil(buttonScope, "p")
}

var specialElements = map[string]bool{
	"address": true, "applet": true, "area": true, "article": true,
	"aside": true, "base": true, "basefont": true, "bgsound": true,
	"blockquote": true, "body": true, "br": true, "button": true,
	"caption": true, "center": true, "col": true, "colgroup": true,
	"dd": true, "details": true, "dir": true, "div": true, "dl": true,
	"dt": true, "embed": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "frame": true,
	"frameset": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "head": true, "header": true, "hgroup": true,
	"hr": true, "html": true, "iframe": true, "img": true, "input": true,
	"keygen": true, "li": true, "link": true, "listing": true, "main": true,
	"marquee": true, "menu": true, "meta": true, "nav": true,
	"noembed": true, "noframes": true, "noscript": true, "object": true,
	"ol": true, "p": true, "param": true, "plaintext": true, "pre": true,
	"script": true, "section": true, "select": true, "source": true,
	"style": true, "summary": true, "table": true, "tbody": true,
	"td": true, "template": true, "textarea": true, "tfoot": true,
	"th": true, "thead": true, "title": true, "tr": true, "track": true,
	"ul": true, "wbr": true, "xmp": true,
}

func isSpecialElement(n *spec.Node) bool {
	switch n.Namespace {
	case spec.HTMLNamespace:
		return specialElements[n.Data]
	case spec.MathMLNamespace:
		switch n.Data {
		case "mi", "mo", "mn", "ms", "mtext", "annotation-xml":
			return true
		}
	case spec.SVGNamespace:
		switch n.Data {
		case "foreignObject", "desc", "title":
			return true
		}
	}
	return false
}

// resetInsertionMode picks the mode appropriate for the current stack, used
// after tables close unexpectedly and when fragment parsing starts.
func (c *TreeConstructor) resetInsertionMode() insertionMode {
	for i := len(c.openElements) - 1; i >= 0; i-- {
		node := c.openElements[i]
		last := i == 0
		if last && c.fragment {
			node = c.context
		}
		switch node.Data {
		case "select":
			if !last {
				for j := i; j > 0; {
					j--
					ancestor := c.openElements[j]
					if ancestor.Data == "template" {
						break
					}
					if ancestor.Data == "table" {
						c.insertionMode = inSelectInTable
						return c.insertionMode
					}
				}
			}
			c.insertionMode = inSelect
			return c.insertionMode
		case "td", "th":
			if !last {
				c.insertionMode = inCell
				return c.insertionMode
			}
		case "tr":
			c.insertionMode = inRow
			return c.insertionMode
		case "tbody", "thead", "tfoot":
			c.insertionMode = inTableBody
			return c.insertionMode
		case "caption":
			c.insertionMode = inCaption
			return c.insertionMode
		case "colgroup":
			c.insertionMode = inColumnGroup
			return c.insertionMode
		case "table":
			c.insertionMode = inTable
			return c.insertionMode
		case "template":
			if len(c.templateInsertionModes) > 0 {
				c.insertionMode = c.templateInsertionModes[len(c.templateInsertionModes)-1]
				return c.insertionMode
			}
		case "head":
			if !last {
				c.insertionMode = inHead
				return c.insertionMode
			}
		case "body":
			c.insertionMode = inBody
			return c.insertionMode
		case "frameset":
			c.insertionMode = inFrameset
			return c.insertionMode
		case "html":
			if c.headElementPointer == nil {
				c.insertionMode = beforeHead
			} else {
				c.insertionMode = afterHead
			}
			return c.insertionMode
		}
		if last {
			c.insertionMode = inBody
			return c.insertionMode
		}
	}
	c.insertionMode = inBody
	return c.insertionMode
}

func (c *TreeConstructor) stopParsing() {
	c.openElements = nil
	c.stopped = true
}

// useRulesFor processes t with the handler for rulesMode while keeping the
// construction stage in currentMode unless the borrowed handler switches
// away itself, either by returning a different mode or by resetting the
// insertion mode from the stack.
func (c *TreeConstructor) useRulesFor(t *Token, currentMode, rulesMode insertionMode) (bool, insertionMode, parseError) {
	before := c.insertionMode
	reprocess, nextMode, err := c.mappings[rulesMode](t)
	if c.insertionMode != before {
		return reprocess, c.insertionMode, err
	}
	if nextMode == rulesMode {
		return reprocess, currentMode, err
	}
	return reprocess, nextMode, err
}

// ProcessToken runs the tree construction dispatcher for one token,
// repeating while handlers ask for the token to be reprocessed.
func (c *TreeConstructor) ProcessToken(t *Token) {
	if c.ignoreNextLineFeed {
		c.ignoreNextLineFeed = false
		if t.TokenType == characterToken && t.Data == "\n" {
			return
		}
	}

	for {
		var (
			reprocess bool
			err       parseError
		)
		if c.useForeignContentRules(t) {
			reprocess, err = c.foreignContentHandler(t)
		} else {
			var next insertionMode
			reprocess, next, err = c.mappings[c.insertionMode](t)
			c.insertionMode = next
		}
		if err != noError {
			c.sink.ParseError(string(err))
		}
		if !reprocess {
			return
		}
	}
}

// useForeignContentRules implements the tree construction dispatcher's
// choice between the regular insertion mode and the rules for parsing tokens
// in foreign content.
func (c *TreeConstructor) useForeignContentRules(t *Token) bool {
	if len(c.openElements) == 0 {
		return false
	}
	acn := c.adjustedCurrentNode()
	if acn == nil || acn.Namespace == spec.HTMLNamespace {
		return false
	}
	if isMathMLTextIntegrationPoint(acn) {
		if t.TokenType == characterToken {
			return false
		}
		if t.TokenType == startTagToken && t.TagName != "mglyph" && t.TagName != "malignmark" {
			return false
		}
	}
	if acn.Namespace == spec.MathMLNamespace && acn.Data == "annotation-xml" &&
		t.TokenType == startTagToken && t.TagName == "svg" {
		return false
	}
	if isHTMLIntegrationPoint(acn) &&
		(t.TokenType == startTagToken || t.TokenType == characterToken) {
		return false
	}
	if t.TokenType == endOfFileToken {
		return false
	}
	return true
}

func (c *TreeConstructor) foreignContentHandler(t *Token) (bool, parseError) {
	switch t.TokenType {
	case characterToken:
		switch {
		case t.Data == "\x00":
			c.insertCharacter("�")
			return false, "unexpected null character"
		case t.isWhitespace():
			c.insertCharacter(t.Data)
		default:
			c.insertCharacter(t.Data)
			c.framesetOK = false
		}
		return false, noError
	case commentToken:
		c.insertComment(t)
		return false, noError
	case docTypeToken:
		return false, "unexpected doctype in foreign content"
	case startTagToken:
		if isForeignBreakout(t) {
			for {
				n := c.currentNode()
				if n == nil || n.Namespace == spec.HTMLNamespace ||
					isMathMLTextIntegrationPoint(n) || isHTMLIntegrationPoint(n) {
					break
				}
				c.openElements.Pop()
			}
			return true, "unexpected HTML tag in foreign content"
		}

		acn := c.adjustedCurrentNode()
		name := t.TagName
		switch acn.Namespace {
		case spec.MathMLNamespace:
			adjustAttributes(t.Attributes, mathMLAttributeAdjustments)
		case spec.SVGNamespace:
			name = adjustSVGTagName(name)
			adjustAttributes(t.Attributes, svgAttributeAdjustments)
		}
		adjustForeignAttributes(t.Attributes)
		c.insertForeignElementForToken(t, name, acn.Namespace)
		if t.SelfClosing {
			c.openElements.Pop()
		}
		return false, noError
	case endTagToken:
		if cur := c.currentNode(); cur != nil && cur.Namespace == spec.SVGNamespace &&
			cur.Data == "script" && t.TagName == "script" {
			c.openElements.Pop()
			return false, noError
		}

		var err parseError
		i := len(c.openElements) - 1
		node := c.openElements[i]
		if strings.ToLower(node.Data) != t.TagName {
			err = "end tag does not match current foreign element"
		}
		for {
			if i == 0 {
				return false, err
			}
			if strings.ToLower(node.Data) == t.TagName {
				for {
					popped := c.openElements.Pop()
					if popped == node {
						return false, err
					}
				}
			}
			i--
			node = c.openElements[i]
			if node.Namespace == spec.HTMLNamespace {
				// retry the token with the regular rules
				reprocess, next, err2 := c.mappings[c.insertionMode](t)
				c.insertionMode = next
				if err == noError {
					err = err2
				}
				return reprocess, err
			}
		}
	}
	return false, noError
}

func (c *TreeConstructor) initialModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if t.isWhitespace() {
			return false, initial, noError
		}
	case commentToken:
		c.insertCommentIn(t, c.sink.Document())
		return false, initial, noError
	case docTypeToken:
		var err parseError
		if t.TagName != "html" || t.HasPublicID ||
			(t.HasSystemID && t.SystemIdentifier != "about:legacy-compat") {
			err = "unexpected doctype contents"
		}
		c.sink.InsertBefore(c.sink.Document(),
			c.sink.CreateDoctype(t.TagName, t.PublicIdentifier, t.SystemIdentifier), nil)
		c.quirksMode = quirksModeFromDoctype(t)
		c.sink.SetQuirksMode(string(c.quirksMode))
		return false, beforeHTML, err
	}
	c.quirksMode = quirks
	c.sink.SetQuirksMode(string(quirks))
	return true, beforeHTML, "missing doctype"
}

func (c *TreeConstructor) defaultBeforeHTMLModeHandler(t *Token) (bool, insertionMode, parseError) {
	elem := c.sink.CreateElement("html", spec.HTMLNamespace, nil)
	c.sink.InsertBefore(c.sink.Document(), elem, nil)
	c.openElements.Push(elem)
	return true, beforeHead, noError
}

func (c *TreeConstructor) beforeHTMLModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case docTypeToken:
		return false, beforeHTML, "unexpected doctype"
	case commentToken:
		c.insertCommentIn(t, c.sink.Document())
		return false, beforeHTML, noError
	case characterToken:
		if t.isWhitespace() {
			return false, beforeHTML, noError
		}
	case startTagToken:
		if t.TagName == "html" {
			elem := c.sink.CreateElement(t.TagName, spec.HTMLNamespace, t.Attributes)
			c.sink.InsertBefore(c.sink.Document(), elem, nil)
			c.openElements.Push(elem)
			return false, beforeHead, noError
		}
	case endTagToken:
		switch t.TagName {
		case "head", "body", "html", "br":
		default:
			return false, beforeHTML, "unexpected end tag before html"
		}
	}
	return c.defaultBeforeHTMLModeHandler(t)
}

func (c *TreeConstructor) defaultBeforeHeadModeHandler(t *Token) (bool, insertionMode, parseError) {
	head := c.sink.CreateElement("head", spec.HTMLNamespace, nil)
	c.insertNode(head)
	c.openElements.Push(head)
	c.headElementPointer = head
	return true, inHead, noError
}

func (c *TreeConstructor) beforeHeadModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if t.isWhitespace() {
			return false, beforeHead, noError
		}
	case commentToken:
		c.insertComment(t)
		return false, beforeHead, noError
	case docTypeToken:
		return false, beforeHead, "unexpected doctype"
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, beforeHead, inBody)
		case "head":
			c.headElementPointer = c.insertHTMLElementForToken(t)
			return false, inHead, noError
		}
	case endTagToken:
		switch t.TagName {
		case "head", "body", "html", "br":
		default:
			return false, beforeHead, "unexpected end tag before head"
		}
	}
	return c.defaultBeforeHeadModeHandler(t)
}

func (c *TreeConstructor) defaultInHeadModeHandler(t *Token) (bool, insertionMode, parseError) {
	c.openElements.Pop()
	return true, afterHead, noError
}

func (c *TreeConstructor) inHeadModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if t.isWhitespace() {
			c.insertCharacter(t.Data)
			return false, inHead, noError
		}
	case commentToken:
		c.insertComment(t)
		return false, inHead, noError
	case docTypeToken:
		return false, inHead, "unexpected doctype"
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inHead, inBody)
		case "base", "basefont", "bgsound", "link", "meta":
			c.insertHTMLElementForToken(t)
			c.openElements.Pop()
			return false, inHead, noError
		case "title":
			return false, c.genericParseElement(t, rcDataState), noError
		case "noscript":
			if c.scriptingEnabled {
				return false, c.genericParseElement(t, rawTextState), noError
			}
			c.insertHTMLElementForToken(t)
			return false, inHeadNoscript, noError
		case "noframes", "style":
			return false, c.genericParseElement(t, rawTextState), noError
		case "script":
			loc := c.appropriateInsertionLocation()
			elem := c.sink.CreateElement(t.TagName, spec.HTMLNamespace, t.Attributes)
			if c.fragment {
				c.sink.MarkScriptAlreadyStarted(elem)
			}
			c.sink.InsertBefore(loc.parent, elem, loc.before)
			c.openElements.Push(elem)
			c.setTokenizerState(scriptDataState)
			c.originalInsertionMode = c.insertionMode
			return false, text, noError
		case "template":
			c.insertHTMLElementForToken(t)
			c.insertMarker()
			c.framesetOK = false
			c.templateInsertionModes = append(c.templateInsertionModes, inTemplate)
			return false, inTemplate, noError
		case "head":
			return false, inHead, "unexpected nested head"
		}
	case endTagToken:
		switch t.TagName {
		case "head":
			c.openElements.Pop()
			return false, afterHead, noError
		case "body", "html", "br":
		case "template":
			if !c.openElements.Contains("template") {
				return false, inHead, "end template without open template"
			}
			c.generateImpliedEndTagsThoroughly()
			var err parseError
			if cur := c.currentNode(); cur == nil || cur.Data != "template" {
				err = "unclosed elements inside template"
			}
			c.popIncluding("template")
			c.clearActiveFormattingElementsToLastMarker()
			c.popTemplateInsertionMode()
			return false, c.resetInsertionMode(), err
		default:
			return false, inHead, "unexpected end tag in head"
		}
	}
	return c.defaultInHeadModeHandler(t)
}

func (c *TreeConstructor) defaultInHeadNoscriptModeHandler(t *Token) (bool, insertionMode, parseError) {
	c.openElements.Pop()
	return true, inHead, "unexpected content in noscript"
}

func (c *TreeConstructor) inHeadNoscriptModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if t.isWhitespace() {
			return c.useRulesFor(t, inHeadNoscript, inHead)
		}
	case commentToken:
		return c.useRulesFor(t, inHeadNoscript, inHead)
	case docTypeToken:
		return false, inHeadNoscript, "unexpected doctype"
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inHeadNoscript, inBody)
		case "basefont", "bgsound", "link", "meta", "noframes", "style":
			return c.useRulesFor(t, inHeadNoscript, inHead)
		case "head", "noscript":
			return false, inHeadNoscript, "unexpected tag in noscript"
		}
	case endTagToken:
		switch t.TagName {
		case "noscript":
			c.openElements.Pop()
			return false, inHead, noError
		case "br":
		default:
			return false, inHeadNoscript, "unexpected end tag in noscript"
		}
	}
	return c.defaultInHeadNoscriptModeHandler(t)
}

func (c *TreeConstructor) defaultAfterHeadModeHandler(t *Token) (bool, insertionMode, parseError) {
	c.insertHTMLElementForToken(&Token{TokenType: startTagToken, TagName: "body"})
	return true, inBody, noError
}

func (c *TreeConstructor) afterHeadModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if t.isWhitespace() {
			c.insertCharacter(t.Data)
			return false, afterHead, noError
		}
	case commentToken:
		c.insertComment(t)
		return false, afterHead, noError
	case docTypeToken:
		return false, afterHead, "unexpected doctype"
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, afterHead, inBody)
		case "body":
			c.insertHTMLElementForToken(t)
			c.framesetOK = false
			return false, inBody, noError
		case "frameset":
			c.insertHTMLElementForToken(t)
			return false, inFrameset, noError
		case "base", "basefont", "bgsound", "link", "meta", "noframes",
			"script", "style", "template", "title":
			if c.headElementPointer == nil {
				break
			}
			c.openElements.Push(c.headElementPointer)
			reprocess, next, _ := c.useRulesFor(t, afterHead, inHead)
			c.openElements.Remove(c.headElementPointer)
			return reprocess, next, "metadata tag after head"
		case "head":
			return false, afterHead, "unexpected second head"
		}
	case endTagToken:
		switch t.TagName {
		case "template":
			return c.useRulesFor(t, afterHead, inHead)
		case "body", "html", "br":
		default:
			return false, afterHead, "unexpected end tag after head"
		}
	}
	return c.defaultAfterHeadModeHandler(t)
}

// anyOtherEndTagInBody implements the generic in body end tag steps: walk
// down the stack looking for a match, aborting at the first special element.
func (c *TreeConstructor) anyOtherEndTagInBody(t *Token) parseError {
	for i := len(c.openElements) - 1; i >= 0; i-- {
		node := c.openElements[i]
		if node.Namespace == spec.HTMLNamespace && node.Data == t.TagName {
			c.generateImpliedEndTags(t.TagName)
			var err parseError
			if node != c.currentNode() {
				err = "unclosed elements at end tag"
			}
			for {
				popped := c.openElements.Pop()
				if popped == node || popped == nil {
					return err
				}
			}
		}
		if isSpecialElement(node) {
			return "unexpected end tag"
		}
	}
	return "unexpected end tag"
}

func (c *TreeConstructor) inBodyModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if t.Data == "\x00" {
			return false, inBody, "unexpected null character"
		}
		c.reconstructActiveFormattingElements()
		c.insertCharacter(t.Data)
		if !t.isWhitespace() {
			c.framesetOK = false
		}
		return false, inBody, noError
	case commentToken:
		c.insertComment(t)
		return false, inBody, noError
	case docTypeToken:
		return false, inBody, "unexpected doctype"
	case endOfFileToken:
		if len(c.templateInsertionModes) > 0 {
			return c.useRulesFor(t, inBody, inTemplate)
		}
		var err parseError
		for _, node := range c.openElements {
			switch node.Data {
			case "dd", "dt", "li", "optgroup", "option", "p", "rb", "rp",
				"rt", "rtc", "tbody", "td", "tfoot", "th", "thead", "tr",
				"body", "html":
			default:
				err = "unexpected end of file with open elements"
			}
		}
		c.stopParsing()
		return false, inBody, err
	case startTagToken:
		return c.inBodyStartTagHandler(t)
	case endTagToken:
		return c.inBodyEndTagHandler(t)
	}
	return false, inBody, noError
}

func (c *TreeConstructor) inBodyStartTagHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TagName {
	case "html":
		if c.openElements.Contains("template") {
			return false, inBody, "unexpected html tag"
		}
		if len(c.openElements) > 0 {
			c.sink.AddAttrsIfMissing(c.openElements[0], t.Attributes)
		}
		return false, inBody, "unexpected html tag"
	case "base", "basefont", "bgsound", "link", "meta", "noframes",
		"script", "style", "template", "title":
		return c.useRulesFor(t, inBody, inHead)
	case "body":
		if len(c.openElements) < 2 || c.openElements[1].Data != "body" ||
			c.openElements.Contains("template") {
			return false, inBody, "unexpected body tag"
		}
		c.framesetOK = false
		c.sink.AddAttrsIfMissing(c.openElements[1], t.Attributes)
		return false, inBody, "unexpected body tag"
	case "frameset":
		if len(c.openElements) < 2 || c.openElements[1].Data != "body" || !c.framesetOK {
			return false, inBody, "unexpected frameset tag"
		}
		body := c.openElements[1]
		c.sink.Detach(body)
		c.openElements = c.openElements[:1]
		c.insertHTMLElementForToken(t)
		return false, inFrameset, "unexpected frameset tag"
	case "address", "article", "aside", "blockquote", "center", "details",
		"dialog", "dir", "div", "dl", "fieldset", "figcaption", "figure",
		"footer", "header", "hgroup", "main", "menu", "nav", "ol", "p",
		"section", "summary", "ul":
		if c.elementInScope(buttonScope, "p") {
			c.closePElement()
		}
		c.insertHTMLElementForToken(t)
		return false, inBody, noError
	case "h1", "h2", "h3", "h4", "h5", "h6":
		if c.elementInScope(buttonScope, "p") {
			c.closePElement()
		}
		var err parseError
		if cur := c.currentNode(); cur != nil {
			switch cur.Data {
			case "h1", "h2", "h3", "h4", "h5", "h6":
				c.openElements.Pop()
				err = "nested heading tags"
			}
		}
		c.insertHTMLElementForToken(t)
		return false, inBody, err
	case "pre", "listing":
		if c.elementInScope(buttonScope, "p") {
			c.closePElement()
		}
		c.insertHTMLElementForToken(t)
		c.ignoreNextLineFeed = true
		c.framesetOK = false
		return false, inBody, noError
	case "form":
		if c.formElementPointer != nil && !c.openElements.Contains("template") {
			return false, inBody, "nested form tag"
		}
		if c.elementInScope(buttonScope, "p") {
			c.closePElement()
		}
		elem := c.insertHTMLElementForToken(t)
		if !c.openElements.Contains("template") {
			c.formElementPointer = elem
		}
		return false, inBody, noError
	case "li":
		c.framesetOK = false
		for i := len(c.openElements) - 1; i >= 0; i-- {
			node := c.openElements[i]
			if node.Data == "li" {
				c.generateImpliedEndTags("li")
				c.popUntil(listItemScope, "li")
				break
			}
			if isSpecialElement(node) && node.Data != "address" &&
				node.Data != "div" && node.Data != "p" {
				break
			}
		}
		if c.elementInScope(buttonScope, "p") {
			c.closePElement()
		}
		c.insertHTMLElementForToken(t)
		return false, inBody, noError
	case "dd", "dt":
		c.framesetOK = false
		for i := len(c.openElements) - 1; i >= 0; i-- {
			node := c.openElements[i]
			if node.Data == "dd" || node.Data == "dt" {
				c.generateImpliedEndTags(node.Data)
				c.popUntil(defaultScope, "dd", "dt")
				break
			}
			if isSpecialElement(node) && node.Data != "address" &&
				node.Data != "div" && node.Data != "p" {
				break
			}
		}
		if c.elementInScope(buttonScope, "p") {
			c.closePElement()
		}
		c.insertHTMLElementForToken(t)
		return false, inBody, noError
	case "plaintext":
		if c.elementInScope(buttonScope, "p") {
			c.closePElement()
		}
		c.insertHTMLElementForToken(t)
		c.setTokenizerState(plaintextState)
		return false, inBody, noError
	case "button":
		var err parseError
		if c.elementInScope(defaultScope, "button") {
			err = "nested button tag"
			c.generateImpliedEndTags()
			c.popUntil(defaultScope, "button")
		}
		c.reconstructActiveFormattingElements()
		c.insertHTMLElementForToken(t)
		c.framesetOK = false
		return false, inBody, err
	case "a":
		var err parseError
		for i := len(c.activeFormattingElements) - 1; i >= 0; i-- {
			entry := c.activeFormattingElements[i]
			if entry.Type == spec.ScopeMarkerNode {
				break
			}
			if entry.Data == "a" {
				err = "nested a tag"
				c.adoptionAgency(t)
				c.activeFormattingElements.Remove(entry)
				c.openElements.Remove(entry)
				break
			}
		}
		c.reconstructActiveFormattingElements()
		c.pushActiveFormattingElement(c.insertHTMLElementForToken(t))
		return false, inBody, err
	case "b", "big", "code", "em", "font", "i", "s", "small", "strike",
		"strong", "tt", "u":
		c.reconstructActiveFormattingElements()
		c.pushActiveFormattingElement(c.insertHTMLElementForToken(t))
		return false, inBody, noError
	case "nobr":
		var err parseError
		c.reconstructActiveFormattingElements()
		if c.elementInScope(defaultScope, "nobr") {
			err = "nested nobr tag"
			c.adoptionAgency(t)
			c.reconstructActiveFormattingElements()
		}
		c.pushActiveFormattingElement(c.insertHTMLElementForToken(t))
		return false, inBody, err
	case "applet", "marquee", "object":
		c.reconstructActiveFormattingElements()
		c.insertHTMLElementForToken(t)
		c.insertMarker()
		c.framesetOK = false
		return false, inBody, noError
	case "table":
		if c.quirksMode != quirks && c.elementInScope(buttonScope, "p") {
			c.closePElement()
		}
		c.insertHTMLElementForToken(t)
		c.framesetOK = false
		return false, inTable, noError
	case "area", "br", "embed", "img", "keygen", "wbr":
		c.reconstructActiveFormattingElements()
		c.insertHTMLElementForToken(t)
		c.openElements.Pop()
		c.framesetOK = false
		return false, inBody, noError
	case "input":
		c.reconstructActiveFormattingElements()
		c.insertHTMLElementForToken(t)
		c.openElements.Pop()
		if typ, ok := t.getAttribute("type"); !ok || strings.ToLower(typ) != "hidden" {
			c.framesetOK = false
		}
		return false, inBody, noError
	case "param", "source", "track":
		c.insertHTMLElementForToken(t)
		c.openElements.Pop()
		return false, inBody, noError
	case "hr":
		if c.elementInScope(buttonScope, "p") {
			c.closePElement()
		}
		c.insertHTMLElementForToken(t)
		c.openElements.Pop()
		c.framesetOK = false
		return false, inBody, noError
	case "image":
		t.TagName = "img"
		return true, inBody, "image tag corrected to img"
	case "textarea":
		c.insertHTMLElementForToken(t)
		c.ignoreNextLineFeed = true
		c.setTokenizerState(rcDataState)
		c.originalInsertionMode = c.insertionMode
		c.framesetOK = false
		return false, text, noError
	case "xmp":
		if c.elementInScope(buttonScope, "p") {
			c.closePElement()
		}
		c.reconstructActiveFormattingElements()
		c.framesetOK = false
		return false, c.genericParseElement(t, rawTextState), noError
	case "iframe":
		c.framesetOK = false
		return false, c.genericParseElement(t, rawTextState), noError
	case "noembed":
		return false, c.genericParseElement(t, rawTextState), noError
	case "noscript":
		if c.scriptingEnabled {
			return false, c.genericParseElement(t, rawTextState), noError
		}
	case "select":
		c.reconstructActiveFormattingElements()
		c.insertHTMLElementForToken(t)
		c.framesetOK = false
		switch c.insertionMode {
		case inTable, inCaption, inTableBody, inRow, inCell:
			return false, inSelectInTable, noError
		}
		return false, inSelect, noError
	case "optgroup", "option":
		if cur := c.currentNode(); cur != nil && cur.Data == "option" {
			c.openElements.Pop()
		}
		c.reconstructActiveFormattingElements()
		c.insertHTMLElementForToken(t)
		return false, inBody, noError
	case "rb", "rtc":
		var err parseError
		if c.elementInScope(defaultScope, "ruby") {
			c.generateImpliedEndTags()
			if cur := c.currentNode(); cur == nil || cur.Data != "ruby" {
				err = "unclosed elements inside ruby"
			}
		}
		c.insertHTMLElementForToken(t)
		return false, inBody, err
	case "rp", "rt":
		var err parseError
		if c.elementInScope(defaultScope, "ruby") {
			c.generateImpliedEndTags("rtc")
			if cur := c.currentNode(); cur == nil || (cur.Data != "ruby" && cur.Data != "rtc") {
				err = "unclosed elements inside ruby"
			}
		}
		c.insertHTMLElementForToken(t)
		return false, inBody, err
	case "math":
		c.reconstructActiveFormattingElements()
		adjustAttributes(t.Attributes, mathMLAttributeAdjustments)
		adjustForeignAttributes(t.Attributes)
		c.insertForeignElementForToken(t, t.TagName, spec.MathMLNamespace)
		if t.SelfClosing {
			c.openElements.Pop()
		}
		return false, inBody, noError
	case "svg":
		c.reconstructActiveFormattingElements()
		adjustAttributes(t.Attributes, svgAttributeAdjustments)
		adjustForeignAttributes(t.Attributes)
		c.insertForeignElementForToken(t, t.TagName, spec.SVGNamespace)
		if t.SelfClosing {
			c.openElements.Pop()
		}
		return false, inBody, noError
	case "caption", "col", "colgroup", "frame", "head", "tbody", "td",
		"tfoot", "th", "thead", "tr":
		return false, inBody, "tag ignored outside its table context"
	}
	c.reconstructActiveFormattingElements()
	c.insertHTMLElementForToken(t)
	return false, inBody, noError
}

func (c *TreeConstructor) inBodyEndTagHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TagName {
	case "template":
		return c.useRulesFor(t, inBody, inHead)
	case "body":
		if !c.elementInScope(defaultScope, "body") {
			return false, inBody, "end body without open body"
		}
		return false, afterBody, c.checkBodyEndParseError()
	case "html":
		if !c.elementInScope(defaultScope, "body") {
			return false, inBody, "end html without open body"
		}
		return true, afterBody, c.checkBodyEndParseError()
	case "address", "article", "aside", "blockquote", "button", "center",
		"details", "dialog", "dir", "div", "dl", "fieldset", "figcaption",
		"figure", "footer", "header", "hgroup", "listing", "main", "menu",
		"nav", "ol", "pre", "section", "summary", "ul":
		if !c.elementInScope(defaultScope, t.TagName) {
			return false, inBody, "unexpected end tag"
		}
		c.generateImpliedEndTags()
		var err parseError
		if cur := c.currentNode(); cur == nil || cur.Data != t.TagName {
			err = "unclosed elements at end tag"
		}
		c.popUntil(defaultScope, t.TagName)
		return false, inBody, err
	case "form":
		if !c.openElements.Contains("template") {
			node := c.formElementPointer
			c.formElementPointer = nil
			if node == nil || c.indexOfElementInScope(defaultScope, "form") == -1 ||
				c.openElements.Index(node) == -1 {
				return false, inBody, "end form without open form"
			}
			c.generateImpliedEndTags()
			var err parseError
			if node != c.currentNode() {
				err = "unclosed elements at end form"
			}
			c.openElements.Remove(node)
			return false, inBody, err
		}
		if !c.elementInScope(defaultScope, "form") {
			return false, inBody, "end form without open form"
		}
		c.generateImpliedEndTags()
		var err parseError
		if cur := c.currentNode(); cur == nil || cur.Data != "form" {
			err = "unclosed elements at end form"
		}
		c.popUntil(defaultScope, "form")
		return false, inBody, err
	case "p":
		if !c.elementInScope(buttonScope, "p") {
			c.insertHTMLElementForToken(&Token{TokenType: startTagToken, TagName: "p"})
			c.closePElement()
			return false, inBody, "end p without open p"
		}
		c.closePElement()
		return false, inBody, noError
	case "li":
		if !c.elementInScope(listItemScope, "li") {
			return false, inBody, "end li without open li"
		}
		c.generateImpliedEndTags("li")
		var err parseError
		if cur := c.currentNode(); cur == nil || cur.Data != "li" {
			err = "unclosed elements at end li"
		}
		c.popUntil(listItemScope, "li")
		return false, inBody, err
	case "dd", "dt":
		if !c.elementInScope(defaultScope, t.TagName) {
			return false, inBody, "unexpected end tag"
		}
		c.generateImpliedEndTags(t.TagName)
		var err parseError
		if cur := c.currentNode(); cur == nil || cur.Data != t.TagName {
			err = "unclosed elements at end tag"
		}
		c.popUntil(defaultScope, t.TagName)
		return false, inBody, err
	case "h1", "h2", "h3", "h4", "h5", "h6":
		if !c.elementInScope(defaultScope, "h1", "h2", "h3", "h4", "h5", "h6") {
			return false, inBody, "end heading without open heading"
		}
		c.generateImpliedEndTags()
		var err parseError
		if cur := c.currentNode(); cur == nil || cur.Data != t.TagName {
			err = "unclosed elements at end heading"
		}
		c.popUntil(defaultScope, "h1", "h2", "h3", "h4", "h5", "h6")
		return false, inBody, err
	case "a", "b", "big", "code", "em", "font", "i", "nobr", "s", "small",
		"strike", "strong", "tt", "u":
		handled, err := c.adoptionAgency(t)
		if !handled {
			err2 := c.anyOtherEndTagInBody(t)
			if err == noError {
				err = err2
			}
		}
		return false, inBody, err
	case "applet", "marquee", "object":
		if !c.elementInScope(defaultScope, t.TagName) {
			return false, inBody, "unexpected end tag"
		}
		c.generateImpliedEndTags()
		var err parseError
		if cur := c.currentNode(); cur == nil || cur.Data != t.TagName {
			err = "unclosed elements at end tag"
		}
		c.popUntil(defaultScope, t.TagName)
		c.clearActiveFormattingElementsToLastMarker()
		return false, inBody, err
	case "br":
		// br end tags become empty br start tags
		c.reconstructActiveFormattingElements()
		c.insertHTMLElementForToken(&Token{TokenType: startTagToken, TagName: "br"})
		c.openElements.Pop()
		c.framesetOK = false
		return false, inBody, "unexpected br end tag"
	}
	return false, inBody, c.anyOtherEndTagInBody(t)
}

func (c *TreeConstructor) checkBodyEndParseError() parseError {
	for _, node := range c.openElements {
		switch node.Data {
		case "dd", "dt", "li", "optgroup", "option", "p", "rb", "rp", "rt",
			"rtc", "tbody", "td", "tfoot", "th", "thead", "tr", "body", "html":
		default:
			return "unclosed elements at end of body"
		}
	}
	return noError
}

func (c *TreeConstructor) textModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		c.insertCharacter(t.Data)
		return false, text, noError
	case endOfFileToken:
		if cur := c.currentNode(); cur != nil && cur.Data == "script" {
			c.sink.MarkScriptAlreadyStarted(cur)
		}
		c.openElements.Pop()
		return true, c.originalInsertionMode, "end of file inside text element"
	case endTagToken:
		c.openElements.Pop()
		return false, c.originalInsertionMode, noError
	}
	return false, text, noError
}

func (c *TreeConstructor) defaultInTableModeHandler(t *Token) (bool, insertionMode, parseError) {
	// foster parent anything the table cannot contain
	c.fosterParenting = true
	reprocess, next, _ := c.useRulesFor(t, inTable, inBody)
	c.fosterParenting = false
	return reprocess, next, "content misplaced inside table"
}

func (c *TreeConstructor) inTableModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if cur := c.currentNode(); cur != nil {
			switch cur.Data {
			case "table", "tbody", "template", "tfoot", "thead", "tr":
				c.pendingTableText = nil
				c.originalInsertionMode = c.insertionMode
				return true, inTableText, noError
			}
		}
	case commentToken:
		c.insertComment(t)
		return false, inTable, noError
	case docTypeToken:
		return false, inTable, "unexpected doctype"
	case endOfFileToken:
		return c.useRulesFor(t, inTable, inBody)
	case startTagToken:
		switch t.TagName {
		case "caption":
			c.clearStackBackToTableContext()
			c.insertMarker()
			c.insertHTMLElementForToken(t)
			return false, inCaption, noError
		case "colgroup":
			c.clearStackBackToTableContext()
			c.insertHTMLElementForToken(t)
			return false, inColumnGroup, noError
		case "col":
			c.clearStackBackToTableContext()
			c.insertHTMLElementForToken(&Token{TokenType: startTagToken, TagName: "colgroup"})
			return true, inColumnGroup, noError
		case "tbody", "tfoot", "thead":
			c.clearStackBackToTableContext()
			c.insertHTMLElementForToken(t)
			return false, inTableBody, noError
		case "td", "th", "tr":
			c.clearStackBackToTableContext()
			c.insertHTMLElementForToken(&Token{TokenType: startTagToken, TagName: "tbody"})
			return true, inTableBody, noError
		case "table":
			if !c.elementInScope(tableScope, "table") {
				return false, inTable, "nested table tag"
			}
			c.popUntil(tableScope, "table")
			return true, c.resetInsertionMode(), "nested table tag"
		case "style", "script", "template":
			return c.useRulesFor(t, inTable, inHead)
		case "input":
			if typ, ok := t.getAttribute("type"); ok && strings.ToLower(typ) == "hidden" {
				c.insertHTMLElementForToken(t)
				c.openElements.Pop()
				return false, inTable, "hidden input inside table"
			}
		case "form":
			if c.openElements.Contains("template") || c.formElementPointer != nil {
				return false, inTable, "form inside table"
			}
			c.formElementPointer = c.insertHTMLElementForToken(t)
			c.openElements.Pop()
			return false, inTable, "form inside table"
		}
	case endTagToken:
		switch t.TagName {
		case "table":
			if !c.elementInScope(tableScope, "table") {
				return false, inTable, "end table without open table"
			}
			c.popUntil(tableScope, "table")
			return false, c.resetInsertionMode(), noError
		case "body", "caption", "col", "colgroup", "html", "tbody", "td",
			"tfoot", "th", "thead", "tr":
			return false, inTable, "unexpected end tag in table"
		case "template":
			return c.useRulesFor(t, inTable, inHead)
		}
	}
	return c.defaultInTableModeHandler(t)
}

func (c *TreeConstructor) inTableTextModeHandler(t *Token) (bool, insertionMode, parseError) {
	if t.TokenType == characterToken {
		if t.Data == "\x00" {
			return false, inTableText, "unexpected null character"
		}
		c.pendingTableText = append(c.pendingTableText, t)
		return false, inTableText, noError
	}

	var err parseError
	nonWhitespace := false
	for _, pending := range c.pendingTableText {
		if !pending.isWhitespace() {
			nonWhitespace = true
			break
		}
	}
	if nonWhitespace {
		err = "non-whitespace text inside table"
		for _, pending := range c.pendingTableText {
			c.fosterParenting = true
			c.mappings[inBody](pending)
			c.fosterParenting = false
		}
	} else {
		for _, pending := range c.pendingTableText {
			c.insertCharacter(pending.Data)
		}
	}
	c.pendingTableText = nil
	return true, c.originalInsertionMode, err
}

// closeCaption closes an open caption and returns to the table mode. It
// reports whether a caption was actually in scope.
func (c *TreeConstructor) closeCaption() (bool, parseError) {
	if !c.elementInScope(tableScope, "caption") {
		return false, "caption not in table scope"
	}
	c.generateImpliedEndTags()
	var err parseError
	if cur := c.currentNode(); cur == nil || cur.Data != "caption" {
		err = "unclosed elements at end caption"
	}
	c.popUntil(tableScope, "caption")
	c.clearActiveFormattingElementsToLastMarker()
	return true, err
}

func (c *TreeConstructor) inCaptionModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case startTagToken:
		switch t.TagName {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th",
			"thead", "tr":
			closed, err := c.closeCaption()
			if !closed {
				return false, inCaption, err
			}
			return true, inTable, err
		}
	case endTagToken:
		switch t.TagName {
		case "caption":
			closed, err := c.closeCaption()
			if !closed {
				return false, inCaption, err
			}
			return false, inTable, err
		case "table":
			closed, err := c.closeCaption()
			if !closed {
				return false, inCaption, err
			}
			return true, inTable, err
		case "body", "col", "colgroup", "html", "tbody", "td", "tfoot",
			"th", "thead", "tr":
			return false, inCaption, "unexpected end tag in caption"
		}
	}
	return c.useRulesFor(t, inCaption, inBody)
}

func (c *TreeConstructor) inColumnGroupModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if t.isWhitespace() {
			c.insertCharacter(t.Data)
			return false, inColumnGroup, noError
		}
	case commentToken:
		c.insertComment(t)
		return false, inColumnGroup, noError
	case docTypeToken:
		return false, inColumnGroup, "unexpected doctype"
	case endOfFileToken:
		return c.useRulesFor(t, inColumnGroup, inBody)
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inColumnGroup, inBody)
		case "col":
			c.insertHTMLElementForToken(t)
			c.openElements.Pop()
			return false, inColumnGroup, noError
		case "template":
			return c.useRulesFor(t, inColumnGroup, inHead)
		}
	case endTagToken:
		switch t.TagName {
		case "colgroup":
			if cur := c.currentNode(); cur == nil || cur.Data != "colgroup" {
				return false, inColumnGroup, "end colgroup without open colgroup"
			}
			c.openElements.Pop()
			return false, inTable, noError
		case "col":
			return false, inColumnGroup, "unexpected col end tag"
		case "template":
			return c.useRulesFor(t, inColumnGroup, inHead)
		}
	}
	if cur := c.currentNode(); cur == nil || cur.Data != "colgroup" {
		return false, inColumnGroup, "unexpected content in colgroup"
	}
	c.openElements.Pop()
	return true, inTable, noError
}

func (c *TreeConstructor) inTableBodyModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case startTagToken:
		switch t.TagName {
		case "tr":
			c.clearStackBackToTableBodyContext()
			c.insertHTMLElementForToken(t)
			return false, inRow, noError
		case "th", "td":
			c.clearStackBackToTableBodyContext()
			c.insertHTMLElementForToken(&Token{TokenType: startTagToken, TagName: "tr"})
			return true, inRow, "cell tag without tr"
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead":
			if !c.elementInScope(tableScope, "tbody", "thead", "tfoot") {
				return false, inTableBody, "unexpected tag in table body"
			}
			c.clearStackBackToTableBodyContext()
			c.openElements.Pop()
			return true, inTable, noError
		}
	case endTagToken:
		switch t.TagName {
		case "tbody", "tfoot", "thead":
			if !c.elementInScope(tableScope, t.TagName) {
				return false, inTableBody, "unexpected end tag in table body"
			}
			c.clearStackBackToTableBodyContext()
			c.openElements.Pop()
			return false, inTable, noError
		case "table":
			if !c.elementInScope(tableScope, "tbody", "thead", "tfoot") {
				return false, inTableBody, "end table without open table section"
			}
			c.clearStackBackToTableBodyContext()
			c.openElements.Pop()
			return true, inTable, noError
		case "body", "caption", "col", "colgroup", "html", "td", "th", "tr":
			return false, inTableBody, "unexpected end tag in table body"
		}
	}
	return c.useRulesFor(t, inTableBody, inTable)
}

func (c *TreeConstructor) inRowModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case startTagToken:
		switch t.TagName {
		case "th", "td":
			c.clearStackBackToTableRowContext()
			c.insertHTMLElementForToken(t)
			c.insertMarker()
			return false, inCell, noError
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead", "tr":
			if !c.elementInScope(tableScope, "tr") {
				return false, inRow, "unexpected tag in table row"
			}
			c.clearStackBackToTableRowContext()
			c.openElements.Pop()
			return true, inTableBody, noError
		}
	case endTagToken:
		switch t.TagName {
		case "tr":
			if !c.elementInScope(tableScope, "tr") {
				return false, inRow, "end tr without open tr"
			}
			c.clearStackBackToTableRowContext()
			c.openElements.Pop()
			return false, inTableBody, noError
		case "table":
			if !c.elementInScope(tableScope, "tr") {
				return false, inRow, "end table without open tr"
			}
			c.clearStackBackToTableRowContext()
			c.openElements.Pop()
			return true, inTableBody, noError
		case "tbody", "tfoot", "thead":
			if !c.elementInScope(tableScope, t.TagName) {
				return false, inRow, "unexpected end tag in table row"
			}
			if !c.elementInScope(tableScope, "tr") {
				return false, inRow, noError
			}
			c.clearStackBackToTableRowContext()
			c.openElements.Pop()
			return true, inTableBody, noError
		case "body", "caption", "col", "colgroup", "html", "td", "th":
			return false, inRow, "unexpected end tag in table row"
		}
	}
	return c.useRulesFor(t, inRow, inTable)
}

func (c *TreeConstructor) closeCell() parseError {
	c.generateImpliedEndTags()
	var err parseError
	if cur := c.currentNode(); cur == nil || (cur.Data != "td" && cur.Data != "th") {
		err = "unclosed elements at end of cell"
	}
	c.popUntil(tableScope, "td", "th")
	c.clearActiveFormattingElementsToLastMarker()
	return err
}

func (c *TreeConstructor) inCellModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case startTagToken:
		switch t.TagName {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th",
			"thead", "tr":
			if !c.elementInScope(tableScope, "td", "th") {
				return false, inCell, "unexpected tag outside cell"
			}
			return true, inRow, c.closeCell()
		}
	case endTagToken:
		switch t.TagName {
		case "td", "th":
			if !c.elementInScope(tableScope, t.TagName) {
				return false, inCell, "unexpected cell end tag"
			}
			c.generateImpliedEndTags()
			var err parseError
			if cur := c.currentNode(); cur == nil || cur.Data != t.TagName {
				err = "unclosed elements at cell end tag"
			}
			c.popUntil(tableScope, t.TagName)
			c.clearActiveFormattingElementsToLastMarker()
			return false, inRow, err
		case "body", "caption", "col", "colgroup", "html":
			return false, inCell, "unexpected end tag in cell"
		case "table", "tbody", "tfoot", "thead", "tr":
			if !c.elementInScope(tableScope, t.TagName) {
				return false, inCell, "unexpected end tag in cell"
			}
			return true, inRow, c.closeCell()
		}
	}
	return c.useRulesFor(t, inCell, inBody)
}

func (c *TreeConstructor) inSelectModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if t.Data == "\x00" {
			return false, inSelect, "unexpected null character"
		}
		c.insertCharacter(t.Data)
		return false, inSelect, noError
	case commentToken:
		c.insertComment(t)
		return false, inSelect, noError
	case docTypeToken:
		return false, inSelect, "unexpected doctype"
	case endOfFileToken:
		return c.useRulesFor(t, inSelect, inBody)
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inSelect, inBody)
		case "option":
			if cur := c.currentNode(); cur != nil && cur.Data == "option" {
				c.openElements.Pop()
			}
			c.insertHTMLElementForToken(t)
			return false, inSelect, noError
		case "optgroup":
			if cur := c.currentNode(); cur != nil && cur.Data == "option" {
				c.openElements.Pop()
			}
			if cur := c.currentNode(); cur != nil && cur.Data == "optgroup" {
				c.openElements.Pop()
			}
			c.insertHTMLElementForToken(t)
			return false, inSelect, noError
		case "hr":
			if cur := c.currentNode(); cur != nil && cur.Data == "option" {
				c.openElements.Pop()
			}
			if cur := c.currentNode(); cur != nil && cur.Data == "optgroup" {
				c.openElements.Pop()
			}
			c.insertHTMLElementForToken(t)
			c.openElements.Pop()
			return false, inSelect, noError
		case "select":
			if !c.elementInScope(selectScope, "select") {
				return false, inSelect, "nested select tag"
			}
			c.popUntil(selectScope, "select")
			return false, c.resetInsertionMode(), "nested select tag"
		case "input", "keygen", "textarea":
			if !c.elementInScope(selectScope, "select") {
				return false, inSelect, "unexpected tag in select"
			}
			c.popUntil(selectScope, "select")
			return true, c.resetInsertionMode(), "unexpected tag in select"
		case "script", "template":
			return c.useRulesFor(t, inSelect, inHead)
		}
	case endTagToken:
		switch t.TagName {
		case "optgroup":
			if cur := c.currentNode(); cur != nil && cur.Data == "option" &&
				len(c.openElements) > 1 && c.openElements[len(c.openElements)-2].Data == "optgroup" {
				c.openElements.Pop()
			}
			if cur := c.currentNode(); cur != nil && cur.Data == "optgroup" {
				c.openElements.Pop()
				return false, inSelect, noError
			}
			return false, inSelect, "end optgroup without open optgroup"
		case "option":
			if cur := c.currentNode(); cur != nil && cur.Data == "option" {
				c.openElements.Pop()
				return false, inSelect, noError
			}
			return false, inSelect, "end option without open option"
		case "select":
			if !c.elementInScope(selectScope, "select") {
				return false, inSelect, "end select without open select"
			}
			c.popUntil(selectScope, "select")
			return false, c.resetInsertionMode(), noError
		case "template":
			return c.useRulesFor(t, inSelect, inHead)
		}
	}
	return false, inSelect, "unexpected token in select"
}

func (c *TreeConstructor) inSelectInTableModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case startTagToken:
		switch t.TagName {
		case "caption", "table", "tbody", "tfoot", "thead", "tr", "td", "th":
			c.popUntil(selectScope, "select")
			return true, c.resetInsertionMode(), "table tag inside select"
		}
	case endTagToken:
		switch t.TagName {
		case "caption", "table", "tbody", "tfoot", "thead", "tr", "td", "th":
			if !c.elementInScope(tableScope, t.TagName) {
				return false, inSelectInTable, "unexpected end tag in select"
			}
			c.popUntil(selectScope, "select")
			return true, c.resetInsertionMode(), "table end tag inside select"
		}
	}
	return c.useRulesFor(t, inSelectInTable, inSelect)
}

func (c *TreeConstructor) popTemplateInsertionMode() {
	if len(c.templateInsertionModes) > 0 {
		c.templateInsertionModes = c.templateInsertionModes[:len(c.templateInsertionModes)-1]
	}
}

func (c *TreeConstructor) switchTemplateMode(mode insertionMode) insertionMode {
	c.popTemplateInsertionMode()
	c.templateInsertionModes = append(c.templateInsertionModes, mode)
	return mode
}

func (c *TreeConstructor) inTemplateModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken, commentToken, docTypeToken:
		return c.useRulesFor(t, inTemplate, inBody)
	case endOfFileToken:
		if !c.openElements.Contains("template") {
			c.stopParsing()
			return false, inTemplate, noError
		}
		c.popIncluding("template")
		c.clearActiveFormattingElementsToLastMarker()
		c.popTemplateInsertionMode()
		return true, c.resetInsertionMode(), "end of file inside template"
	case startTagToken:
		switch t.TagName {
		case "base", "basefont", "bgsound", "link", "meta", "noframes",
			"script", "style", "template", "title":
			return c.useRulesFor(t, inTemplate, inHead)
		case "caption", "colgroup", "tbody", "tfoot", "thead":
			return true, c.switchTemplateMode(inTable), noError
		case "col":
			return true, c.switchTemplateMode(inColumnGroup), noError
		case "tr":
			return true, c.switchTemplateMode(inTableBody), noError
		case "td", "th":
			return true, c.switchTemplateMode(inRow), noError
		}
		return true, c.switchTemplateMode(inBody), noError
	case endTagToken:
		if t.TagName == "template" {
			return c.useRulesFor(t, inTemplate, inHead)
		}
		return false, inTemplate, "unexpected end tag in template"
	}
	return false, inTemplate, noError
}

func (c *TreeConstructor) afterBodyModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if t.isWhitespace() {
			return c.useRulesFor(t, afterBody, inBody)
		}
	case commentToken:
		if len(c.openElements) > 0 {
			c.insertCommentIn(t, c.openElements[0])
		}
		return false, afterBody, noError
	case docTypeToken:
		return false, afterBody, "unexpected doctype"
	case endOfFileToken:
		c.stopParsing()
		return false, afterBody, noError
	case startTagToken:
		if t.TagName == "html" {
			return c.useRulesFor(t, afterBody, inBody)
		}
	case endTagToken:
		if t.TagName == "html" {
			if c.fragment {
				return false, afterBody, "end html in fragment"
			}
			return false, afterAfterBody, noError
		}
	}
	return true, inBody, "unexpected token after body"
}

func (c *TreeConstructor) inFramesetModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if t.isWhitespace() {
			c.insertCharacter(t.Data)
			return false, inFrameset, noError
		}
	case commentToken:
		c.insertComment(t)
		return false, inFrameset, noError
	case docTypeToken:
		return false, inFrameset, "unexpected doctype"
	case endOfFileToken:
		var err parseError
		if cur := c.currentNode(); cur != nil && cur.Data != "html" {
			err = "end of file inside frameset"
		}
		c.stopParsing()
		return false, inFrameset, err
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, inFrameset, inBody)
		case "frameset":
			c.insertHTMLElementForToken(t)
			return false, inFrameset, noError
		case "frame":
			c.insertHTMLElementForToken(t)
			c.openElements.Pop()
			return false, inFrameset, noError
		case "noframes":
			return c.useRulesFor(t, inFrameset, inHead)
		}
	case endTagToken:
		if t.TagName == "frameset" {
			if cur := c.currentNode(); cur != nil && cur.Data == "html" {
				return false, inFrameset, "end frameset at root"
			}
			c.openElements.Pop()
			if cur := c.currentNode(); !c.fragment && cur != nil && cur.Data != "frameset" {
				return false, afterFrameset, noError
			}
			return false, inFrameset, noError
		}
	}
	return false, inFrameset, "unexpected token in frameset"
}

func (c *TreeConstructor) afterFramesetModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case characterToken:
		if t.isWhitespace() {
			c.insertCharacter(t.Data)
			return false, afterFrameset, noError
		}
	case commentToken:
		c.insertComment(t)
		return false, afterFrameset, noError
	case docTypeToken:
		return false, afterFrameset, "unexpected doctype"
	case endOfFileToken:
		c.stopParsing()
		return false, afterFrameset, noError
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, afterFrameset, inBody)
		case "noframes":
			return c.useRulesFor(t, afterFrameset, inHead)
		}
	case endTagToken:
		if t.TagName == "html" {
			return false, afterAfterFrameset, noError
		}
	}
	return false, afterFrameset, "unexpected token after frameset"
}

func (c *TreeConstructor) afterAfterBodyModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case commentToken:
		c.insertCommentIn(t, c.sink.Document())
		return false, afterAfterBody, noError
	case docTypeToken:
		return c.useRulesFor(t, afterAfterBody, inBody)
	case characterToken:
		if t.isWhitespace() {
			return c.useRulesFor(t, afterAfterBody, inBody)
		}
	case startTagToken:
		if t.TagName == "html" {
			return c.useRulesFor(t, afterAfterBody, inBody)
		}
	case endOfFileToken:
		c.stopParsing()
		return false, afterAfterBody, noError
	}
	return true, inBody, "unexpected token after document end"
}

func (c *TreeConstructor) afterAfterFramesetModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.TokenType {
	case commentToken:
		c.insertCommentIn(t, c.sink.Document())
		return false, afterAfterFrameset, noError
	case docTypeToken:
		return c.useRulesFor(t, afterAfterFrameset, inBody)
	case characterToken:
		if t.isWhitespace() {
			return c.useRulesFor(t, afterAfterFrameset, inBody)
		}
	case startTagToken:
		switch t.TagName {
		case "html":
			return c.useRulesFor(t, afterAfterFrameset, inBody)
		case "noframes":
			return c.useRulesFor(t, afterAfterFrameset, inHead)
		}
	case endOfFileToken:
		c.stopParsing()
		return false, afterAfterFrameset, noError
	}
	logrus.Tracef("ignoring token after frameset document end: %s", t.TokenType)
	return false, afterAfterFrameset, "unexpected token after document end"
}
