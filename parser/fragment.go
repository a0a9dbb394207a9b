package parser

import (
	"io"
	"strings"

	"github.com/yonasBSD/hiwave-windows-sub003/parser/spec"
)

// fragmentTokenizerState picks the scanning mode the tokenizer starts in
// when parsing a fragment inside the given context element.
func fragmentTokenizerState(context *spec.Node, scripting bool) tokenizerState {
	if context == nil || context.Namespace != spec.HTMLNamespace {
		return dataState
	}
	switch context.Data {
	case "title", "textarea":
		return rcDataState
	case "style", "xmp", "iframe", "noembed", "noframes":
		return rawTextState
	case "noscript":
		if scripting {
			return rawTextState
		}
		return dataState
	case "script":
		return scriptDataState
	case "plaintext":
		return plaintextState
	}
	return dataState
}

// ParseFragment parses r as markup inside context, the way innerHTML does,
// and returns the parsed children in order. A nil context parses as if
// inside a div.
func ParseFragment(r io.Reader, context *spec.Node) ([]*spec.Node, error) {
	if context == nil {
		context = spec.NewElement("div", spec.HTMLNamespace, nil)
	}

	sink := newDefaultSink()
	root := sink.CreateElement("html", spec.HTMLNamespace, nil)
	sink.InsertBefore(sink.Document(), root, nil)

	c := NewTreeConstructor(sink)
	c.fragment = true
	c.context = context
	c.openElements.Push(root)
	if context.Namespace == spec.HTMLNamespace && context.Data == "template" {
		c.templateInsertionModes = append(c.templateInsertionModes, inTemplate)
	}
	c.resetInsertionMode()
	for form := context; form != nil; form = form.Parent {
		if form.Namespace == spec.HTMLNamespace && form.Data == "form" {
			c.formElementPointer = form
			break
		}
	}

	tokenizer := NewTokenizer(r)
	state := fragmentTokenizerState(context, c.scriptingEnabled)
	tokenizer.currentState = state
	if context.Namespace == spec.HTMLNamespace && context.Data == "script" {
		tokenizer.lastEmittedStartTagName = "script"
	}

	progress := c.Progress()
	for tokenizer.Next() {
		tok, err := tokenizer.Token(&progress)
		if err != nil {
			return nil, err
		}
		c.ProcessToken(tok)
		if c.Done() {
			break
		}
		progress = c.Progress()
	}

	result := root.Children()
	for _, n := range result {
		n.Detach()
	}
	return result, nil
}

// ParseFragmentString parses markup inside a freshly made HTML element with
// the given tag name.
func ParseFragmentString(contextTag, s string) ([]*spec.Node, error) {
	context := spec.NewElement(contextTag, spec.HTMLNamespace, nil)
	return ParseFragment(strings.NewReader(s), context)
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

var rawTextSerializeElements = map[string]bool{
	"style": true, "script": true, "xmp": true, "iframe": true,
	"noembed": true, "noframes": true, "plaintext": true,
}

func escapeText(s string, attribute bool) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case ' ':
			b.WriteString("&nbsp;")
		case '"':
			if attribute {
				b.WriteString("&quot;")
			} else {
				b.WriteRune(r)
			}
		case '<':
			if attribute {
				b.WriteRune(r)
			} else {
				b.WriteString("&lt;")
			}
		case '>':
			if attribute {
				b.WriteRune(r)
			} else {
				b.WriteString("&gt;")
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func serializeNode(b *strings.Builder, n *spec.Node) {
	switch n.Type {
	case spec.TextNode:
		if n.Parent != nil && n.Parent.Type == spec.ElementNode &&
			rawTextSerializeElements[n.Parent.Data] {
			b.WriteString(n.Data)
			return
		}
		b.WriteString(escapeText(n.Data, false))
	case spec.CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case spec.DocumentTypeNode:
		b.WriteString("<!DOCTYPE ")
		b.WriteString(n.Data)
		b.WriteString(">")
	case spec.ElementNode:
		b.WriteByte('<')
		b.WriteString(n.Data)
		for _, a := range n.Attr {
			b.WriteByte(' ')
			if a.Namespace != spec.HTMLNamespace {
				b.WriteString(a.Namespace.String())
				b.WriteByte(':')
			}
			b.WriteString(a.Name)
			b.WriteString(`="`)
			b.WriteString(escapeText(a.Value, true))
			b.WriteByte('"')
		}
		b.WriteByte('>')
		if voidElements[n.Data] && n.Namespace == spec.HTMLNamespace {
			return
		}
		if n.Contents != nil {
			serializeChildren(b, n.Contents)
		} else {
			serializeChildren(b, n)
		}
		b.WriteString("</")
		b.WriteString(n.Data)
		b.WriteByte('>')
	case spec.DocumentNode:
		serializeChildren(b, n)
	}
}

func serializeChildren(b *strings.Builder, n *spec.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		serializeNode(b, child)
	}
}

// SerializeFragment renders the children of n back to HTML source, the
// inverse of ParseFragment.
func SerializeFragment(n *spec.Node) string {
	var b strings.Builder
	serializeChildren(&b, n)
	return b.String()
}
