package parser

import (
	"github.com/sirupsen/logrus"
	"github.com/yonasBSD/hiwave-windows-sub003/parser/spec"
)

// TreeSink receives tree mutations from the construction stage. The stage
// itself never walks the document it is building; everything it needs later
// (open elements, formatting state) it keeps on its own stack, so a sink can
// build any representation it likes as long as the returned handles stay
// usable as arguments to later calls.
type TreeSink interface {
	// Document returns the root handle that everything else hangs off.
	Document() *spec.Node

	CreateElement(name string, ns spec.Namespace, attrs []spec.Attribute) *spec.Node
	CreateComment(data string) *spec.Node
	CreateDoctype(name, publicID, systemID string) *spec.Node

	// InsertBefore places node under parent, before ref. A nil ref
	// appends.
	InsertBefore(parent, node, ref *spec.Node)

	// AppendText inserts character data under parent before ref, merging
	// into an immediately preceding text node when there is one.
	AppendText(parent, ref *spec.Node, data string)

	// Detach removes node from its parent, if it has one.
	Detach(node *spec.Node)

	// ReparentChildren moves every child of from to the end of to.
	ReparentChildren(from, to *spec.Node)

	// TemplateContents returns the separate tree that children of a
	// template element land in.
	TemplateContents(template *spec.Node) *spec.Node

	// AddAttrsIfMissing copies attributes onto an existing element,
	// skipping names it already has. Stray <html> and <body> tags do
	// this instead of creating second elements.
	AddAttrsIfMissing(node *spec.Node, attrs []spec.Attribute)

	MarkScriptAlreadyStarted(script *spec.Node)
	SetQuirksMode(mode string)

	// ParseError reports a recoverable syntax error. Parsing always
	// continues afterwards.
	ParseError(msg string)
}

// defaultSink builds a spec.Node tree. It is what Parse uses when the caller
// does not bring a sink of its own.
type defaultSink struct {
	document *spec.Node
	quirks   string
}

func newDefaultSink() *defaultSink {
	return &defaultSink{document: spec.NewDocument()}
}

func (s *defaultSink) Document() *spec.Node { return s.document }

func (s *defaultSink) CreateElement(name string, ns spec.Namespace, attrs []spec.Attribute) *spec.Node {
	n := spec.NewElement(name, ns, attrs)
	if name == "template" && ns == spec.HTMLNamespace {
		n.Contents = spec.NewDocument()
	}
	return n
}

func (s *defaultSink) CreateComment(data string) *spec.Node {
	return spec.NewComment(data)
}

func (s *defaultSink) CreateDoctype(name, publicID, systemID string) *spec.Node {
	return spec.NewDoctype(name, publicID, systemID)
}

func (s *defaultSink) InsertBefore(parent, node, ref *spec.Node) {
	parent.InsertBefore(node, ref)
}

func (s *defaultSink) AppendText(parent, ref *spec.Node, data string) {
	prev := parent.LastChild
	if ref != nil {
		prev = ref.PrevSibling
	}
	if prev != nil && prev.Type == spec.TextNode {
		prev.Data += data
		return
	}
	parent.InsertBefore(spec.NewText(data), ref)
}

func (s *defaultSink) Detach(node *spec.Node) {
	node.Detach()
}

func (s *defaultSink) ReparentChildren(from, to *spec.Node) {
	spec.ReparentChildren(to, from)
}

func (s *defaultSink) TemplateContents(template *spec.Node) *spec.Node {
	return template.Contents
}

func (s *defaultSink) AddAttrsIfMissing(node *spec.Node, attrs []spec.Attribute) {
	for _, a := range attrs {
		if _, ok := node.GetAttr(a.Name); !ok {
			node.Attr = append(node.Attr, a)
		}
	}
}

func (s *defaultSink) MarkScriptAlreadyStarted(script *spec.Node) {
	script.ScriptAlreadyStarted = true
}

func (s *defaultSink) SetQuirksMode(mode string) { s.quirks = mode }

func (s *defaultSink) ParseError(msg string) {
	logrus.Debugf("parse error: %s", msg)
}
