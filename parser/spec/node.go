// Package spec provides the default tree representation built by the parser.
// Nodes are deliberately small: a type tag, a name or data payload, ordered
// attributes, and sibling/child links. Any other tree representation can stand
// in for this one by satisfying the parser's TreeSink.
package spec

import "strings"

type NodeType uint16

const (
	ElementNode NodeType = iota + 1
	TextNode
	CommentNode
	DocumentNode
	DocumentTypeNode
	DocumentFragmentNode
	// ScopeMarkerNode entries never appear in a tree. They live only in the
	// list of active formatting elements, bounding reconstruction and the
	// adoption agency's search.
	ScopeMarkerNode
)

type Namespace uint8

const (
	HTMLNamespace Namespace = iota
	MathMLNamespace
	SVGNamespace
	XLinkNamespace
	XMLNamespace
	XMLNSNamespace
)

func (ns Namespace) String() string {
	switch ns {
	case MathMLNamespace:
		return "math"
	case SVGNamespace:
		return "svg"
	case XLinkNamespace:
		return "xlink"
	case XMLNamespace:
		return "xml"
	case XMLNSNamespace:
		return "xmlns"
	}
	return ""
}

// Attribute is a single name/value pair on an element. Attributes keep the
// order in which the tokenizer saw them.
type Attribute struct {
	Namespace Namespace
	Name      string
	Value     string
}

// Node is one node of the document tree. Data holds the tag name for
// elements, the text for text and comment nodes, and the doctype name for
// doctype nodes.
type Node struct {
	Type      NodeType
	Data      string
	Namespace Namespace
	Attr      []Attribute

	Parent, FirstChild, LastChild, PrevSibling, NextSibling *Node

	// Doctype payload.
	PublicID, SystemID string

	// Contents holds the separate fragment that children of a template
	// element are parsed into.
	Contents *Node

	// ScriptAlreadyStarted is set by the parser on script elements it has
	// finished with, so a downstream executor will not run them again.
	ScriptAlreadyStarted bool
}

// ScopeMarker is the singleton placed into the active formatting list at
// applet, object, marquee, template, caption, td and th boundaries.
var ScopeMarker = &Node{Type: ScopeMarkerNode}

func NewDocument() *Node {
	return &Node{Type: DocumentNode}
}

func NewElement(name string, ns Namespace, attr []Attribute) *Node {
	return &Node{Type: ElementNode, Data: name, Namespace: ns, Attr: attr}
}

func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

func NewComment(data string) *Node {
	return &Node{Type: CommentNode, Data: data}
}

func NewDoctype(name, publicID, systemID string) *Node {
	return &Node{Type: DocumentTypeNode, Data: name, PublicID: publicID, SystemID: systemID}
}

// Clone returns a copy of n with the same type, name and attributes but no
// parent, siblings or children.
func (n *Node) Clone() *Node {
	m := &Node{
		Type:      n.Type,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      make([]Attribute, len(n.Attr)),
	}
	copy(m.Attr, n.Attr)
	return m
}

// AppendChild adds c as the last child of n. It panics if c already has a
// parent or siblings; callers detach first.
func (n *Node) AppendChild(c *Node) {
	if c.Parent != nil || c.PrevSibling != nil || c.NextSibling != nil {
		panic("spec: AppendChild called for an attached child Node")
	}
	last := n.LastChild
	if last != nil {
		last.NextSibling = c
	} else {
		n.FirstChild = c
	}
	n.LastChild = c
	c.Parent = n
	c.PrevSibling = last
}

// InsertBefore inserts c into n's children immediately before ref. A nil ref
// appends. It panics if c is already attached.
func (n *Node) InsertBefore(c, ref *Node) {
	if c.Parent != nil || c.PrevSibling != nil || c.NextSibling != nil {
		panic("spec: InsertBefore called for an attached child Node")
	}
	if ref == nil {
		n.AppendChild(c)
		return
	}
	prev := ref.PrevSibling
	if prev != nil {
		prev.NextSibling = c
	} else {
		n.FirstChild = c
	}
	ref.PrevSibling = c
	c.Parent = n
	c.PrevSibling = prev
	c.NextSibling = ref
}

// RemoveChild detaches c from n. It panics if c is not a child of n.
func (n *Node) RemoveChild(c *Node) {
	if c.Parent != n {
		panic("spec: RemoveChild called for a non-child Node")
	}
	if n.FirstChild == c {
		n.FirstChild = c.NextSibling
	}
	if c.NextSibling != nil {
		c.NextSibling.PrevSibling = c.PrevSibling
	}
	if n.LastChild == c {
		n.LastChild = c.PrevSibling
	}
	if c.PrevSibling != nil {
		c.PrevSibling.NextSibling = c.NextSibling
	}
	c.Parent = nil
	c.PrevSibling = nil
	c.NextSibling = nil
}

// Detach removes n from its parent, if any.
func (n *Node) Detach() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// ReparentChildren moves all of src's children to dst, keeping their order.
func ReparentChildren(dst, src *Node) {
	for {
		child := src.FirstChild
		if child == nil {
			return
		}
		src.RemoveChild(child)
		dst.AppendChild(child)
	}
}

// Children collects n's children into a slice.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// GetAttr returns the value of the named attribute and whether it is present.
func (n *Node) GetAttr(name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// IsElement reports whether n is an HTML-namespace element named name.
func (n *Node) IsElement(name string) bool {
	return n.Type == ElementNode && n.Namespace == HTMLNamespace && n.Data == name
}

// String renders the tree in the html5lib tree-construction dump format,
// which the tree tests compare against.
func (n *Node) String() string {
	var b strings.Builder
	n.dump(&b, 0)
	return strings.TrimRight(b.String(), "\n")
}

func (n *Node) dump(b *strings.Builder, depth int) {
	switch n.Type {
	case DocumentNode:
		b.WriteString("#document\n")
		depth--
	case DocumentFragmentNode:
		b.WriteString("#document-fragment\n")
		depth--
	case ElementNode:
		indent(b, depth)
		b.WriteByte('<')
		if n.Namespace != HTMLNamespace {
			b.WriteString(n.Namespace.String())
			b.WriteByte(' ')
		}
		b.WriteString(n.Data)
		b.WriteString(">\n")
		for _, a := range sortedAttrs(n.Attr) {
			indent(b, depth+1)
			if a.Namespace != HTMLNamespace {
				b.WriteString(a.Namespace.String())
				b.WriteByte(' ')
			}
			b.WriteString(a.Name)
			b.WriteString("=\"")
			b.WriteString(a.Value)
			b.WriteString("\"\n")
		}
	case TextNode:
		indent(b, depth)
		b.WriteString("\"" + n.Data + "\"\n")
	case CommentNode:
		indent(b, depth)
		b.WriteString("<!-- " + n.Data + " -->\n")
	case DocumentTypeNode:
		indent(b, depth)
		b.WriteString("<!DOCTYPE " + n.Data)
		if n.PublicID != "" || n.SystemID != "" {
			b.WriteString(" \"" + n.PublicID + "\" \"" + n.SystemID + "\"")
		}
		b.WriteString(">\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		c.dump(b, depth+1)
	}
	if n.Type == ElementNode && n.Contents != nil {
		indent(b, depth+1)
		b.WriteString("content\n")
		for c := n.Contents.FirstChild; c != nil; c = c.NextSibling {
			c.dump(b, depth+2)
		}
	}
}

func indent(b *strings.Builder, depth int) {
	b.WriteString("| ")
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func sortedAttrs(attr []Attribute) []Attribute {
	out := make([]Attribute, len(attr))
	copy(out, attr)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Name > out[j].Name; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
