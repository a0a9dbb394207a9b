package spec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(nodes []*Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Data)
	}
	return out
}

func TestNodeLinkage(t *testing.T) {
	parent := NewElement("ul", HTMLNamespace, nil)
	a := NewElement("li", HTMLNamespace, nil)
	b := NewElement("li", HTMLNamespace, nil)
	c := NewElement("li", HTMLNamespace, nil)
	a.Data, b.Data, c.Data = "a", "b", "c"

	parent.AppendChild(a)
	parent.AppendChild(c)
	parent.InsertBefore(b, c)

	if diff := cmp.Diff([]string{"a", "b", "c"}, names(parent.Children())); diff != "" {
		t.Fatalf("child order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, parent, b.Parent)
	assert.Equal(t, a, b.PrevSibling)
	assert.Equal(t, c, b.NextSibling)

	parent.RemoveChild(b)
	if diff := cmp.Diff([]string{"a", "c"}, names(parent.Children())); diff != "" {
		t.Fatalf("child order after removal (-want +got):\n%s", diff)
	}
	assert.Nil(t, b.Parent)
	assert.Nil(t, b.PrevSibling)
	assert.Nil(t, b.NextSibling)
	assert.Equal(t, c, a.NextSibling)
}

func TestAppendChildPanicsOnAttached(t *testing.T) {
	p1 := NewElement("div", HTMLNamespace, nil)
	p2 := NewElement("div", HTMLNamespace, nil)
	child := NewElement("span", HTMLNamespace, nil)
	p1.AppendChild(child)
	assert.Panics(t, func() { p2.AppendChild(child) })
}

func TestDetach(t *testing.T) {
	parent := NewElement("div", HTMLNamespace, nil)
	child := NewElement("span", HTMLNamespace, nil)
	parent.AppendChild(child)
	child.Detach()
	assert.Nil(t, child.Parent)
	assert.Empty(t, parent.Children())

	// detaching an orphan is a no-op
	child.Detach()
}

func TestReparentChildren(t *testing.T) {
	src := NewElement("div", HTMLNamespace, nil)
	dst := NewElement("div", HTMLNamespace, nil)
	src.AppendChild(NewText("a"))
	src.AppendChild(NewText("b"))

	ReparentChildren(dst, src)

	require.Empty(t, src.Children())
	if diff := cmp.Diff([]string{"a", "b"}, names(dst.Children())); diff != "" {
		t.Fatalf("reparented order mismatch (-want +got):\n%s", diff)
	}
}

func TestClone(t *testing.T) {
	orig := NewElement("a", HTMLNamespace, []Attribute{{Name: "href", Value: "x"}})
	parent := NewElement("div", HTMLNamespace, nil)
	parent.AppendChild(orig)
	orig.AppendChild(NewText("inner"))

	clone := orig.Clone()
	assert.Equal(t, orig.Data, clone.Data)
	if diff := cmp.Diff(orig.Attr, clone.Attr); diff != "" {
		t.Fatalf("clone attrs mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, clone.Parent)
	assert.Nil(t, clone.FirstChild)

	// mutating the clone's attributes leaves the original alone
	clone.Attr[0].Value = "y"
	assert.Equal(t, "x", orig.Attr[0].Value)
}

func TestGetAttr(t *testing.T) {
	n := NewElement("a", HTMLNamespace, []Attribute{{Name: "href", Value: "x"}})
	v, ok := n.GetAttr("href")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
	_, ok = n.GetAttr("missing")
	assert.False(t, ok)
}

func TestStringDump(t *testing.T) {
	doc := NewDocument()
	html := NewElement("html", HTMLNamespace, nil)
	doc.AppendChild(html)
	body := NewElement("body", HTMLNamespace, []Attribute{{Name: "class", Value: "x"}})
	html.AppendChild(body)
	body.AppendChild(NewText("hi"))
	body.AppendChild(NewComment("c"))

	want := `#document
| <html>
|   <body>
|     class="x"
|     "hi"
|     <!-- c -->`
	if diff := cmp.Diff(want, doc.String()); diff != "" {
		t.Fatalf("dump mismatch (-want +got):\n%s", diff)
	}
}

func TestNodeListOperations(t *testing.T) {
	var list NodeList
	a := NewElement("a", HTMLNamespace, nil)
	b := NewElement("b", HTMLNamespace, nil)
	c := NewElement("c", HTMLNamespace, nil)

	list.Push(a)
	list.Push(c)
	list.Insert(1, b)

	assert.Equal(t, 1, list.Index(b))
	assert.Equal(t, c, list.Top())
	assert.True(t, list.Contains("b"))
	assert.False(t, list.Contains("z"))

	list.Remove(b)
	assert.Equal(t, -1, list.Index(b))
	assert.Equal(t, c, list.Pop())
	assert.Equal(t, a, list.Pop())
	assert.Nil(t, list.Pop())
}
