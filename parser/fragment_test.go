package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonasBSD/hiwave-windows-sub003/parser/spec"
)

// reserialize parents the parsed fragment nodes under a throwaway element so
// the serializer can render them.
func reserialize(nodes []*spec.Node) string {
	wrapper := spec.NewElement("div", spec.HTMLNamespace, nil)
	for _, n := range nodes {
		wrapper.AppendChild(n)
	}
	return SerializeFragment(wrapper)
}

func TestParseFragment(t *testing.T) {
	tests := []struct {
		name    string
		context string
		input   string
		want    string
	}{
		{
			name:    "div context",
			context: "div",
			input:   "<p>a<p>b",
			want:    "<p>a</p><p>b</p>",
		},
		{
			name:    "table context grows sections",
			context: "table",
			input:   "<tr><td>x",
			want:    "<tbody><tr><td>x</td></tr></tbody>",
		},
		{
			name:    "tbody context",
			context: "tbody",
			input:   "<tr><td>x",
			want:    "<tr><td>x</td></tr>",
		},
		{
			name:    "attribute values are escaped on output",
			context: "div",
			input:   `<a href="x&amp;y">z</a>`,
			want:    `<a href="x&amp;y">z</a>`,
		},
		{
			name:    "void elements have no end tag",
			context: "div",
			input:   "a<br>b<img src=i>",
			want:    `a<br>b<img src="i">`,
		},
		{
			name:    "formatting is repaired",
			context: "div",
			input:   "<b>a<i>b</b>c</i>",
			want:    "<b>a<i>b</i></b><i>c</i>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := ParseFragmentString(tt.context, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, reserialize(nodes))
		})
	}
}

func TestParseFragmentScriptContext(t *testing.T) {
	nodes, err := ParseFragmentString("script", "a < b && c")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, spec.TextNode, nodes[0].Type)
	assert.Equal(t, "a < b && c", nodes[0].Data)
}

func TestParseFragmentTitleContext(t *testing.T) {
	nodes, err := ParseFragmentString("title", "a<b")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, spec.TextNode, nodes[0].Type)
	assert.Equal(t, "a<b", nodes[0].Data)
}

func TestSerializeFragmentRawText(t *testing.T) {
	nodes, err := ParseFragmentString("div", "<script>a < b</script>")
	require.NoError(t, err)
	assert.Equal(t, "<script>a < b</script>", reserialize(nodes))
}

// One parse-serialize round must reach a fixed point: reparsing produced
// output changes nothing.
func TestSerializeParseFixedPoint(t *testing.T) {
	inputs := []string{
		"<p>a<p>b",
		"<b>a<i>b</b>c</i>",
		"<b>1<p>2</b>3</p>",
		"<table><td>x",
		"a<br>b",
		"<ul><li>a<li>b",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := ParseFragmentString("div", input)
			require.NoError(t, err)
			once := reserialize(first)

			second, err := ParseFragmentString("div", once)
			require.NoError(t, err)
			assert.Equal(t, once, reserialize(second))
		})
	}
}

func TestSerializeTextEscaping(t *testing.T) {
	wrapper := spec.NewElement("div", spec.HTMLNamespace, nil)
	wrapper.AppendChild(spec.NewText("a & <b>"))
	assert.Equal(t, "a &amp; &lt;b&gt;", SerializeFragment(wrapper))
}
