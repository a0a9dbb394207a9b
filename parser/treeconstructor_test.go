package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDump(t *testing.T, input string) string {
	t.Helper()
	doc, err := ParseString(input)
	require.NoError(t, err)
	return doc.String()
}

func TestTreeConstruction(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "well formed document",
			input: "<!DOCTYPE html><p>hi",
			want: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
|     <p>
|       "hi"`,
		},
		{
			name:  "bare text grows full scaffolding",
			input: "x",
			want: `#document
| <html>
|   <head>
|   <body>
|     "x"`,
		},
		{
			name:  "html attributes survive implied tags",
			input: "<html lang=en><body>",
			want: `#document
| <html>
|   lang="en"
|   <head>
|   <body>`,
		},
		{
			name:  "adoption agency splits formatting across blocks",
			input: "<b>1<p>2</b>3</p>",
			want: `#document
| <html>
|   <head>
|   <body>
|     <b>
|       "1"
|     <p>
|       <b>
|         "2"
|       "3"`,
		},
		{
			name:  "formatting elements reconstruct in the next block",
			input: "<p><b>1</p><p>2",
			want: `#document
| <html>
|   <head>
|   <body>
|     <p>
|       <b>
|         "1"
|     <p>
|       <b>
|         "2"`,
		},
		{
			name:  "table text is foster parented",
			input: "<table>x</table>",
			want: `#document
| <html>
|   <head>
|   <body>
|     "x"
|     <table>`,
		},
		{
			name:  "cell grows missing table sections",
			input: "<table><td>x",
			want: `#document
| <html>
|   <head>
|   <body>
|     <table>
|       <tbody>
|         <tr>
|           <td>
|             "x"`,
		},
		{
			name:  "open heading closes on the next heading",
			input: "<h1>a<h2>b",
			want: `#document
| <html>
|   <head>
|   <body>
|     <h1>
|       "a"
|     <h2>
|       "b"`,
		},
		{
			name:  "options close each other",
			input: "<select><option>a<option>b",
			want: `#document
| <html>
|   <head>
|   <body>
|     <select>
|       <option>
|         "a"
|       <option>
|         "b"`,
		},
		{
			name:  "svg subtree keeps its namespace",
			input: "<svg><circle/></svg>x",
			want: `#document
| <html>
|   <head>
|   <body>
|     <svg svg>
|       <svg circle>
|     "x"`,
		},
		{
			name:  "title content is raw text",
			input: "<title>a<b</title>",
			want: `#document
| <html>
|   <head>
|     <title>
|       "a<b"
|   <body>`,
		},
		{
			name:  "textarea drops its leading newline",
			input: "<textarea>\nabc</textarea>",
			want: `#document
| <html>
|   <head>
|   <body>
|     <textarea>
|       "abc"`,
		},
		{
			name:  "template children parse into contents",
			input: "<template>x</template>",
			want: `#document
| <html>
|   <head>
|     <template>
|       content
|         "x"
|   <body>`,
		},
		{
			name:  "comment after the document lands on the document",
			input: "<!DOCTYPE html><html><body></body></html><!--x-->",
			want: `#document
| <!DOCTYPE html>
| <html>
|   <head>
|   <body>
| <!-- x -->`,
		},
		{
			name:  "end p without open p implies an empty one",
			input: "x</p></div>y",
			want: `#document
| <html>
|   <head>
|   <body>
|     "x"
|     <p>
|     "y"`,
		},
		{
			name:  "list items close their predecessors",
			input: "<ul><li>a<li>b</ul>",
			want: `#document
| <html>
|   <head>
|   <body>
|     <ul>
|       <li>
|         "a"
|       <li>
|         "b"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDump(t, tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// Mangled markup must always produce a tree, never an error or a panic.
func TestTreeConstructionTotality(t *testing.T) {
	inputs := []string{
		"",
		"<",
		"</",
		"<!",
		"<table><table><table>",
		"</b></b></b>",
		"<b><i><u></b></i></u>",
		"<select><table><tr>",
		"<math><mi><svg><p>",
		"<template></template></template>",
		"<a><a><a><a><a>",
		strings.Repeat("<div>", 50) + "x",
		"<!doctype html><frameset><frame></frameset><noframes>a",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			doc, err := ParseString(input)
			require.NoError(t, err)
			require.NotNil(t, doc)
			assert.True(t, strings.HasPrefix(doc.String(), "#document"))
		})
	}
}

func TestDeeplyNestedFormatting(t *testing.T) {
	doc, err := ParseString("<b><b><b><b>x</b></b>y")
	require.NoError(t, err)
	assert.Contains(t, doc.String(), `"x"`)
	assert.Contains(t, doc.String(), `"y"`)
}

func TestTemplateEndClosesScopeBoundaryElements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "open object does not trap the template",
			input: "<template><object></template>x",
			want: `#document
| <html>
|   <head>
|     <template>
|       content
|         <object>
|   <body>
|     "x"`,
		},
		{
			name:  "end of file pops through an open cell",
			input: "<template><td>",
			want: `#document
| <html>
|   <head>
|     <template>
|       content
|         <td>
|   <body>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDump(t, tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnterminatedScriptMarkedStarted(t *testing.T) {
	doc, err := ParseString("<script>var x = 1")
	require.NoError(t, err)
	script := doc.FirstChild.FirstChild.FirstChild
	require.NotNil(t, script)
	require.Equal(t, "script", script.Data)
	assert.True(t, script.ScriptAlreadyStarted)
}

func TestScriptingEnabledNoscript(t *testing.T) {
	parse := func(scripting bool) string {
		sink := newDefaultSink()
		p := NewParser(strings.NewReader("<noscript><p>x</p></noscript>"), sink)
		p.SetScriptingEnabled(scripting)
		require.NoError(t, p.Run())
		return sink.Document().String()
	}
	assert.Contains(t, parse(true), `"<p>x</p>"`)
	assert.Contains(t, parse(false), "<p>")
	assert.NotContains(t, parse(false), `"<p>x</p>"`)
}
