// Package parser turns a stream of HTML markup into a document tree. It
// follows the WHATWG parsing algorithm: a state-machine tokenizer feeds a
// tree construction stage which drives a TreeSink, so any error-riddled
// input still produces a tree.
package parser

import (
	"io"
	"strings"

	"github.com/yonasBSD/hiwave-windows-sub003/parser/spec"
)

// Parser couples a tokenizer to a tree constructor and pumps tokens between
// them until the input is exhausted.
type Parser struct {
	tokenizer   *Tokenizer
	constructor *TreeConstructor
}

// NewParser prepares a document parse of r feeding sink.
func NewParser(r io.Reader, sink TreeSink) *Parser {
	return &Parser{
		tokenizer:   NewTokenizer(r),
		constructor: NewTreeConstructor(sink),
	}
}

// SetScriptingEnabled controls whether noscript content is treated as raw
// text. Call it before Run.
func (p *Parser) SetScriptingEnabled(enabled bool) {
	p.constructor.SetScriptingEnabled(enabled)
}

// Run drives the parse to completion. The only errors are stream-level ones;
// malformed markup never fails, it is corrected into the tree.
func (p *Parser) Run() error {
	progress := p.constructor.Progress()
	for p.tokenizer.Next() {
		tok, err := p.tokenizer.Token(&progress)
		if err != nil {
			return err
		}
		p.constructor.ProcessToken(tok)
		if p.constructor.Done() {
			break
		}
		progress = p.constructor.Progress()
	}
	return nil
}

// Parse reads an entire HTML document from r and returns its document node.
func Parse(r io.Reader) (*spec.Node, error) {
	sink := newDefaultSink()
	if err := NewParser(r, sink).Run(); err != nil {
		return nil, err
	}
	return sink.Document(), nil
}

// ParseWithSink parses a document from r into a caller-provided sink.
func ParseWithSink(r io.Reader, sink TreeSink) error {
	return NewParser(r, sink).Run()
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*spec.Node, error) {
	return Parse(strings.NewReader(s))
}
