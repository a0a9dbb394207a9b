package parser

import "github.com/yonasBSD/hiwave-windows-sub003/parser/spec"

func (c *TreeConstructor) cloneForInsertion(n *spec.Node) *spec.Node {
	attrs := append([]spec.Attribute(nil), n.Attr...)
	return c.sink.CreateElement(n.Data, n.Namespace, attrs)
}

// pushActiveFormattingElement appends elem to the list of active formatting
// elements, first dropping the earliest of any three identical entries since
// the last marker (the "Noah's Ark" clause).
func (c *TreeConstructor) pushActiveFormattingElement(elem *spec.Node) {
	identical := 0
	for i := len(c.activeFormattingElements) - 1; i >= 0; i-- {
		entry := c.activeFormattingElements[i]
		if entry.Type == spec.ScopeMarkerNode {
			break
		}
		if !formattingElementsEqual(entry, elem) {
			continue
		}
		identical++
		if identical >= 3 {
			c.activeFormattingElements.Remove(entry)
			break
		}
	}
	c.activeFormattingElements.Push(elem)
}

// formattingElementsEqual compares name, namespace and the full attribute
// set. Attribute order does not matter.
func formattingElementsEqual(a, b *spec.Node) bool {
	if a.Data != b.Data || a.Namespace != b.Namespace || len(a.Attr) != len(b.Attr) {
		return false
	}
	for _, x := range a.Attr {
		matched := false
		for _, y := range b.Attr {
			if x.Name == y.Name && x.Namespace == y.Namespace && x.Value == y.Value {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (c *TreeConstructor) insertMarker() {
	c.activeFormattingElements.Push(spec.ScopeMarker)
}

func (c *TreeConstructor) clearActiveFormattingElementsToLastMarker() {
	for {
		entry := c.activeFormattingElements.Pop()
		if entry == nil || entry.Type == spec.ScopeMarkerNode {
			return
		}
	}
}

// reconstructActiveFormattingElements reopens formatting elements that were
// implicitly closed, cloning each entry between the last marker (or open
// element) and the end of the list.
func (c *TreeConstructor) reconstructActiveFormattingElements() {
	n := c.activeFormattingElements.Top()
	if n == nil {
		return
	}
	if n.Type == spec.ScopeMarkerNode || c.openElements.Index(n) != -1 {
		return
	}
	i := len(c.activeFormattingElements) - 1
	for n.Type != spec.ScopeMarkerNode && c.openElements.Index(n) == -1 {
		if i == 0 {
			i = -1
			break
		}
		i--
		n = c.activeFormattingElements[i]
	}
	for {
		i++
		clone := c.cloneForInsertion(c.activeFormattingElements[i])
		c.insertNode(clone)
		c.openElements.Push(clone)
		c.activeFormattingElements[i] = clone
		if i == len(c.activeFormattingElements)-1 {
			break
		}
	}
}

// adoptionAgency runs the adoption agency algorithm for an end tag whose
// name is t.TagName. It returns false when the tag should instead be handled
// by the generic end tag steps.
func (c *TreeConstructor) adoptionAgency(t *Token) (handled bool, err parseError) {
	subject := t.TagName

	if current := c.currentNode(); current != nil &&
		current.Namespace == spec.HTMLNamespace && current.Data == subject &&
		c.activeFormattingElements.Index(current) == -1 {
		c.openElements.Pop()
		return true, noError
	}

	for i := 0; i < 8; i++ {
		var formattingElement *spec.Node
		for j := len(c.activeFormattingElements) - 1; j >= 0; j-- {
			if c.activeFormattingElements[j].Type == spec.ScopeMarkerNode {
				break
			}
			if c.activeFormattingElements[j].Data == subject {
				formattingElement = c.activeFormattingElements[j]
				break
			}
		}
		if formattingElement == nil {
			return false, err
		}

		feIndex := c.openElements.Index(formattingElement)
		if feIndex == -1 {
			c.activeFormattingElements.Remove(formattingElement)
			return true, "adoption agency: formatting element not open"
		}
		if !c.elementInScope(defaultScope, subject) {
			return true, "adoption agency: formatting element not in scope"
		}
		if formattingElement != c.currentNode() {
			err = "adoption agency: formatting element is not the current node"
		}

		var furthestBlock *spec.Node
		for _, e := range c.openElements[feIndex:] {
			if isSpecialElement(e) {
				furthestBlock = e
				break
			}
		}
		if furthestBlock == nil {
			e := c.openElements.Pop()
			for e != formattingElement {
				e = c.openElements.Pop()
			}
			c.activeFormattingElements.Remove(e)
			return true, err
		}

		commonAncestor := c.openElements[0]
		if feIndex > 0 {
			commonAncestor = c.openElements[feIndex-1]
		}
		bookmark := c.activeFormattingElements.Index(formattingElement)

		// inner loop
		lastNode := furthestBlock
		node := furthestBlock
		x := c.openElements.Index(node)
		j := 0
		for {
			j++
			x--
			node = c.openElements[x]
			if node == formattingElement {
				break
			}
			if ni := c.activeFormattingElements.Index(node); j > 3 && ni > -1 {
				c.activeFormattingElements.Remove(node)
				if ni <= bookmark {
					bookmark--
				}
				c.openElements.Remove(node)
				continue
			}
			if c.activeFormattingElements.Index(node) == -1 {
				c.openElements.Remove(node)
				continue
			}
			clone := c.cloneForInsertion(node)
			c.activeFormattingElements[c.activeFormattingElements.Index(node)] = clone
			c.openElements[c.openElements.Index(node)] = clone
			node = clone
			if lastNode == furthestBlock {
				bookmark = c.activeFormattingElements.Index(node) + 1
			}
			c.sink.Detach(lastNode)
			c.sink.InsertBefore(node, lastNode, nil)
			lastNode = node
		}

		// reparent lastNode under the common ancestor, fostering it out
		// of misnested table nodes
		c.sink.Detach(lastNode)
		switch commonAncestor.Data {
		case "table", "tbody", "tfoot", "thead", "tr":
			loc := c.insertionLocation(commonAncestor, true)
			c.sink.InsertBefore(loc.parent, lastNode, loc.before)
		default:
			c.sink.InsertBefore(commonAncestor, lastNode, nil)
		}

		clone := c.cloneForInsertion(formattingElement)
		c.sink.ReparentChildren(furthestBlock, clone)
		c.sink.InsertBefore(furthestBlock, clone, nil)

		if oldLoc := c.activeFormattingElements.Index(formattingElement); oldLoc != -1 && oldLoc < bookmark {
			bookmark--
		}
		c.activeFormattingElements.Remove(formattingElement)
		c.activeFormattingElements.Insert(bookmark, clone)

		c.openElements.Remove(formattingElement)
		c.openElements.Insert(c.openElements.Index(furthestBlock)+1, clone)
	}

	return true, err
}
