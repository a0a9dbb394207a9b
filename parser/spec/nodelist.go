package spec

// NodeList is an ordered list of nodes. The parser uses it for both the stack
// of open elements and the list of active formatting elements.
type NodeList []*Node

func (l *NodeList) Push(n *Node) {
	*l = append(*l, n)
}

// Pop removes and returns the last node. It returns nil on an empty list.
func (l *NodeList) Pop() *Node {
	i := len(*l)
	if i == 0 {
		return nil
	}
	n := (*l)[i-1]
	(*l)[i-1] = nil
	*l = (*l)[:i-1]
	return n
}

// Top returns the most recently pushed node, or nil if the list is empty.
func (l NodeList) Top() *Node {
	if i := len(l); i > 0 {
		return l[i-1]
	}
	return nil
}

// Index returns the index of the topmost occurrence of n, or -1.
func (l NodeList) Index(n *Node) int {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i] == n {
			return i
		}
	}
	return -1
}

// Contains reports whether an HTML element named name is in the list.
func (l NodeList) Contains(name string) bool {
	for _, n := range l {
		if n.IsElement(name) {
			return true
		}
	}
	return false
}

// Insert places n at index i, shifting later entries up.
func (l *NodeList) Insert(i int, n *Node) {
	*l = append(*l, nil)
	copy((*l)[i+1:], (*l)[i:])
	(*l)[i] = n
}

// Remove deletes the topmost occurrence of n. It is a no-op if n is absent.
func (l *NodeList) Remove(n *Node) {
	i := l.Index(n)
	if i == -1 {
		return
	}
	copy((*l)[i:], (*l)[i+1:])
	j := len(*l) - 1
	(*l)[j] = nil
	*l = (*l)[:j]
}
