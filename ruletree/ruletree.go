// Package ruletree groups flat dotted field paths into a nested rule tree.
//
// A path segment equal to "*" marks its parent as an array whose single
// wildcard child describes every element:
//
//	items          -> array node
//	items.*        -> element of items
//	items.*.name   -> field "name" of every element
//
// Grouping always merges into existing nodes, so the resulting tree does not
// depend on the order in which paths are added.
package ruletree

import (
	"sort"
	"strings"

	"github.com/erraggy/rulezod/rules"
)

// Wildcard is the path segment that denotes every element of an array.
const Wildcard = "*"

// Entry is one flat path with its normalized rule string.
type Entry struct {
	Path  string
	Rules string
}

// Node is one segment of a rule tree.
type Node struct {
	// Name is the path segment of this node ("*" for wildcard children).
	Name string
	// Path is the full dotted path from the root.
	Path string
	// Rules is the node's own normalized rule string, nil when the path only
	// appears as a prefix of other paths.
	Rules *string
	// Wildcard is the element node of an array.
	Wildcard *Node
	// Children holds named child nodes.
	Children map[string]*Node
	// Order lists child names in first-seen order.
	Order []string
}

// IsArray reports whether the node has a wildcard child.
func (n *Node) IsArray() bool { return n.Wildcard != nil }

// IsObject reports whether the node has named children and no wildcard.
func (n *Node) IsObject() bool { return n.Wildcard == nil && len(n.Children) > 0 }

// IsLeaf reports whether the node has neither wildcard nor named children.
func (n *Node) IsLeaf() bool { return n.Wildcard == nil && len(n.Children) == 0 }

// IsWildcard reports whether this node is the element node of an array.
func (n *Node) IsWildcard() bool { return n.Name == Wildcard }

// RuleString returns the node's rules or "" when it has none.
func (n *Node) RuleString() string {
	if n.Rules == nil {
		return ""
	}
	return *n.Rules
}

// Child returns the named child, or nil.
func (n *Node) Child(name string) *Node {
	if n.Children == nil {
		return nil
	}
	return n.Children[name]
}

// ChildList returns the named children in order.
func (n *Node) ChildList() []*Node {
	out := make([]*Node, 0, len(n.Order))
	for _, name := range n.Order {
		out = append(out, n.Children[name])
	}
	return out
}

// Group builds a tree from flat entries. The returned root has no rules and
// holds the top-level fields as children.
func Group(entries []Entry) *Node {
	root := &Node{}
	for _, e := range entries {
		root.insert(e.Path, e.Rules)
	}
	return root
}

// GroupMap builds a tree from an unordered map. Top-level order follows the
// sorted paths.
func GroupMap(m map[string]string) *Node {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Path: k, Rules: m[k]})
	}
	return Group(entries)
}

func (n *Node) insert(path, ruleString string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	cur := n
	for _, seg := range strings.Split(path, ".") {
		cur = cur.child(seg)
	}
	if cur.Rules == nil {
		s := rules.Normalize(ruleString)
		cur.Rules = &s
		return
	}
	merged := rules.Merge(*cur.Rules, ruleString)
	cur.Rules = &merged
}

// child returns the child for seg, creating it when missing.
func (n *Node) child(seg string) *Node {
	if seg == Wildcard {
		if n.Wildcard == nil {
			n.Wildcard = &Node{Name: Wildcard, Path: joinPath(n.Path, Wildcard)}
		}
		return n.Wildcard
	}
	if c, ok := n.Children[seg]; ok {
		return c
	}
	if n.Children == nil {
		n.Children = make(map[string]*Node)
	}
	c := &Node{Name: seg, Path: joinPath(n.Path, seg)}
	n.Children[seg] = c
	n.Order = append(n.Order, seg)
	return c
}

// Flatten returns every node with its own rules as flat entries in
// depth-first order.
func (n *Node) Flatten() []Entry {
	var out []Entry
	var walk func(*Node)
	walk = func(cur *Node) {
		if cur.Rules != nil && cur.Path != "" {
			out = append(out, Entry{Path: cur.Path, Rules: *cur.Rules})
		}
		for _, c := range cur.ChildList() {
			walk(c)
		}
		if cur.Wildcard != nil {
			walk(cur.Wildcard)
		}
	}
	walk(n)
	return out
}

// HasWildcard reports whether a dotted path contains a wildcard segment.
func HasWildcard(path string) bool {
	for _, seg := range strings.Split(path, ".") {
		if seg == Wildcard {
			return true
		}
	}
	return false
}

func joinPath(parent, seg string) string {
	if parent == "" {
		return seg
	}
	return parent + "." + seg
}
