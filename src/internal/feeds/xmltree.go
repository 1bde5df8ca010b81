// Package feeds turns OPDS (Atom) and SRU/MODS documents into records.
// Elements are matched on local name only, so documents with unusual or
// missing namespace declarations parse the same way.
package feeds

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// node is a generic XML element.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

func parseTree(b []byte) (*node, error) {
	var root node
	dec := xml.NewDecoder(bytes.NewReader(b))
	dec.Strict = false
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

func (n *node) name() string { return n.XMLName.Local }

func (n *node) attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func (n *node) text() string { return strings.TrimSpace(n.Text) }

// children returns the direct children called local.
func (n *node) children(local string) []*node {
	var out []*node
	for i := range n.Children {
		if n.Children[i].name() == local {
			out = append(out, &n.Children[i])
		}
	}
	return out
}

// path follows a chain of direct children and returns every match.
func (n *node) path(locals ...string) []*node {
	cur := []*node{n}
	for _, l := range locals {
		var next []*node
		for _, c := range cur {
			next = append(next, c.children(l)...)
		}
		cur = next
	}
	return cur
}

// first returns the text of the first non-empty match of path.
func (n *node) first(locals ...string) string {
	for _, m := range n.path(locals...) {
		if t := m.text(); t != "" {
			return t
		}
	}
	return ""
}

// all returns the non-empty texts of every match of path.
func (n *node) all(locals ...string) []string {
	var out []string
	for _, m := range n.path(locals...) {
		if t := m.text(); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// descendants returns every element below n (n included) called local.
func (n *node) descendants(local string) []*node {
	var out []*node
	var walk func(*node)
	walk = func(c *node) {
		if c.name() == local {
			out = append(out, c)
			return
		}
		for i := range c.Children {
			walk(&c.Children[i])
		}
	}
	walk(n)
	return out
}
