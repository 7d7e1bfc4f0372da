// Package tree builds a folder view of object keys for display. Nodes live
// in a single slice and refer to each other by index.
package tree

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

const root = 0

// Node is a read-only view of one tree element handed to Walk callbacks.
type Node struct {
	Name  string
	Path  string
	Depth int
	Size  int64
	IsDir bool
	Last  bool // last child of its parent in render order
}

type node struct {
	name     string
	parent   int
	children map[string]int
	size     int64
	leaf     bool
}

type Tree struct {
	nodes []node
}

func New() *Tree {
	return &Tree{nodes: []node{{parent: -1, children: map[string]int{}}}}
}

// Insert adds the object at key, creating intermediate folders. Empty
// segments are ignored, so "a//b" and "/a/b" both land on a/b. Inserting an
// existing key updates its size.
func (t *Tree) Insert(key string, size int64) {
	segs := split(key)
	if len(segs) == 0 {
		return
	}

	cur := root
	for _, s := range segs {
		next, ok := t.nodes[cur].children[s]
		if !ok {
			next = len(t.nodes)
			t.nodes = append(t.nodes, node{name: s, parent: cur, children: map[string]int{}})
			t.nodes[cur].children[s] = next
		}
		cur = next
	}
	t.nodes[cur].leaf = true
	t.nodes[cur].size = size
}

// Len is the number of nodes below the root.
func (t *Tree) Len() int { return len(t.nodes) - 1 }

// Walk visits nodes depth-first, folders before files, each group sorted
// by name. Returning an error stops the walk.
func (t *Tree) Walk(fn func(Node) error) error {
	return t.walk(root, "", 0, fn)
}

func (t *Tree) walk(idx int, prefix string, depth int, fn func(Node) error) error {
	kids := t.sortedChildren(idx)
	for i, k := range kids {
		n := t.nodes[k]
		p := n.name
		if prefix != "" {
			p = prefix + "/" + n.name
		}
		isDir := len(n.children) > 0 || !n.leaf
		if err := fn(Node{
			Name:  n.name,
			Path:  p,
			Depth: depth,
			Size:  n.size,
			IsDir: isDir,
			Last:  i == len(kids)-1,
		}); err != nil {
			return err
		}
		if err := t.walk(k, p, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) sortedChildren(idx int) []int {
	kids := make([]int, 0, len(t.nodes[idx].children))
	for _, k := range t.nodes[idx].children {
		kids = append(kids, k)
	}
	sort.Slice(kids, func(i, j int) bool {
		a, b := t.nodes[kids[i]], t.nodes[kids[j]]
		ad, bd := len(a.children) > 0, len(b.children) > 0
		if ad != bd {
			return ad
		}
		return a.name < b.name
	})
	return kids
}

// Render writes the tree using box-drawing guides, one node per line.
// Folders end with "/"; files show their size when known.
func (t *Tree) Render(w io.Writer) error {
	// open[d] reports whether the ancestor at depth d still has siblings
	// below, which decides between "│   " and "    ".
	var open []bool
	return t.Walk(func(n Node) error {
		open = append(open[:n.Depth], !n.Last)

		var b strings.Builder
		for d := 0; d < n.Depth; d++ {
			if open[d] {
				b.WriteString("│   ")
			} else {
				b.WriteString("    ")
			}
		}
		if n.Last {
			b.WriteString("└── ")
		} else {
			b.WriteString("├── ")
		}
		b.WriteString(n.Name)
		switch {
		case n.IsDir:
			b.WriteString("/")
		case n.Size > 0:
			fmt.Fprintf(&b, " (%d bytes)", n.Size)
		}
		b.WriteString("\n")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func split(key string) []string {
	parts := strings.Split(key, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
