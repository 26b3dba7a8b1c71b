// Package commenttree holds the shape of a comment thread in an arena:
// nodes are stored once and linked by index, so walking a thread never
// follows pointers between documents.
package commenttree

import "go.mongodb.org/mongo-driver/bson/primitive"

// Node is the minimal projection of a comment needed to rebuild its thread
type Node struct {
	ID     primitive.ObjectID  `bson:"_id"`
	Parent *primitive.ObjectID `bson:"parent,omitempty"`
}

// Tree is built once per operation and never mutated afterwards
type Tree struct {
	index    map[primitive.ObjectID]int
	ids      []primitive.ObjectID
	parent   []int // -1 for roots
	children [][]int
}

// Build links the nodes; parents missing from the set (orphans) and self loops are treated as roots.
// Children keep the order of the input.
func Build(nodes []Node) *Tree {
	t := &Tree{
		index:    make(map[primitive.ObjectID]int, len(nodes)),
		ids:      make([]primitive.ObjectID, 0, len(nodes)),
		parent:   make([]int, 0, len(nodes)),
		children: make([][]int, 0, len(nodes)),
	}

	for _, n := range nodes {
		if _, dup := t.index[n.ID]; dup {
			continue
		}
		t.index[n.ID] = len(t.ids)
		t.ids = append(t.ids, n.ID)
		t.parent = append(t.parent, -1)
		t.children = append(t.children, nil)
	}

	for _, n := range nodes {
		if n.Parent == nil || *n.Parent == n.ID {
			continue
		}
		child := t.index[n.ID]
		if t.parent[child] != -1 {
			continue
		}
		p, ok := t.index[*n.Parent]
		if !ok {
			continue
		}
		t.parent[child] = p
		t.children[p] = append(t.children[p], child)
	}

	return t
}

// Size returns the number of distinct nodes
func (t *Tree) Size() int {
	return len(t.ids)
}

// Contains reports whether id is part of the tree
func (t *Tree) Contains(id primitive.ObjectID) bool {
	_, ok := t.index[id]
	return ok
}

// Children returns the direct replies of id
func (t *Tree) Children(id primitive.ObjectID) []primitive.ObjectID {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	res := make([]primitive.ObjectID, 0, len(t.children[i]))
	for _, c := range t.children[i] {
		res = append(res, t.ids[c])
	}
	return res
}

// Roots returns the top-level nodes (including orphans) in input order
func (t *Tree) Roots() []primitive.ObjectID {
	var res []primitive.ObjectID
	for i, p := range t.parent {
		if p == -1 {
			res = append(res, t.ids[i])
		}
	}
	return res
}

// Depth returns 0 for roots, -1 for unknown ids
func (t *Tree) Depth(id primitive.ObjectID) int {
	i, ok := t.index[id]
	if !ok {
		return -1
	}
	d := 0
	seen := map[int]bool{i: true}
	for t.parent[i] != -1 {
		i = t.parent[i]
		if seen[i] {
			break
		}
		seen[i] = true
		d++
	}
	return d
}

// Descendants returns id and everything below it, depth first, parents before children.
// Unknown ids yield an empty result.
func (t *Tree) Descendants(id primitive.ObjectID) []primitive.ObjectID {
	start, ok := t.index[id]
	if !ok {
		return nil
	}

	var res []primitive.ObjectID
	visited := make([]bool, len(t.ids))
	stack := []int{start}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n] {
			continue
		}
		visited[n] = true
		res = append(res, t.ids[n])

		// push in reverse so the first reply is visited first
		kids := t.children[n]
		for i := len(kids) - 1; i >= 0; i-- {
			if !visited[kids[i]] {
				stack = append(stack, kids[i])
			}
		}
	}

	return res
}
