package memhost

import (
	"slices"

	"github.com/dshills/keysplit/internal/host"
)

// Rect is a screen area in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

type frameKind int

const (
	frameLeaf frameKind = iota
	frameRow            // children side by side
	frameCol            // children stacked
)

// frame is a node of the window layout tree. Leaves hold a window. fixedW and
// fixedH are requested extents, honoured when the parent lays out along that
// axis; zero means flexible.
type frame struct {
	kind     frameKind
	parent   *frame
	children []*frame
	win      *window
	fixedW   int
	fixedH   int
	rect     Rect
}

func kindFor(vertical bool) frameKind {
	if vertical {
		return frameRow
	}
	return frameCol
}

func (f *frame) indexOf(child *frame) int {
	return slices.Index(f.children, child)
}

// insertAt adds child to f at position i.
func (f *frame) insertAt(i int, child *frame) {
	child.parent = f
	f.children = slices.Insert(f.children, i, child)
}

// replaceChild swaps old for repl in f, or makes repl the root.
func (h *Host) replace(old, repl *frame) {
	parent := old.parent
	repl.parent = parent
	if parent == nil {
		h.root = repl
		return
	}
	parent.children[parent.indexOf(old)] = repl
}

// insert places leaf according to p. Editor-wide primitives attach to the
// edge of the whole layout; the others split ref.
func (h *Host) insert(leaf *frame, p host.Primitive, ref *frame) {
	want := kindFor(p.Vertical)

	target := ref
	if p.Modifier.EditorWide() {
		target = h.root
	}

	if p.Modifier.EditorWide() && target.kind == want {
		if p.Modifier.Before() {
			target.insertAt(0, leaf)
		} else {
			target.insertAt(len(target.children), leaf)
		}
		return
	}

	if parent := target.parent; parent != nil && parent.kind == want && !p.Modifier.EditorWide() {
		i := parent.indexOf(target)
		if !p.Modifier.Before() {
			i++
		}
		parent.insertAt(i, leaf)
		return
	}

	container := &frame{kind: want, fixedW: target.fixedW, fixedH: target.fixedH}
	h.replace(target, container)
	if container.parent == nil {
		container.fixedW, container.fixedH = 0, 0
	}
	container.insertAt(0, target)
	if p.Modifier.Before() {
		container.insertAt(0, leaf)
	} else {
		container.insertAt(1, leaf)
	}
}

// remove detaches leaf and collapses containers left with a single child.
func (h *Host) remove(leaf *frame) {
	parent := leaf.parent
	if parent == nil {
		return
	}
	parent.children = slices.Delete(parent.children, parent.indexOf(leaf), parent.indexOf(leaf)+1)
	leaf.parent = nil

	if len(parent.children) != 1 {
		return
	}
	only := parent.children[0]
	if parent.parent == nil {
		only.fixedW, only.fixedH = 0, 0
	} else {
		only.fixedW, only.fixedH = parent.fixedW, parent.fixedH
	}
	h.replace(parent, only)

	// A child of the same kind as its new parent merges into it.
	if gp := only.parent; gp != nil && only.kind != frameLeaf && only.kind == gp.kind {
		i := gp.indexOf(only)
		gp.children = slices.Delete(gp.children, i, i+1)
		for j, c := range only.children {
			gp.insertAt(i+j, c)
		}
	}
}

// layout recomputes every rectangle from the current editor extent.
func (h *Host) layout() {
	columns, lines := h.EditorSize()
	place(h.root, Rect{Width: columns, Height: lines})
}

func place(f *frame, r Rect) {
	f.rect = r
	if f.kind == frameLeaf {
		return
	}

	total := r.Width
	if f.kind == frameCol {
		total = r.Height
	}
	wants := make([]int, len(f.children))
	for i, c := range f.children {
		if f.kind == frameRow {
			wants[i] = c.fixedW
		} else {
			wants[i] = c.fixedH
		}
	}

	offset := 0
	for i, size := range distribute(total, wants) {
		child := r
		if f.kind == frameRow {
			child.X = r.X + offset
			child.Width = size
		} else {
			child.Y = r.Y + offset
			child.Height = size
		}
		place(f.children[i], child)
		offset += size
	}
}

// distribute splits total among children. Fixed requests are honoured in
// order while leaving at least one cell for every other child; flexible
// children share what is left, the last one taking the remainder.
func distribute(total int, wants []int) []int {
	n := len(wants)
	out := make([]int, n)
	remaining := total
	unassigned := n

	var flex []int
	for i, w := range wants {
		if w <= 0 {
			flex = append(flex, i)
			continue
		}
		limit := remaining - (unassigned - 1)
		out[i] = max(1, min(w, limit))
		remaining -= out[i]
		unassigned--
	}

	if len(flex) == 0 {
		out[n-1] = max(1, out[n-1]+remaining)
		return out
	}

	share := remaining / len(flex)
	for k, i := range flex {
		if k == len(flex)-1 {
			out[i] = max(1, remaining-share*(len(flex)-1))
			break
		}
		out[i] = max(1, share)
	}
	return out
}
