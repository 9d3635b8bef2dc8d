/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package event

// rbTree is a left-leaning-free, classic red-black tree keyed by (deadline,
// seq): deadline orders timers, seq breaks ties in insertion order so two
// timers firing at the same nanosecond still resolve deterministically.
// This is the Go rendering of the intrusive rbtree the source uses to back
// every timer-driven subsystem (event timers, but also generic sorted
// structures elsewhere in the source).
type rbColor uint8

const (
	red rbColor = iota
	black
)

type rbNode struct {
	deadline    int64
	seq         uint64
	color       rbColor
	left, right *rbNode
	parent      *rbNode
	owner       *Event
}

type rbTree struct {
	root *rbNode
	size int
}

func (t *rbTree) min() *rbNode {
	n := t.root
	if n == nil {
		return nil
	}
	for n.left != nil {
		n = n.left
	}
	return n
}

func less(a, b *rbNode) bool {
	if a.deadline != b.deadline {
		return a.deadline < b.deadline
	}
	return a.seq < b.seq
}

func (t *rbTree) insert(n *rbNode) {
	var parent *rbNode
	cur := t.root

	for cur != nil {
		parent = cur
		if less(n, cur) {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}

	n.parent = parent
	n.color = red
	n.left, n.right = nil, nil

	if parent == nil {
		t.root = n
	} else if less(n, parent) {
		parent.left = n
	} else {
		parent.right = n
	}

	t.size++
	t.insertFixup(n)
}

func (t *rbTree) rotateLeft(x *rbNode) {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == nil {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *rbTree) rotateRight(x *rbNode) {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	y.parent = x.parent
	if x.parent == nil {
		t.root = y
	} else if x == x.parent.right {
		x.parent.right = y
	} else {
		x.parent.left = y
	}
	y.right = x
	x.parent = y
}

func colorOf(n *rbNode) rbColor {
	if n == nil {
		return black
	}
	return n.color
}

func (t *rbTree) insertFixup(z *rbNode) {
	for colorOf(z.parent) == red {
		gp := z.parent.parent
		if gp == nil {
			break
		}
		if z.parent == gp.left {
			y := gp.right
			if colorOf(y) == red {
				z.parent.color = black
				y.color = black
				gp.color = red
				z = gp
				continue
			}
			if z == z.parent.right {
				z = z.parent
				t.rotateLeft(z)
			}
			z.parent.color = black
			gp.color = red
			t.rotateRight(gp)
		} else {
			y := gp.left
			if colorOf(y) == red {
				z.parent.color = black
				y.color = black
				gp.color = red
				z = gp
				continue
			}
			if z == z.parent.left {
				z = z.parent
				t.rotateRight(z)
			}
			z.parent.color = black
			gp.color = red
			t.rotateLeft(gp)
		}
	}
	t.root.color = black
}

func (t *rbTree) transplant(u, v *rbNode) {
	if u.parent == nil {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	if v != nil {
		v.parent = u.parent
	}
}

func (t *rbTree) subtreeMin(n *rbNode) *rbNode {
	for n.left != nil {
		n = n.left
	}
	return n
}

func (t *rbTree) remove(z *rbNode) {
	y := z
	yOrig := colorOf(y)
	var x, xParent *rbNode

	if z.left == nil {
		x = z.right
		xParent = z.parent
		t.transplant(z, z.right)
	} else if z.right == nil {
		x = z.left
		xParent = z.parent
		t.transplant(z, z.left)
	} else {
		y = t.subtreeMin(z.right)
		yOrig = colorOf(y)
		x = y.right
		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	t.size--

	if yOrig == black {
		t.removeFixup(x, xParent)
	}
}

func (t *rbTree) removeFixup(x, parent *rbNode) {
	for x != t.root && colorOf(x) == black {
		if parent == nil {
			break
		}
		if x == parent.left {
			w := parent.right
			if colorOf(w) == red {
				w.color = black
				parent.color = red
				t.rotateLeft(parent)
				w = parent.right
			}
			if w == nil {
				x = parent
				parent = x.parent
				continue
			}
			if colorOf(w.left) == black && colorOf(w.right) == black {
				w.color = red
				x = parent
				parent = x.parent
				continue
			}
			if colorOf(w.right) == black {
				if w.left != nil {
					w.left.color = black
				}
				w.color = red
				t.rotateRight(w)
				w = parent.right
			}
			w.color = parent.color
			parent.color = black
			if w.right != nil {
				w.right.color = black
			}
			t.rotateLeft(parent)
			x = t.root
		} else {
			w := parent.left
			if colorOf(w) == red {
				w.color = black
				parent.color = red
				t.rotateRight(parent)
				w = parent.left
			}
			if w == nil {
				x = parent
				parent = x.parent
				continue
			}
			if colorOf(w.right) == black && colorOf(w.left) == black {
				w.color = red
				x = parent
				parent = x.parent
				continue
			}
			if colorOf(w.left) == black {
				if w.right != nil {
					w.right.color = black
				}
				w.color = red
				t.rotateLeft(w)
				w = parent.left
			}
			w.color = parent.color
			parent.color = black
			if w.left != nil {
				w.left.color = black
			}
			t.rotateRight(parent)
			x = t.root
		}
	}
	if x != nil {
		x.color = black
	}
}
