package engine

import (
	"io"

	"github.com/npillmayer/texparse/token"
)

// Cursor is a source of objects which may be read and pushed back to.
// Pop and Peek return io.EOF when the cursor is exhausted.
//
// The parser's input stack is a Cursor, as are ListCursors created to
// process or expand a list in isolation.
type Cursor interface {
	Pop() (token.Object, error)
	Peek() (token.Object, error)
	// Push inserts objects in front of the remaining input, objs[0] being
	// the next one to be read.
	Push(objs ...token.Object)
}

// ListCursor reads from a list. When the list is exhausted, reading
// continues from the fallback cursor, if there is one.
type ListCursor struct {
	stack    []token.Object // in reverse order
	fallback Cursor
}

// NewListCursor creates a cursor over l. The list itself is not modified.
func NewListCursor(l token.List, fallback Cursor) *ListCursor {
	c := &ListCursor{fallback: fallback}
	c.Push(l...)
	return c
}

// Pop returns the next object.
func (c *ListCursor) Pop() (token.Object, error) {
	if n := len(c.stack); n > 0 {
		obj := c.stack[n-1]
		c.stack = c.stack[:n-1]
		return obj, nil
	}
	if c.fallback != nil {
		return c.fallback.Pop()
	}
	return nil, io.EOF
}

// Peek returns the next object without consuming it.
func (c *ListCursor) Peek() (token.Object, error) {
	if n := len(c.stack); n > 0 {
		return c.stack[n-1], nil
	}
	if c.fallback != nil {
		return c.fallback.Peek()
	}
	return nil, io.EOF
}

// Push inserts objects in front of the remaining list.
func (c *ListCursor) Push(objs ...token.Object) {
	for i := len(objs) - 1; i >= 0; i-- {
		c.stack = append(c.stack, objs[i])
	}
}

// Exhausted is true if the list is used up, regardless of the fallback.
func (c *ListCursor) Exhausted() bool {
	return len(c.stack) == 0
}

// Remaining returns the unread part of the list.
func (c *ListCursor) Remaining() token.List {
	l := make(token.List, len(c.stack))
	for i, obj := range c.stack {
		l[len(c.stack)-1-i] = obj
	}
	return l
}

var _ Cursor = &ListCursor{}
