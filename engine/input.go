package engine

import (
	"io"

	"github.com/emirpasic/gods/stacks/linkedliststack"
	"github.com/npillmayer/texparse/token"
)

// source is one level of the input stack.
type source interface {
	next() (token.Object, error)
}

// listSource holds objects pushed back onto the input, in reverse order.
type listSource struct {
	stack []token.Object
}

func (ls *listSource) next() (token.Object, error) {
	n := len(ls.stack)
	if n == 0 {
		return nil, io.EOF
	}
	obj := ls.stack[n-1]
	ls.stack = ls.stack[:n-1]
	return obj, nil
}

// fileSource tokenizes a file or string.
type fileSource struct {
	*lexer
	closer io.Closer
}

// input is the stack of input sources. It is the parser's main Cursor.
type input struct {
	sources *linkedliststack.Stack
	files   int
}

func newInput() *input {
	return &input{sources: linkedliststack.New()}
}

// Pop returns the next object from the topmost source which is not
// exhausted. Exhausted sources are removed.
func (in *input) Pop() (token.Object, error) {
	for {
		top, ok := in.sources.Peek()
		if !ok {
			return nil, io.EOF
		}
		obj, err := top.(source).next()
		if err == io.EOF {
			in.popSource()
			continue
		}
		return obj, err
	}
}

// Peek returns the next object without consuming it.
func (in *input) Peek() (token.Object, error) {
	obj, err := in.Pop()
	if err != nil {
		return nil, err
	}
	in.Push(obj)
	return obj, nil
}

// Push inserts objects in front of the input.
func (in *input) Push(objs ...token.Object) {
	if len(objs) == 0 {
		return
	}
	var ls *listSource
	if top, ok := in.sources.Peek(); ok {
		ls, _ = top.(*listSource)
	}
	if ls == nil {
		ls = &listSource{stack: make([]token.Object, 0, len(objs))}
		in.sources.Push(ls)
	}
	for i := len(objs) - 1; i >= 0; i-- {
		ls.stack = append(ls.stack, objs[i])
	}
}

func (in *input) pushFile(fs *fileSource) {
	in.sources.Push(fs)
	in.files++
}

func (in *input) popSource() source {
	top, ok := in.sources.Pop()
	if !ok {
		return nil
	}
	if fs, ok := top.(*fileSource); ok {
		in.files--
		if fs.closer != nil {
			if err := fs.closer.Close(); err != nil {
				tracer().Errorf("closing %s: %v", fs.name, err)
			}
		}
		tracer().P("file", fs.name).Debugf("end of input file")
	}
	return top.(source)
}

// endFile drops the innermost file, together with everything pushed on
// top of it.
func (in *input) endFile() {
	for !in.sources.Empty() {
		if _, ok := in.popSource().(*fileSource); ok {
			return
		}
	}
}

// clear drops all sources, closing open files.
func (in *input) clear() {
	for !in.sources.Empty() {
		in.popSource()
	}
}

// currentFile returns the innermost file source, or nil.
func (in *input) currentFile() *fileSource {
	it := in.sources.Iterator()
	for it.Next() {
		if fs, ok := it.Value().(*fileSource); ok {
			return fs
		}
	}
	return nil
}

func (in *input) empty() bool {
	return in.sources.Empty()
}

var _ Cursor = &input{}
