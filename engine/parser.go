package engine

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/npillmayer/texparse/scope"
	"github.com/npillmayer/texparse/token"
)

// Action is what the parser does when it encounters an undefined control
// sequence.
type Action uint8

// Actions for undefined control sequences.
const (
	ActionError Action = iota
	ActionWarning
	ActionMessage
	ActionIgnore
)

var actionNames = [...]string{"error", "warning", "message", "ignore"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// ParseAction converts a name ("error", "warning", "message", "ignore")
// to an action.
func ParseAction(s string) (Action, error) {
	for i, n := range actionNames {
		if strings.EqualFold(n, s) {
			return Action(i), nil
		}
	}
	return ActionError, fmt.Errorf("unknown action for undefined control sequences: %q", s)
}

// Prefix is a set of assignment prefixes.
type Prefix uint8

// Prefixes.
const (
	PrefixGlobal Prefix = 1 << iota
	PrefixLong
	PrefixProtected
	PrefixOuter
)

// Has is true if q is contained in p.
func (p Prefix) Has(q Prefix) bool {
	return p&q != 0
}

// State is the result of a processing step.
type State uint8

// Step results.
const (
	Continue State = iota
	Finished
)

// Limits.
const (
	DefaultMaxExpansions = 100000
	DefaultMaxInputDepth = 32
)

type options struct {
	undefined     Action
	fsys          fs.FS
	messages      MessageHandler
	maxExpansions int
	maxInputDepth int
}

// Option configures a parser.
type Option func(*options)

// WithUndefinedAction sets the action for undefined control sequences.
func WithUndefinedAction(a Action) Option {
	return func(o *options) { o.undefined = a }
}

// WithFS sets the file system \input reads from. The default is the
// current directory.
func WithFS(fsys fs.FS) Option {
	return func(o *options) { o.fsys = fsys }
}

// WithMessageHandler installs a handler for diagnostics.
func WithMessageHandler(h MessageHandler) Option {
	return func(o *options) { o.messages = h }
}

// WithMaxExpansions limits the number of consecutive expansions without
// an unexpandable object in between. 0 means no limit.
func WithMaxExpansions(n int) Option {
	return func(o *options) { o.maxExpansions = n }
}

// WithMaxInputDepth limits the nesting of input files.
func WithMaxInputDepth(n int) Option {
	return func(o *options) { o.maxInputDepth = n }
}

// Parser is the expansion engine. A parser is not safe for concurrent use.
type Parser struct {
	settings   *scope.Stack
	input      *input
	listener   Listener
	conds      []*condition
	prefix     Prefix
	ctx        context.Context
	opts       options
	expansions int
	finished   bool // the document has ended, no more input is read
	done       bool // Finish has been called
	extensions map[string]interface{}
	closers    []func()
}

// New creates a parser reporting to l. The parser has no commands bound;
// packages primitives and latex populate it.
func New(l Listener, opts ...Option) *Parser {
	p := &Parser{
		settings: scope.NewStack(),
		input:    newInput(),
		listener: l,
		opts: options{
			undefined:     ActionError,
			messages:      traceMessages,
			maxExpansions: DefaultMaxExpansions,
			maxInputDepth: DefaultMaxInputDepth,
		},
		extensions: make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(&p.opts)
	}
	if p.opts.fsys == nil {
		p.opts.fsys = os.DirFS(".")
	}
	return p
}

// Settings returns the settings stack.
func (p *Parser) Settings() *scope.Stack {
	return p.settings
}

// Listener returns the back end.
func (p *Parser) Listener() Listener {
	return p.listener
}

// Input returns the input stack as a Cursor.
func (p *Parser) Input() Cursor {
	return p.input
}

// Location returns the position in the innermost input file.
func (p *Parser) Location() Location {
	if f := p.input.currentFile(); f != nil {
		return Location{File: f.name, Line: f.line}
	}
	return Location{}
}

// Extension returns a value stored by a command package.
func (p *Parser) Extension(key string) interface{} {
	return p.extensions[key]
}

// SetExtension stores a value on behalf of a command package.
func (p *Parser) SetExtension(key string, v interface{}) {
	p.extensions[key] = v
}

// OnClose registers a function to be called by Close.
func (p *Parser) OnClose(fn func()) {
	p.closers = append(p.closers, fn)
}

// Close releases resources held by the parser and by command packages.
func (p *Parser) Close() {
	for p.input.currentFile() != nil {
		p.input.endFile()
	}
	for i := len(p.closers) - 1; i >= 0; i-- {
		p.closers[i]()
	}
	p.closers = nil
}

// --- Input ----------------------------------------------------------------

// PushReader starts reading from r. The name is used in diagnostics. If r
// is an io.Closer, it is closed when exhausted.
func (p *Parser) PushReader(name string, r io.Reader) error {
	if p.opts.maxInputDepth > 0 && p.input.files >= p.opts.maxInputDepth {
		return p.newError(ErrInputDepth, p.opts.maxInputDepth)
	}
	lx := newLexer(name, r, p.settings.Catcode)
	lx.onInvalid = func(r rune) {
		p.Warningf("text line contains an invalid character %U", r)
	}
	fsrc := &fileSource{lexer: lx}
	if c, ok := r.(io.Closer); ok {
		fsrc.closer = c
	}
	p.input.pushFile(fsrc)
	tracer().P("file", name).Debugf("input")
	return nil
}

// PushString starts reading from a string.
func (p *Parser) PushString(name, s string) error {
	return p.PushReader(name, strings.NewReader(s))
}

// PushFile starts reading a file from the parser's file system. If name
// has no extension and does not exist, name.tex is tried.
func (p *Parser) PushFile(name string) error {
	f, err := p.opts.fsys.Open(name)
	if err != nil && !strings.Contains(name, ".") {
		var err2 error
		if f, err2 = p.opts.fsys.Open(name + ".tex"); err2 == nil {
			name, err = name+".tex", nil
		}
	}
	if err != nil {
		return p.wrapError(err, ErrInput, name, err)
	}
	if err = p.PushReader(name, f); err != nil {
		f.Close()
	}
	return err
}

// EndInput stops reading the innermost file.
func (p *Parser) EndInput() {
	p.input.endFile()
}

// DiscardInput drops all pending input. Interactive sessions continue
// with fresh input after an error.
func (p *Parser) DiscardInput() {
	p.input.clear()
}

// Tokenize converts a string to tokens, using the current catcodes.
func (p *Parser) Tokenize(s string) (token.List, error) {
	lx := newLexer("", strings.NewReader(s), p.settings.Catcode)
	var l token.List
	for {
		obj, err := lx.next()
		if err == io.EOF {
			return l, nil
		} else if err != nil {
			return l, err
		}
		l = append(l, obj)
	}
}

// --- Running --------------------------------------------------------------

// Run processes all input and finishes the document. It returns early if
// ctx is cancelled.
func (p *Parser) Run(ctx context.Context) error {
	if err := p.Drain(ctx); err != nil {
		return err
	}
	return p.Finish()
}

// Drain processes input until it is exhausted or the document ends,
// without finishing the document. Interactive sessions use Drain to
// process input chunk by chunk.
func (p *Parser) Drain(ctx context.Context) error {
	p.ctx = ctx
	defer func() { p.ctx = nil }()
	for {
		st, err := p.Step()
		if err != nil {
			return err
		}
		if st == Finished {
			return nil
		}
	}
}

// Step processes the next object of the input.
func (p *Parser) Step() (State, error) {
	if p.finished {
		return Finished, nil
	}
	if err := p.checkpoint(); err != nil {
		return Finished, err
	}
	obj, err := p.input.Pop()
	if err == io.EOF {
		return Finished, nil
	} else if err != nil {
		return Finished, err
	}
	if err = p.Process(obj, p.input); err != nil {
		return Finished, err
	}
	if p.finished {
		return Finished, nil
	}
	return Continue, nil
}

// EndDocument marks the end of the document. No more input is read.
func (p *Parser) EndDocument() {
	p.finished = true
}

// Ended is true after EndDocument has been called.
func (p *Parser) Ended() bool {
	return p.finished
}

// Finish ends the document: open groups are closed and the listener is
// told to finish. Groups still open at the end of input are an error,
// unless the document has been ended explicitly.
func (p *Parser) Finish() error {
	if p.done {
		return nil
	}
	p.done = true
	if n := len(p.conds); n > 0 {
		p.Warningf("end of input when %s was incomplete", p.conds[n-1].cmd)
		p.conds = nil
	}
	if open := p.settings.Depth(); open > 0 && !p.finished {
		return p.newError(ErrMissingEG, open)
	}
	for p.settings.Depth() > 0 {
		if err := p.closeGroup(p.settings.Current()); err != nil {
			return err
		}
	}
	if err := p.runEndHooks(p.settings.Globals()); err != nil {
		return err
	}
	return p.listener.Finish(p)
}

func (p *Parser) checkpoint() error {
	if p.ctx == nil {
		return nil
	}
	select {
	case <-p.ctx.Done():
		return &CancelError{Cause: p.ctx.Err()}
	default:
		return nil
	}
}

// --- Processing -----------------------------------------------------------

// Process performs the action of obj, reading arguments from c.
func (p *Parser) Process(obj token.Object, c Cursor) error {
	switch t := obj.(type) {
	case token.CsRef:
		return p.processCommand(p.Resolve(t), c)
	case *Command:
		return p.processCommand(t, c)
	case token.Char:
		if err := p.checkPrefix(t); err != nil {
			return err
		}
		p.expansions = 0
		return p.processChar(t, c)
	case token.Group:
		c.Push(t.Unwrap()...)
		return nil
	case token.List:
		c.Push(t...)
		return nil
	case *dontExpand: // acts like \relax
		return nil
	case token.Param:
		return p.newError(ErrMisplaced, "macro parameter "+t.String())
	case token.Number, token.Dimen:
		p.expansions = 0
		for _, o := range t.Explode('\\') {
			if err := p.listener.Character(p, o.(token.Char)); err != nil {
				return err
			}
		}
		return nil
	}
	return p.newError(ErrMisplaced, obj)
}

// ProcessList processes the objects of l. Commands at the end of l may read
// arguments from c.
func (p *Parser) ProcessList(l token.List, c Cursor) error {
	lc := NewListCursor(l, c)
	for !lc.Exhausted() {
		if err := p.checkpoint(); err != nil {
			return err
		}
		obj, _ := lc.Pop()
		if err := p.Process(obj, lc); err != nil {
			return err
		}
		if p.finished {
			return nil
		}
	}
	return nil
}

func (p *Parser) checkPrefix(obj token.Object) error {
	if p.prefix != 0 {
		p.prefix = 0
		return p.newError(ErrPrefix, obj)
	}
	return nil
}

// TakePrefix returns the pending prefixes and clears them.
func (p *Parser) TakePrefix() Prefix {
	pf := p.prefix
	p.prefix = 0
	return pf
}

func (p *Parser) processChar(ch token.Char, c Cursor) error {
	switch ch.Cat {
	case token.BeginGroup:
		return p.BeginGroup()
	case token.EndGroup:
		return p.EndGroup(scope.BraceGroup, "")
	case token.MathShift:
		return p.mathShift(c)
	case token.AlignTab:
		return p.NextCell()
	case token.Parameter:
		return p.newError(ErrMisplaced, "macro parameter character "+ch.String())
	case token.Space:
		if p.settings.Mode().IsMath() {
			return nil
		}
	}
	return p.listener.Character(p, ch)
}

func (p *Parser) processCommand(cmd *Command, c Cursor) error {
	if cmd == nil {
		return nil
	}
	orig := cmd
	cmd = cmd.Unwrap()
	if p.prefix != 0 && !cmd.IsExpandable() && cmd.caps&(CapAssignment|CapPrefix) == 0 {
		return p.checkPrefix(orig)
	}
	if cmd.IsExpandable() {
		list, _, err := p.ExpandOnce(cmd, c)
		if err != nil {
			return err
		}
		c.Push(list...)
		return nil
	}
	p.expansions = 0
	switch cmd.kind {
	case KindUndefined:
		return p.undefined(cmd)
	case KindRegister:
		return p.assignRegister(cmd, c)
	case KindChar:
		return p.processChar(cmd.char, c)
	case KindDeclaration:
		if err := cmd.process(p, c); err != nil {
			return err
		}
		if cmd.end != nil {
			p.AfterGroup(func() error { return cmd.end(p) })
		}
		return nil
	}
	if cmd.process != nil {
		return cmd.process(p, c)
	}
	if cmd.quantity != nil {
		return p.newError(ErrMisplaced, orig)
	}
	return nil
}

func (p *Parser) undefined(cmd *Command) error {
	name := token.Cs(cmd.name)
	switch cmd.action {
	case ActionError:
		return p.newError(ErrUndefined, name)
	case ActionWarning:
		p.Warningf("undefined control sequence %s", name)
	case ActionMessage:
		p.Messagef("undefined control sequence %s", name)
	}
	return nil
}

// --- Control sequences ----------------------------------------------------

// Resolve returns the command a control sequence reference is bound to.
// Unbound names resolve to an undefined sentinel. Objects which are not
// control sequences resolve to nil.
func (p *Parser) Resolve(obj token.Object) *Command {
	switch t := obj.(type) {
	case *Command:
		return t
	case token.CsRef:
		if v := p.settings.ControlSequence(t.Key()); v != nil {
			if cmd, ok := v.(*Command); ok {
				return cmd
			}
		}
		return NewUndefined(t.Name, p.opts.undefined)
	}
	return nil
}

// ControlSequence returns the command bound to \name.
func (p *Parser) ControlSequence(name string) *Command {
	return p.Resolve(token.Cs(name))
}

// IsDefined is true if ref is bound to something other than the undefined
// sentinel.
func (p *Parser) IsDefined(ref token.CsRef) bool {
	return !p.Resolve(ref).IsUndefined()
}

// PutControlSequence binds cmd under its name.
func (p *Parser) PutControlSequence(cmd *Command, global bool) {
	p.settings.PutControlSequence(cmd.name, cmd, global)
}

// Bind binds a control sequence or active character to cmd.
func (p *Parser) Bind(ref token.CsRef, cmd *Command, global bool) {
	p.settings.PutControlSequence(ref.Key(), cmd, global)
}

// meaningOf normalizes obj for comparison by \ifx.
func (p *Parser) meaningOf(obj token.Object) token.Object {
	switch t := obj.(type) {
	case *dontExpand:
		return p.meaningOf(t.obj)
	case token.CsRef, *Command:
		cmd := p.Resolve(t).Unwrap()
		if cmd.kind == KindChar {
			return cmd.char
		}
		return cmd
	}
	return obj
}

// SameMeaning compares the meanings of two tokens, the way \ifx does.
// Aliases are unwrapped, macros are compared by definition.
func (p *Parser) SameMeaning(a, b token.Object) bool {
	ma, mb := p.meaningOf(a), p.meaningOf(b)
	ca, okA := ma.(*Command)
	cb, okB := mb.(*Command)
	if okA != okB {
		return false
	}
	if !okA {
		return token.Equal(ma, mb)
	}
	if ca == cb {
		return true
	}
	if ca.kind != cb.kind {
		return false
	}
	switch ca.kind {
	case KindMacro:
		return ca.macro.Equal(cb.macro)
	case KindUndefined:
		return true
	case KindRegister:
		return ca.register == cb.register && ca.regType == cb.regType
	}
	return false
}

// EscapeChar returns the value of \escapechar, or -1 for none.
func (p *Parser) EscapeChar() rune {
	if v, ok := p.settings.Register("escapechar"); ok {
		if n, ok := v.(token.Number); ok {
			if n < 0 || n > 0x10ffff {
				return -1
			}
			return rune(n)
		}
	}
	return '\\'
}

// Meaning returns the text \meaning shows for obj.
func (p *Parser) Meaning(obj token.Object) string {
	esc := p.EscapeChar()
	switch t := obj.(type) {
	case token.CsRef, *Command:
		return p.Resolve(t).Meaning(esc)
	case token.Char:
		return t.Meaning()
	}
	return obj.Format(esc)
}
