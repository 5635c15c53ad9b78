package engine

import "fmt"

// Severity of a message.
type Severity uint8

// Message severities.
const (
	SeverityMessage Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "message"
}

// MessageHandler receives diagnostics and output of \message and \show.
type MessageHandler func(sev Severity, loc Location, msg string)

func traceMessages(sev Severity, loc Location, msg string) {
	switch sev {
	case SeverityError:
		tracer().P("at", loc).Errorf("%s", msg)
	case SeverityWarning:
		tracer().P("at", loc).Infof("warning: %s", msg)
	default:
		tracer().P("at", loc).Infof("%s", msg)
	}
}

// Messagef reports an informational message.
func (p *Parser) Messagef(format string, args ...interface{}) {
	p.opts.messages(SeverityMessage, p.Location(), fmt.Sprintf(format, args...))
}

// Warningf reports a warning.
func (p *Parser) Warningf(format string, args ...interface{}) {
	p.opts.messages(SeverityWarning, p.Location(), fmt.Sprintf(format, args...))
}

// ReportError reports an error to the message handler, without aborting.
func (p *Parser) ReportError(err error) {
	loc := p.Location()
	msg := err.Error()
	if se, ok := err.(*SyntaxError); ok {
		loc, msg = se.Location, se.Message()
	}
	p.opts.messages(SeverityError, loc, msg)
}
