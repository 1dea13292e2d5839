package depevent

import (
	"fmt"
	"io"
	"strings"
)

// ConsoleLogger is an event logger that writes human-readable messages.
//
// Use this during development.
type ConsoleLogger struct {
	W io.Writer
}

var _ Logger = (*ConsoleLogger)(nil)

func (l *ConsoleLogger) logf(msg string, args ...any) {
	fmt.Fprintf(l.W, "[dependor] "+msg+"\n", args...)
}

// LogEvent writes the given event to l.W.
func (l *ConsoleLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *ResolverBuilt:
		l.logf("RESOLVER\t%s <= [%s]", e.Host, strings.Join(e.Modules, ", "))
	case *LookedUp:
		if e.Err != nil {
			l.logf("ERROR\t\t%s.%s from %s: %v", e.Host, e.Name, e.Module, e.Err)
		} else {
			l.logf("RESOLVE\t%s.%s <= %s", e.Host, e.Name, e.Module)
		}
	case *Missing:
		l.logf("MISSING\t%s.%s", e.Host, e.Name)
	case *Overridden:
		l.logf("OVERRIDE\t%s", e.Name)
	case *Instantiated:
		if e.Err != nil {
			l.logf("ERROR\t\tFailed to instantiate %s (pass %s): %v", e.Target, e.PassID, e.Err)
		} else {
			l.logf("INJECT\t%s(%s) in %s", e.Target, strings.Join(e.Names, ", "), e.Runtime)
		}
	}
}
