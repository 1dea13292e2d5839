package depevent

// Logger defines interface used for logging dependor events.
type Logger interface {
	// LogEvent is called when a logging event is emitted.
	LogEvent(Event)
}

// NopLogger is a Logger that discards all events.
var NopLogger = nopLogger{}

type nopLogger struct{}

func (nopLogger) LogEvent(Event) {}

func (nopLogger) String() string { return "NopLogger" }
