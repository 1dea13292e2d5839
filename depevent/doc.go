// Package depevent defines how dependor reports what it does while
// resolving dependencies.
//
// Every resolver and instantiator emits [Event] values to a [Logger]. The
// default is [NopLogger]. Use [ZapLogger] to route events into an existing
// Zap logger, or [ConsoleLogger] for readable output during development.
//
//	log, _ := zap.NewDevelopment()
//	app.Injectable = dependor.Attach(app,
//		dependor.WithLogger(&depevent.ZapLogger{Logger: log}),
//	)
//
// # Implementing a Custom Logger
//
// Implement [Logger] and type-switch on the event:
//
//	func (l *myLogger) LogEvent(e depevent.Event) {
//		switch e := e.(type) {
//		case *depevent.Missing:
//			l.warn("missing dependency", e.Name)
//		}
//	}
package depevent
