package depevent

import (
	"strings"

	"go.uber.org/zap"
)

// ZapLogger is a dependor event logger that logs events to Zap.
//
// Lookups are logged at debug level; failures at error level.
type ZapLogger struct {
	Logger *zap.Logger
}

var _ Logger = (*ZapLogger)(nil)

// LogEvent logs the given event to the provided Zap logger.
func (l *ZapLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *ResolverBuilt:
		l.Logger.Debug("resolver built",
			zap.String("host", e.Host),
			zap.String("modules", strings.Join(e.Modules, ", ")),
		)
	case *LookedUp:
		if e.Err != nil {
			l.Logger.Error("module failed to provide dependency",
				zap.String("host", e.Host),
				zap.String("name", e.Name),
				zap.String("module", e.Module),
				zap.Error(e.Err),
			)
		} else {
			l.Logger.Debug("resolved",
				zap.String("host", e.Host),
				zap.String("name", e.Name),
				zap.String("module", e.Module),
			)
		}
	case *Missing:
		l.Logger.Debug("dependency not found",
			zap.String("host", e.Host),
			zap.String("name", e.Name),
		)
	case *Overridden:
		l.Logger.Debug("overridden", zap.String("name", e.Name))
	case *Instantiated:
		if e.Err != nil {
			l.Logger.Error("instantiate failed",
				zap.String("pass", e.PassID),
				zap.String("target", e.Target),
				zap.Error(e.Err),
			)
		} else {
			l.Logger.Info("instantiated",
				zap.String("pass", e.PassID),
				zap.String("target", e.Target),
				zap.Strings("names", e.Names),
				zap.String("runtime", e.Runtime.String()),
			)
		}
	}
}
