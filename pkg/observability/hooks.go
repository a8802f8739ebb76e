package observability

import (
	"log/slog"

	"github.com/aretw0/deepset/pkg/domain"
)

// LoggingHooks logs every step at info level and failures at warn level.
func LoggingHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnStep: func(s domain.Step) {
			if s.Final() {
				return
			}
			logger.Info("walk_step", "kind", s.Kind, "depth", s.Depth, "key", s.Key)
		},
		OnFinish: func(ok bool, err error) {
			if ok {
				logger.Info("walk_finished")
				return
			}
			logger.Warn("walk_failed", "error", err)
		},
	}
}

// Combine fans every callback out to all hooks in order.
func Combine(hooks ...domain.Hooks) domain.Hooks {
	return domain.Hooks{
		OnStep: func(s domain.Step) {
			for _, h := range hooks {
				if h.OnStep != nil {
					h.OnStep(s)
				}
			}
		},
		OnFinish: func(ok bool, err error) {
			for _, h := range hooks {
				if h.OnFinish != nil {
					h.OnFinish(ok, err)
				}
			}
		},
	}
}
