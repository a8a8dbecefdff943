package modelbind

import "log/slog"

// Option configures a Mapper.
type Option func(*Mapper)

// WithBinders replaces the binder list. Order is selection order.
func WithBinders(binders ...Binder) Option {
	return func(m *Mapper) {
		m.binders = compact(binders)
	}
}

// WithPriorityBinders puts binders in front of the current list so they win
// over the defaults for every shape they claim.
func WithPriorityBinders(binders ...Binder) Option {
	return func(m *Mapper) {
		m.binders = append(compact(binders), m.binders...)
	}
}

// WithFallbackBinders appends binders; they only see shapes no earlier binder
// claimed.
func WithFallbackBinders(binders ...Binder) Option {
	return func(m *Mapper) {
		m.binders = append(m.binders, compact(binders)...)
	}
}

// WithMaxDepth limits how deeply values may nest. Zero or negative disables
// the limit.
func WithMaxDepth(depth int) Option {
	return func(m *Mapper) { m.maxDepth = depth }
}

// WithMaxFields sets the field limit reported by MaxFields.
func WithMaxFields(n int) Option {
	return func(m *Mapper) {
		if n > 0 {
			m.maxFields = n
		}
	}
}

// WithLogger enables debug logging of binder selection. Nil loggers are ignored.
func WithLogger(log *slog.Logger) Option {
	return func(m *Mapper) {
		if log != nil {
			m.log = log
		}
	}
}

// WithConfig applies limits from cfg.
func WithConfig(cfg Config) Option {
	return func(m *Mapper) {
		WithMaxDepth(cfg.MaxDepth)(m)
		WithMaxFields(cfg.MaxFields)(m)
	}
}

func compact(binders []Binder) []Binder {
	out := make([]Binder, 0, len(binders))
	for _, b := range binders {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}
