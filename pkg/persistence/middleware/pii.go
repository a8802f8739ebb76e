package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/deepset/pkg/ports"
)

// Mask replaces the value of every redacted key.
const Mask = "***"

type piiMiddleware struct {
	next     ports.DocumentStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks values of object keys matching
// any of the patterns before the document reaches the wrapped store.
// Masking descends through nested objects and lists.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.DocumentStore) ports.DocumentStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

// Save masks a copy; the caller's document is left untouched.
func (m *piiMiddleware) Save(ctx context.Context, id string, doc any) error {
	return m.next.Save(ctx, id, m.mask(doc))
}

func (m *piiMiddleware) Load(ctx context.Context, id string) (any, error) {
	return m.next.Load(ctx, id)
}

func (m *piiMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) mask(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			if m.matches(k) {
				out[k] = Mask
				continue
			}
			out[k] = m.mask(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = m.mask(child)
		}
		return out
	case *[]any:
		if t == nil {
			return t
		}
		return m.mask(*t)
	default:
		return v
	}
}

func (m *piiMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
