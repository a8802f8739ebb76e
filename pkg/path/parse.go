package path

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/deepset/pkg/domain"
)

// DefaultMatch extracts every run of characters that is not a dot or a bracket.
var DefaultMatch = regexp.MustCompile(`[^.[\]]+`)

// Parse converts a path into a key sequence.
// Strings are tokenized with match (DefaultMatch when nil); slices are copied.
func Parse(p any, match *regexp.Regexp) ([]any, error) {
	if match == nil {
		match = DefaultMatch
	}

	var keys []any
	switch v := p.(type) {
	case string:
		for _, tok := range match.FindAllString(v, -1) {
			keys = append(keys, tok)
		}
	case []any:
		keys = append(keys, v...)
	case []string:
		for _, s := range v {
			keys = append(keys, s)
		}
	case []int:
		for _, n := range v {
			keys = append(keys, n)
		}
	case nil:
		return nil, domain.ErrBadArguments
	default:
		return nil, fmt.Errorf("%w: unsupported path type %T", domain.ErrBadPath, p)
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: %v yields no keys", domain.ErrBadPath, p)
	}
	return keys, nil
}

// String renders keys in the dot/bracket notation Parse accepts.
// Keys that cannot be represented are printed with %v.
func String(keys []any) string {
	var b strings.Builder
	for i, k := range keys {
		if n, ok := Index(k); ok {
			b.WriteString("[" + strconv.Itoa(n) + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		if s, ok := k.(string); ok {
			b.WriteString(s)
		} else {
			fmt.Fprintf(&b, "%v", k)
		}
	}
	return b.String()
}
