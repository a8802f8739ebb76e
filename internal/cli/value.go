package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/deepset/pkg/domain"
)

// StdinMarker as a value argument reads the value from stdin.
const StdinMarker = "-"

// ParseValue turns a command line value into a document value. Valid JSON is
// decoded; anything else, including JSON null, is kept as a plain string.
// With StdinMarker the value is read from stdin.
func ParseValue(arg string, stdin io.Reader) (any, error) {
	if arg == StdinMarker {
		if stdin == nil {
			return nil, fmt.Errorf("%w: no stdin to read the value from", domain.ErrBadArguments)
		}
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read value from stdin: %w", err)
		}
		arg = strings.TrimRight(string(b), "\r\n")
		if arg == "" {
			return nil, fmt.Errorf("%w: empty value on stdin", domain.ErrBadArguments)
		}
	}

	var v any
	if err := json.Unmarshal([]byte(arg), &v); err != nil || v == nil {
		return arg, nil
	}
	return v, nil
}
