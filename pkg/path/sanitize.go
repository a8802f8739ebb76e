package path

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/deepset/pkg/domain"
)

var (
	// DefaultMaxSize bounds the length of a string path in bytes.
	DefaultMaxSize = 1024
	// EnvMaxSize overrides DefaultMaxSize.
	EnvMaxSize = "DEEPSET_MAX_PATH_SIZE"
)

// Sanitize checks a path received from outside the process. Paths over the
// size limit or with invalid UTF-8 are rejected with ErrBadPath; control
// characters are stripped.
func Sanitize(p string) (string, error) {
	limit := maxSize()
	if len(p) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", domain.ErrBadPath, len(p), limit)
	}
	if !utf8.ValidString(p) {
		return "", fmt.Errorf("%w: invalid UTF-8", domain.ErrBadPath)
	}

	if strings.IndexFunc(p, unicode.IsControl) < 0 {
		return p, nil
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, p), nil
}

func maxSize() int {
	if val := os.Getenv(EnvMaxSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxSize
}
