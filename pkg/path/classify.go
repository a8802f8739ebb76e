// Package path turns caller paths into key sequences and classifies keys.
package path

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"

	"github.com/aretw0/deepset/pkg/container"
	"github.com/aretw0/deepset/pkg/domain"
)

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Index returns the non-negative integer a key stands for, if it is index-like.
// Strings must match the integer-literal grammar: digits only, no sign or spaces.
func Index(key any) (int, bool) {
	switch k := key.(type) {
	case string:
		if !isDigits(k) {
			return 0, false
		}
		n, err := strconv.Atoi(k)
		return n, err == nil
	case json.Number:
		return Index(string(k))
	case float32:
		return floatIndex(float64(k))
	case float64:
		return floatIndex(k)
	}

	rv := reflect.ValueOf(key)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n := rv.Int(); n >= 0 && n <= math.MaxInt {
			return int(n), true
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n := rv.Uint(); n <= math.MaxInt {
			return int(n), true
		}
	}
	return 0, false
}

// maxFloatIndex is math.MaxInt rounded to a float64. Integral floats below it fit
// in an int, so floats and ints share one index range.
const maxFloatIndex = float64(math.MaxInt)

func floatIndex(f float64) (int, bool) {
	if f < 0 || f != math.Trunc(f) || f >= maxFloatIndex {
		return 0, false
	}
	return int(f), true
}

// Classify reports which kind of container a key addresses.
func Classify(key any) domain.KeyClass {
	if _, ok := Index(key); ok {
		return domain.KeyIndex
	}
	if _, ok := key.(string); ok {
		return domain.KeyString
	}
	return domain.KeyOpaque
}

// KeyString is the record field name a key is stored under.
func KeyString(key any) (string, bool) {
	switch k := key.(type) {
	case string:
		return k, true
	case json.Number:
		return string(k), true
	}
	if n, ok := Index(key); ok {
		return strconv.Itoa(n), true
	}
	return "", false
}

// NewChild creates the empty container a key addresses.
func NewChild(key any) any {
	switch Classify(key) {
	case domain.KeyIndex:
		// Non-zero capacity gives every new list its own backing array.
		return make([]any, 0, 1)
	case domain.KeyString:
		return map[string]any{}
	}
	return container.NewMap()
}
