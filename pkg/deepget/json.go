package deepget

import (
	"strings"

	"github.com/aretw0/deepset/pkg/path"
	"github.com/tidwall/gjson"
)

// fromJSON reads key from a JSON object or array held in a string.
// Nested documents come back as their raw JSON text.
func fromJSON(doc string, key any) (any, bool) {
	trimmed := strings.TrimSpace(doc)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') || !gjson.Valid(trimmed) {
		return nil, false
	}
	k, ok := path.KeyString(key)
	if !ok {
		return nil, false
	}

	parsed := gjson.Parse(trimmed)
	var res gjson.Result
	if k == "" {
		parsed.ForEach(func(name, value gjson.Result) bool {
			if name.String() == "" && name.Exists() {
				res = value
				return false
			}
			return true
		})
	} else {
		res = parsed.Get(gjson.Escape(k))
	}

	if !res.Exists() {
		return nil, false
	}
	if res.IsObject() || res.IsArray() {
		return res.Raw, true
	}
	return res.Value(), true
}
