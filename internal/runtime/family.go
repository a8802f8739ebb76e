package runtime

import (
	"github.com/aretw0/deepset/pkg/container"
	"github.com/aretw0/deepset/pkg/domain"
)

// FamilyOf reports the container family of target.
func FamilyOf(target any) (domain.Family, bool) {
	switch target.(type) {
	case map[string]any, []any, *[]any:
		return domain.FamilyIndexed, true
	case map[any]any, container.KeyValue:
		return domain.FamilyKeyValue, true
	case container.Collection:
		return domain.FamilyUnordered, true
	}
	return 0, false
}
