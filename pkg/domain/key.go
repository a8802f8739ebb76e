package domain

// KeyClass tells which empty container is created when a key addresses a missing level.
type KeyClass int

const (
	KeyIndex  KeyClass = iota // non-negative integer: new list
	KeyString                 // any other string: new record
	KeyOpaque                 // everything else: new key-value container
)

func (k KeyClass) String() string {
	switch k {
	case KeyIndex:
		return "index"
	case KeyString:
		return "string"
	}
	return "opaque"
}
