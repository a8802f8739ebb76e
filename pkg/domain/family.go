package domain

// Family is a behavioural category of container. The set is closed: every
// container the engine writes into belongs to exactly one of them.
type Family int

const (
	// FamilyIndexed covers records and lists, addressed by string or index keys.
	FamilyIndexed Family = iota
	// FamilyKeyValue covers map-like containers with arbitrary identity keys.
	FamilyKeyValue
	// FamilyUnordered covers set-like containers whose members have no key.
	FamilyUnordered

	// NumFamilies is the number of known families.
	NumFamilies = 3
)

func (f Family) String() string {
	switch f {
	case FamilyIndexed:
		return "indexed"
	case FamilyKeyValue:
		return "key-value"
	case FamilyUnordered:
		return "unordered"
	}
	return "unknown"
}
