package domain

// SetCustomizer is consulted before default dispatch at every level of a walk.
// value is nil when a missing level is being constructed. Returning false falls
// through to the default writers; returning true makes ref the new Target verbatim.
type SetCustomizer func(target, key any, depth int, value any) (ref any, handled bool)

// GetCustomizer is consulted before default extraction when resolving existing levels.
// Returning false falls through to the default extraction rules.
type GetCustomizer func(target, key any) (next any, handled bool)
