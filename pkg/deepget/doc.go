// Package deepget resolves existing levels of nested data one key at a time.
//
// Resolve yields the Target reached by each key of a path and stops at the first
// key that cannot be followed. Missing keys and nil values both end resolution.
// A Target that is a JSON document string is read with gjson; whatever comes back
// is a copy, so writes below it cannot reach the original data.
package deepget
