// Package container provides the associative and unordered containers deepset can
// build and write into beyond Go's built-in maps and slices.
//
// Set and Map keep insertion order and compare members and keys by identity:
// comparable values by ==, maps, slices and funcs by the address of their backing
// storage. WeakMap and WeakSet hold their keys weakly and cannot be enumerated.
package container
