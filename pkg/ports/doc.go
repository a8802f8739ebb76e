/*
Package ports defines the driven ports (interfaces) for the deepset engine.

These interfaces decouple the walker from the way existing levels are resolved and
let the document layer work with various storage backends and lock providers.

# Key Interfaces

  - Resolver: Yields the Targets reached by an existing path prefix.
  - DocumentStore: Persists and loads JSON-compatible documents by ID.
  - DistributedLocker: Provides distributed locking for concurrent document writes.
*/
package ports
