/*
Package domain contains the core types shared by the deepset engine and its adapters.

It defines the vocabulary of a deep assignment: the container families the engine
knows how to write into, the classification of path keys, the steps emitted while a
path is walked, and the errors a walk can end with. This package is kept free of
I/O and third-party dependencies.

# Key Entities

  - Family: the closed set of container behaviours (indexed, key-value, unordered).
  - KeyClass: how a key decides the type of a newly created level.
  - Step: one observable transition of a walk (resolved, constructed or final result).
  - SetCustomizer / GetCustomizer: caller hooks consulted before default dispatch.
*/
package domain
