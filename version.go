package deepset

import _ "embed"

// Version is the release version of the module.
//
//go:embed VERSION
var Version string
