package gamedata

import _ "embed"

// Embedded is the fitting dataset compiled into the binary, so every
// frontend works without an external data file.
//
//go:embed data.json
var Embedded string
