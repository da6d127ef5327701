package main

import "embed"

// configFS holds the shipped configuration used when no -config directory is given
//
//go:embed configs
var configFS embed.FS
