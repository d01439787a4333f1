// Package views holds the HTML templates, embedded into the binary.
package views

import "embed"

//go:embed layout.html posts/*.html admin/*.html
var FS embed.FS
