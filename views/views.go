// Package views holds the server-rendered page templates.
package views

import "embed"

//go:embed *.html
var FS embed.FS
