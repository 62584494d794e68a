// Package web embeds the single-page map UI.
package web

import _ "embed"

//go:embed index.html
var Index []byte
