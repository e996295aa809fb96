package web

import "embed"

// Templates contains the calculator page.
//
//go:embed templates
var Templates embed.FS
