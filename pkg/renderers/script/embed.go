package script

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle so callers can copy it as
// a starting point for WithTemplatesFS.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
