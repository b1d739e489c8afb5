package templates

import (
	"embed"
	"io/fs"
)

//go:embed *.tmpl partials/*.tmpl
var files embed.FS

// FS returns the bundled page layouts.
func FS() fs.FS {
	return files
}
