package content

import (
	"embed"
	"io/fs"
)

//go:embed site.yaml links.yaml pages articles
var files embed.FS

// FS exposes the bundled content fixtures.
func FS() fs.FS {
	return files
}
