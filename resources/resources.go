// Package resources embeds the HTML templates into the binary.
package resources

import (
	"embed"
	"io/fs"
)

//go:embed views
var files embed.FS

// Views is rooted at views/, so pages are named like "products/index".
func Views() fs.FS {
	sub, err := fs.Sub(files, "views")
	if err != nil {
		panic(err)
	}
	return sub
}
