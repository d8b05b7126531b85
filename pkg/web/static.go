package web

import (
	"io/fs"
	"net/http"
)

// DistServer serves files from subdir of fsys with urlPrefix stripped.
// It panics when subdir does not exist, which only happens with a broken embed.
func DistServer(fsys fs.FS, subdir, urlPrefix string) http.Handler {
	sub, err := fs.Sub(fsys, subdir)
	if err != nil {
		panic("web: static sub-filesystem: " + err.Error())
	}
	return http.StripPrefix(urlPrefix, http.FileServer(http.FS(sub)))
}
