package server

import (
	_ "embed"
	"net/http"
)

//go:embed shell.html
var shellHTML []byte

// serveShell serves the embedded single-page shell. All navigation
// happens client-side through the hash fragment and the JSON API.
func (s *Server) serveShell(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(shellHTML)
}
