package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhelev-dev/docview/internal/content"
	"github.com/zhelev-dev/docview/internal/highlight"
	"github.com/zhelev-dev/docview/internal/palette"
	"github.com/zhelev-dev/docview/internal/route"
	"github.com/zhelev-dev/docview/internal/toc"
	"github.com/zhelev-dev/docview/internal/viewer"
)

// pageResponse is the JSON shape of a committed page.
type pageResponse struct {
	Frag       string           `json:"frag"`
	Title      string           `json:"title"`
	Breadcrumb []string         `json:"breadcrumb"`
	HTML       string           `json:"html"`
	TOC        []toc.Entry      `json:"toc,omitempty"`
	Prev       *viewer.DocLink  `json:"prev,omitempty"`
	Next       *viewer.DocLink  `json:"next,omitempty"`
	ScrollTo   string           `json:"scroll_to,omitempty"`
	LoadError  string           `json:"load_error,omitempty"`
}

type prefsResponse struct {
	Theme      string `json:"theme"`
	ReaderMode bool   `json:"reader_mode"`
}

func (s *Server) registerRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/page", s.handlePage)
		r.Get("/sidebar", s.handleSidebar)
		r.Get("/palette", s.handlePalette)
		r.Get("/prefs", s.handleGetPrefs)
		r.Put("/prefs", s.handlePutPrefs)
		r.Post("/find", s.handleSetFind)
		r.Delete("/find", s.handleClearFind)
	})
}

// handlePage resolves ?frag= through the viewer. A navigation
// superseded by a newer one answers 204: the client keeps whatever the
// newer request delivers. An active find term is re-applied to the
// outgoing markup; the cached copy stays clean.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	frag := r.URL.Query().Get("frag")
	heading := r.URL.Query().Get("heading")

	page, err := s.viewer.Navigate(r.Context(), frag)
	if err != nil {
		if errors.Is(err, viewer.ErrSuperseded) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := pageResponse{
		Frag:       page.Frag,
		Title:      page.Title,
		Breadcrumb: page.Breadcrumb,
		HTML:       page.HTML,
		TOC:        page.TOC,
		Prev:       page.Prev,
		Next:       page.Next,
		LoadError:  page.LoadError,
	}
	if heading != "" && page.Target.IsDoc() {
		resp.ScrollTo = heading
	}
	if term := s.session.FindTerm(); term != "" {
		if marked, hlErr := highlight.Apply(page.HTML, term); hlErr == nil {
			resp.HTML = marked
		} else {
			log.Printf("highlight: %v", hlErr)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleSidebar builds the navigation rows for ?frag=. A filter param,
// when present, is remembered on the session so it survives
// navigation; omitting it reuses the remembered one.
func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target := route.Parse(q.Get("frag"))

	filter := s.session.SidebarFilter()
	if q.Has("filter") {
		filter = q.Get("filter")
		s.session.SetSidebarFilter(filter)
	}

	rows := s.viewer.Sidebar(target, filter)
	if rows == nil {
		rows = []viewer.SidebarEntry{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	results := palette.Filter(s.entries, r.URL.Query().Get("q"))
	if results == nil {
		results = []content.Entry{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGetPrefs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, prefsResponse{
		Theme:      s.prefs.Theme(),
		ReaderMode: s.prefs.ReaderMode(),
	})
}

func (s *Server) handlePutPrefs(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme      *string `json:"theme"`
		ReaderMode *bool   `json:"reader_mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Theme != nil {
		if err := s.prefs.SetTheme(*req.Theme); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.ReaderMode != nil {
		if err := s.prefs.SetReaderMode(*req.ReaderMode); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	s.handleGetPrefs(w, r)
}

// handleSetFind stores the find term and returns the current page's
// markup with matches wrapped. The term stays active across page loads
// until cleared.
func (s *Server) handleSetFind(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Term string `json:"term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.session.SetFindTerm(req.Term)

	resp := struct {
		Term string `json:"term"`
		HTML string `json:"html,omitempty"`
	}{Term: req.Term}

	if cur := s.viewer.Current(); cur != nil {
		marked, err := highlight.Apply(cur.HTML, req.Term)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp.HTML = marked
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearFind(w http.ResponseWriter, r *http.Request) {
	s.session.SetFindTerm("")

	resp := struct {
		Term string `json:"term"`
		HTML string `json:"html,omitempty"`
	}{}

	if cur := s.viewer.Current(); cur != nil {
		// The committed copy was never mutated, so it is already clean.
		resp.HTML = cur.HTML
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}
