package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/importviz/pkg/buildinfo"
	"github.com/matzehuels/importviz/pkg/canvas/svg"
	"github.com/matzehuels/importviz/pkg/errors"
	"github.com/matzehuels/importviz/pkg/observability"
	"github.com/matzehuels/importviz/pkg/pipeline"
	"github.com/matzehuels/importviz/pkg/session"
	"github.com/matzehuels/importviz/pkg/visualizer"
)

const maxBodyBytes = 1 << 20

// =============================================================================
// Datasets
// =============================================================================

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "filename query parameter is required"))
		return
	}
	data, err := s.files.Bytes(r.Context(), filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version, Sessions: s.sessions.Len()})
}

// =============================================================================
// Sessions
// =============================================================================

type createRequest struct {
	Source    string   `json:"source"`
	Collapsed bool     `json:"collapsed"`
	Expand    []string `json:"expand,omitempty"`
	Compact   bool     `json:"compact"`
	Width     float64  `json:"width,omitempty"`
	Height    float64  `json:"height,omitempty"`
}

type boxView struct {
	Path       string  `json:"path"`
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Entrypoint bool    `json:"entrypoint"`
}

type sessionView struct {
	ID         string               `json:"id"`
	Source     string               `json:"source"`
	CreatedAt  time.Time            `json:"createdAt"`
	State      visualizer.State     `json:"state"`
	Mode       visualizer.ClickMode `json:"mode"`
	Width      float64              `json:"width"`
	Height     float64              `json:"height"`
	Boxes      []boxView            `json:"boxes"`
	Connectors int                  `json:"connectors"`
	Glyph      string               `json:"toolGlyph"`
	View       visualizer.View      `json:"view"`
}

func describe(sess *session.Session, c *visualizer.Controller) sessionView {
	v := sessionView{
		ID:         sess.ID,
		Source:     sess.Source,
		CreatedAt:  sess.CreatedAt,
		State:      c.State(),
		Mode:       c.Mode(),
		Width:      c.Surface().Width(),
		Height:     c.Surface().Height(),
		Boxes:      []boxView{},
		Connectors: len(c.Connectors()),
		View:       c.View(),
	}
	v.Glyph = v.View.ToolPanel.Glyph()
	for _, b := range c.Boxes() {
		pos, dim := b.Position(), b.Dimensions()
		v.Boxes = append(v.Boxes, boxView{
			Path: b.Path(), Name: b.Name(),
			X: pos.X, Y: pos.Y, Width: dim.Width, Height: dim.Height,
			Entrypoint: b.IsEntrypoint(),
		})
	}
	return v
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateIdentifier(req.Source); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{
		Source:    req.Source,
		Collapsed: req.Collapsed,
		Expand:    req.Expand,
		Compact:   req.Compact,
		Width:     req.Width,
		Height:    req.Height,
		Logger:    s.logger,
	}
	s.cfg.Apply(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "%s", err.Error()))
		return
	}

	ds, err := s.loader.Fetch(r.Context(), req.Source)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	surface, err := svg.New(opts.Width, opts.Height, svg.WithFontSize(opts.FontSize))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "create surface"))
		return
	}
	ctrl, _, err := pipeline.Layout(r.Context(), surface, ds, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := s.sessions.Create(req.Source, ctrl, surface)
	s.logger.Debug("session created", "id", sess.ID, "source", req.Source, "boxes", len(ctrl.Boxes()))
	observability.Sessions().OnSessionCreate(r.Context(), sess.ID, req.Source)

	var view sessionView
	_ = sess.Do(func(c *visualizer.Controller) error {
		view = describe(sess, c)
		return nil
	})
	w.Header().Set("Location", "/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, view)
}

// withSession resolves the {id} route parameter and runs fn under the
// session lock, writing its result as JSON. action names the interaction
// for the session hooks.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, action string, fn func(*session.Session, *visualizer.Controller) (any, error)) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	start := time.Now()
	var out any
	err = sess.Do(func(c *visualizer.Controller) error {
		var err error
		out, err = fn(sess, c)
		return err
	})
	observability.Sessions().OnSessionAction(r.Context(), sess.ID, action, time.Since(start), err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, "view", func(sess *session.Session, c *visualizer.Controller) (any, error) {
		return describe(sess, c), nil
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(chi.URLParam(r, "id")) {
		s.writeError(w, r, session.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(sess.SVG())
}

type clickRequest struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Path string  `json:"path,omitempty"`
}

type clickResponse struct {
	Result visualizer.ClickResult `json:"result"`
	State  visualizer.State       `json:"state"`
	Boxes  int                    `json:"boxes"`
	View   visualizer.View        `json:"view"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, "click", func(_ *session.Session, c *visualizer.Controller) (any, error) {
		var res visualizer.ClickResult
		if req.Path != "" {
			var err error
			if res, err = c.ClickModule(req.Path); err != nil {
				return nil, err
			}
		} else {
			res = c.Click(req.X, req.Y)
		}
		return clickResponse{Result: res, State: c.State(), Boxes: len(c.Boxes()), View: c.View()}, nil
	})
}

type searchResponse struct {
	Query   string                    `json:"query"`
	Results []visualizer.SearchResult `json:"results"`
	Panel   visualizer.ToolPanel      `json:"toolPanel"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if err := errors.ValidateQuery(q); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, "search", func(_ *session.Session, c *visualizer.Controller) (any, error) {
		results := c.Search(q)
		if results == nil {
			results = []visualizer.SearchResult{}
		}
		return searchResponse{Query: q, Results: results, Panel: c.View().ToolPanel}, nil
	})
}

type selectResponse struct {
	Index   int     `json:"index"`
	ScrollY float64 `json:"scrollY"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "search result index must be an integer"))
		return
	}
	s.withSession(w, r, "select", func(_ *session.Session, c *visualizer.Controller) (any, error) {
		y, err := c.SelectSearchResult(n)
		if err != nil {
			return nil, err
		}
		return selectResponse{Index: n, ScrollY: y}, nil
	})
}

type plotResponse struct {
	State  visualizer.State       `json:"state"`
	Points []visualizer.PlotPoint `json:"points"`
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, "plot", func(_ *session.Session, c *visualizer.Controller) (any, error) {
		if err := c.Plot(); err != nil {
			return nil, err
		}
		return plotResponse{State: c.State(), Points: c.PlotPoints()}, nil
	})
}

type toolsResponse struct {
	Panel visualizer.ToolPanel `json:"toolPanel"`
	Glyph string               `json:"glyph"`
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, "tools", func(_ *session.Session, c *visualizer.Controller) (any, error) {
		p := c.ToggleToolPanel()
		return toolsResponse{Panel: p, Glyph: p.Glyph()}, nil
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, "reset", func(sess *session.Session, c *visualizer.Controller) (any, error) {
		c.Reset()
		return describe(sess, c), nil
	})
}

// readJSON decodes a bounded JSON request body into v.
func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
