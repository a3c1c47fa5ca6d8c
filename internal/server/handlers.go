package server

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/playbookforge/pkg/buildinfo"
	"github.com/matzehuels/playbookforge/pkg/convert"
	"github.com/matzehuels/playbookforge/pkg/errors"
	"github.com/matzehuels/playbookforge/pkg/export"
	"github.com/matzehuels/playbookforge/pkg/graph"
	"github.com/matzehuels/playbookforge/pkg/pipeline"
	"github.com/matzehuels/playbookforge/pkg/store"
)

// =============================================================================
// Parse
// =============================================================================

type parseRequest struct {
	Content string `json:"content"`
	Format  string `json:"format,omitempty"`
}

type parseResponse struct {
	Nodes    []graph.Node  `json:"nodes"`
	Edges    []graph.Edge  `json:"edges"`
	Metadata pipeline.Meta `json:"metadata"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.deps.Runner.Convert(r.Context(), s.convertOptions(req.Content, req.Format))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{
		Nodes:    nonNil(res.Graph.Nodes),
		Edges:    nonNil(res.Graph.Edges),
		Metadata: res.Meta,
	})
}

func (s *Server) convertOptions(content, format string) pipeline.Options {
	return pipeline.Options{
		Content:       content,
		Format:        format,
		MaxInputBytes: s.deps.Limits.MaxInputBytes,
		MaxNodes:      s.deps.Limits.MaxNodes,
		MaxEdges:      s.deps.Limits.MaxEdges,
	}
}

// =============================================================================
// Formats and health
// =============================================================================

type formatInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Detection   string `json:"detection"`
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	var formats []formatInfo
	for _, c := range convert.Converters() {
		formats = append(formats, formatInfo{
			Name:        string(c.Format),
			Description: c.Description,
			Detection:   c.Detection,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"formats": formats,
		"exports": export.Names(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

// =============================================================================
// Playbooks
// =============================================================================

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content"`
	Format      string `json:"format,omitempty"`
}

type updateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Content     *string `json:"content,omitempty"`
	Format      *string `json:"format,omitempty"`
}

type listResponse struct {
	Items  []*store.Playbook `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

func (s *Server) handleCreatePlaybook(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := errors.ValidateTitle(req.Title); err != nil {
		s.writeError(w, r, err)
		return
	}

	p := &store.Playbook{Title: req.Title, Description: req.Description}
	if err := s.convertInto(r, p, req.Content, req.Format); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.deps.Store.Create(r.Context(), p); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "save playbook"))
		return
	}
	w.Header().Set("Location", "/api/playbooks/"+p.ID)
	writeJSON(w, http.StatusCreated, p)
}

// convertInto converts content and stores the graph and its summary on p.
// An empty description on p is filled from the source text.
func (s *Server) convertInto(r *http.Request, p *store.Playbook, content, format string) error {
	res, err := s.deps.Runner.Convert(r.Context(), s.convertOptions(content, format))
	if err != nil {
		return err
	}
	data, err := graph.MarshalGraph(res.Graph)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}
	p.Content = strings.TrimSpace(content)
	p.Format = string(res.Format)
	p.GraphJSON = data
	p.NodeCount = res.Stats.NodeCount
	p.EdgeCount = res.Stats.EdgeCount
	if p.Description == "" {
		p.Description = res.Meta.Description
	}
	return nil
}

func (s *Server) handleListPlaybooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := store.ListOptions{Search: q.Get("search")}
	var err error
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts = opts.Normalize()

	items, total, err := s.deps.Store.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "list playbooks"))
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: total, Limit: opts.Limit, Offset: opts.Offset})
}

func (s *Server) handleGetPlaybook(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadPlaybook(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePlaybook(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadPlaybook(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req updateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := errors.ValidateTitle(title); err != nil {
			s.writeError(w, r, err)
			return
		}
		p.Title = title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Content != nil || req.Format != nil {
		content, format := p.Content, ""
		if req.Content != nil {
			content = *req.Content
		}
		if req.Format != nil {
			format = *req.Format
		}
		if err := s.convertInto(r, p, content, format); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	if err := s.deps.Store.Update(r.Context(), p); err != nil {
		s.writeError(w, r, storageError(err, "update playbook"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlaybook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.deps.Store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, storageError(err, "delete playbook"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportPlaybook(w http.ResponseWriter, r *http.Request) {
	f, err := export.Validate(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.loadPlaybook(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := graph.UnmarshalGraph(p.GraphJSON)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidGraph, err, "stored graph is unreadable"))
		return
	}

	artifacts, err := s.deps.Runner.Render(r.Context(), g, pipeline.Options{
		Formats:   []string{string(f)},
		Direction: r.URL.Query().Get("direction"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="playbook-`+p.ID+"."+f.Extension()+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[string(f)])
}

func (s *Server) loadPlaybook(r *http.Request) (*store.Playbook, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateID(id); err != nil {
		return nil, err
	}
	p, err := s.deps.Store.Get(r.Context(), id)
	if err != nil {
		return nil, storageError(err, "load playbook")
	}
	return p, nil
}

// storageError keeps not-found errors for classify and marks the rest as
// storage failures.
func storageError(err error, msg string) error {
	if stderrors.Is(err, store.ErrNotFound) {
		return err
	}
	return errors.Wrap(errors.ErrCodeStorage, err, "%s", msg)
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid integer parameter %q", v)
	}
	return n, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
