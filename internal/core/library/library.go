// Package library stores saved queries: the condition tree as authored,
// alongside the query text rendered from it.
//
// The stored tree is the source of truth. Rendered text is derived and can be
// regenerated at any time with Rerender, for example after the render options
// change. Parsing text back into a tree is not supported.
package library

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/solatis/querytext/internal/core/db"
	"github.com/solatis/querytext/internal/render"
	"github.com/solatis/querytext/internal/rules"
	"github.com/solatis/querytext/internal/types"
)

// DefaultListLimit bounds List when no limit is configured.
const DefaultListLimit = 1000

// SavedQuery is a stored condition tree and its rendered text.
type SavedQuery struct {
	QueryID   types.QueryID      `json:"query_id"`
	Name      string             `json:"name"`
	Kind      types.QueryKind    `json:"kind"`
	Tree      types.TreeDocument `json:"tree"`
	Rendered  string             `json:"rendered"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// savedQueryRow is the database shape of a SavedQuery.
type savedQueryRow struct {
	QueryID   string    `db:"query_id"`
	Name      string    `db:"name"`
	Kind      string    `db:"kind"`
	Tree      string    `db:"tree"`
	Rendered  string    `db:"rendered"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r savedQueryRow) toSavedQuery() *SavedQuery {
	return &SavedQuery{
		QueryID:   types.QueryID(r.QueryID),
		Name:      r.Name,
		Kind:      types.QueryKind(r.Kind),
		Tree:      types.TreeDocument(r.Tree),
		Rendered:  r.Rendered,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

// Settings tunes a Service.
type Settings struct {
	DetectDates bool // parse YYYY-MM-DD strings in stored trees as dates
	ListLimit   int  // 0 means DefaultListLimit
}

// Service saves, lists and re-renders queries.
// Thin orchestration layer delegating to rules, render and db packages.
type Service struct {
	queries   *db.Queries
	renderer  *render.Renderer
	logger    *slog.Logger
	listLimit int

	save     *Pipeline
	rerender *Pipeline
}

// NewService creates a service with its dependencies.
func NewService(queries *db.Queries, renderer *render.Renderer, logger *slog.Logger, settings Settings) (*Service, error) {
	if queries == nil {
		return nil, errors.New("queries cannot be nil")
	}
	if renderer == nil {
		return nil, errors.New("renderer cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	limit := settings.ListLimit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	parse := parseStep{opts: &rules.ParseOptions{DetectDates: settings.DetectDates}}
	validate := validateStep{renderer: renderer}
	rend := renderStep{renderer: renderer}

	return &Service{
		queries:   queries,
		renderer:  renderer,
		logger:    logger,
		listLimit: limit,
		save:      NewPipeline(parse, validate, rend, insertStep{queries: queries, now: time.Now}),
		rerender:  NewPipeline(parse, validate, rend, updateStep{queries: queries, now: time.Now}),
	}, nil
}

// Save parses, renders and stores a condition tree.
func (s *Service) Save(ctx context.Context, name string, kind types.QueryKind, tree []byte) (*SavedQuery, error) {
	sub := &Submission{Name: name, Kind: kind, Document: tree}
	if err := s.save.Run(ctx, sub); err != nil {
		s.logger.Warn("save rejected", "name", name, "kind", string(kind), "error", err)
		return nil, err
	}

	s.logger.Info("query saved",
		"query_id", string(sub.Saved.QueryID),
		"name", sub.Saved.Name,
		"kind", string(sub.Saved.Kind),
		"rendered_bytes", len(sub.Saved.Rendered),
	)
	return sub.Saved, nil
}

// Get returns a saved query by ID.
func (s *Service) Get(ctx context.Context, id types.QueryID) (*SavedQuery, error) {
	var row savedQueryRow
	err := s.queries.Get(ctx, "get-saved-query", &row, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrQueryNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get saved query %s", id)
	}
	return row.toSavedQuery(), nil
}

// List returns saved queries newest first, limited by the configured list limit.
// An empty kind lists every kind.
func (s *Service) List(ctx context.Context, kind types.QueryKind) ([]*SavedQuery, error) {
	var rows []savedQueryRow
	var err error
	if kind == "" {
		err = s.queries.Select(ctx, "list-saved-queries", &rows, s.listLimit)
	} else {
		if _, kerr := types.ParseQueryKind(string(kind)); kerr != nil {
			return nil, kerr
		}
		err = s.queries.Select(ctx, "list-saved-queries-by-kind", &rows, string(kind), s.listLimit)
	}
	if err != nil {
		return nil, errors.Wrap(err, "list saved queries")
	}

	out := make([]*SavedQuery, len(rows))
	for i, r := range rows {
		out[i] = r.toSavedQuery()
	}
	return out, nil
}

// Delete removes a saved query.
func (s *Service) Delete(ctx context.Context, id types.QueryID) error {
	res, err := s.queries.Exec(ctx, "delete-saved-query", string(id))
	if err != nil {
		return errors.Wrapf(err, "delete saved query %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "delete saved query %s", id)
	}
	if n == 0 {
		return types.ErrQueryNotFound
	}

	s.logger.Info("query deleted", "query_id", string(id))
	return nil
}

// Rerender renders the stored tree again with the service's renderer and
// stores the new text. changed reports whether the text differs.
func (s *Service) Rerender(ctx context.Context, id types.QueryID) (saved *SavedQuery, changed bool, err error) {
	saved, err = s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	previous := saved.Rendered

	sub := &Submission{
		QueryID:  saved.QueryID,
		Name:     saved.Name,
		Kind:     saved.Kind,
		Document: saved.Tree,
		Saved:    saved,
	}
	if err := s.rerender.Run(ctx, sub); err != nil {
		s.logger.Warn("rerender failed", "query_id", string(id), "error", err)
		return nil, false, err
	}

	changed = saved.Rendered != previous
	s.logger.Info("query rerendered", "query_id", string(id), "changed", changed)
	return saved, changed, nil
}
