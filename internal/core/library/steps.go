package library

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/solatis/querytext/internal/core/db"
	"github.com/solatis/querytext/internal/render"
	"github.com/solatis/querytext/internal/rules"
	"github.com/solatis/querytext/internal/types"
)

// always is embedded by steps that run for every submission.
type always struct{}

func (always) Required(context.Context, *Submission) (bool, error) { return true, nil }

// parseStep checks the submission envelope and decodes the tree.
type parseStep struct {
	always
	opts *rules.ParseOptions
}

func (parseStep) Name() string { return "parse" }

func (s parseStep) Run(_ context.Context, sub *Submission) error {
	name := strings.TrimSpace(sub.Name)
	if name == "" {
		return types.ErrEmptyQueryName
	}
	if len(name) > types.MaxQueryNameLength {
		return errors.Wrapf(types.ErrQueryNameTooLong, "%d bytes", len(name))
	}
	if _, err := types.ParseQueryKind(string(sub.Kind)); err != nil {
		return errors.Wrapf(err, "%q", sub.Kind)
	}
	if len(sub.Document) > types.MaxTreeDocumentSize {
		return errors.Wrapf(types.ErrTreeTooLarge, "%d bytes", len(sub.Document))
	}

	tree, err := rules.ParseWithOptions(sub.Document, s.opts)
	if err != nil {
		return err
	}
	sub.Name = name
	sub.Tree = tree
	return nil
}

// validateStep runs strict validation ahead of rendering.
type validateStep struct {
	renderer *render.Renderer
}

func (validateStep) Name() string { return "validate" }

func (s validateStep) Required(context.Context, *Submission) (bool, error) {
	return s.renderer.Mode() == render.ModeStrict, nil
}

func (validateStep) Run(_ context.Context, sub *Submission) error {
	if err := rules.Validate(sub.Tree); err != nil {
		return err
	}
	sub.Validated = true
	return nil
}

// renderStep produces the query text.
type renderStep struct {
	always
	renderer *render.Renderer
}

func (renderStep) Name() string { return "render" }

func (s renderStep) Run(_ context.Context, sub *Submission) error {
	if sub.Validated {
		sub.Rendered = s.renderer.RenderValidated(sub.Tree)
		return nil
	}
	out, err := s.renderer.Render(sub.Tree)
	if err != nil {
		return err
	}
	sub.Rendered = out
	return nil
}

// insertStep stores a new saved query.
type insertStep struct {
	always
	queries *db.Queries
	now     func() time.Time
}

func (insertStep) Name() string { return "persist" }

func (s insertStep) Run(ctx context.Context, sub *Submission) error {
	now := s.now().UTC()
	saved := &SavedQuery{
		QueryID:   types.NewQueryID(),
		Name:      sub.Name,
		Kind:      sub.Kind,
		Tree:      types.TreeDocument(sub.Document),
		Rendered:  sub.Rendered,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.queries.Exec(ctx, "insert-saved-query",
		string(saved.QueryID), saved.Name, string(saved.Kind),
		string(saved.Tree), saved.Rendered, saved.CreatedAt, saved.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "insert saved query")
	}

	sub.QueryID = saved.QueryID
	sub.Saved = saved
	return nil
}

// updateStep writes re-rendered text for an existing query.
type updateStep struct {
	always
	queries *db.Queries
	now     func() time.Time
}

func (updateStep) Name() string { return "persist" }

func (s updateStep) Run(ctx context.Context, sub *Submission) error {
	now := s.now().UTC()
	res, err := s.queries.Exec(ctx, "update-rendered", sub.Rendered, now, string(sub.QueryID))
	if err != nil {
		return errors.Wrap(err, "update rendered text")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update rendered text")
	}
	if n == 0 {
		return types.ErrQueryNotFound
	}

	if sub.Saved != nil {
		sub.Saved.Rendered = sub.Rendered
		sub.Saved.UpdatedAt = now
	}
	return nil
}
