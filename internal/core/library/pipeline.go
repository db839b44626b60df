package library

import (
	"context"

	"github.com/pkg/errors"
	"github.com/solatis/querytext/internal/types"
)

/*
 * Submission pipeline.
 *
 * A submission moves through an ordered list of steps. Each step decides
 * whether it applies (Required) and then mutates the submission (Run). The
 * first failure stops the pipeline; the error is wrapped with the step name
 * and still matches its sentinel with errors.Is.
 *
 * Save:     parse -> validate -> render -> insert
 * Rerender: parse -> validate -> render -> update
 *
 * validate is required only when the renderer is strict.
 */

// Submission carries one query through the pipeline.
type Submission struct {
	// Inputs
	QueryID  types.QueryID // set for rerender, assigned by insert on save
	Name     string
	Kind     types.QueryKind
	Document []byte // condition tree as JSON

	// Produced by steps
	Tree      types.Condition
	Validated bool // set once rules.Validate accepted Tree
	Rendered  string
	Saved     *SavedQuery
}

// Step is one stage of the pipeline.
type Step interface {
	Name() string
	Required(ctx context.Context, sub *Submission) (bool, error)
	Run(ctx context.Context, sub *Submission) error
}

// Pipeline runs steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline from steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Steps returns the step names in order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Run executes every required step until one fails or ctx is done.
func (p *Pipeline) Run(ctx context.Context, sub *Submission) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "%s", step.Name())
		}

		required, err := step.Required(ctx, sub)
		if err != nil {
			return errors.Wrapf(err, "%s", step.Name())
		}
		if !required {
			continue
		}

		if err := step.Run(ctx, sub); err != nil {
			return errors.Wrapf(err, "%s", step.Name())
		}
	}
	return nil
}
