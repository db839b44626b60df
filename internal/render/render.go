// Package render serializes condition trees into bracketed, indented query text.
//
// Grammar, per node with context {connective, depth, first, last} inherited
// from the parent group (the root gets {"", 0, true, true}):
//
//	first && connective != ""  -> "("
//	depth > 0                  -> newline + depth*indent
//	!first && connective != "" -> keyword + " "
//	rule                       -> `"field" operator "value" `
//	group                      -> children in order, at depth+1, with the group's connective
//	last && connective != ""   -> newline + (depth-1)*indent + ")"
//
// A root group is therefore wrapped by its own first and last children while a
// root rule is never bracketed. Nodes that are neither groups nor rules add
// nothing of their own.
//
// Rendering is best-effort by default: unknown connectives render as
// UNKNOWN_CONNECTIVE and unrecognised nodes as empty text. ModeStrict validates
// the tree first and reports the problem instead.
package render

import (
	"strings"

	"github.com/solatis/querytext/internal/rules"
	"github.com/solatis/querytext/internal/types"
)

// Mode selects how malformed trees are handled.
type Mode int

const (
	// ModeLenient renders whatever it is given and never fails.
	ModeLenient Mode = iota
	// ModeStrict rejects trees that fail rules.Validate.
	ModeStrict
)

// Line endings and indentation of the historical format.
const (
	DefaultNewline = "\r\n"
	DefaultIndent  = "\t"
)

// Options configures rendering.
type Options struct {
	// Newline separates lines; empty means DefaultNewline.
	Newline string

	// Indent is repeated once per nesting level; empty means DefaultIndent.
	Indent string

	// Formatter formats rule values; nil means DefaultFormatter{}.
	Formatter ValueFormatter

	// Mode selects lenient or strict handling.
	Mode Mode
}

// Renderer converts condition trees to query text.
// A Renderer is immutable and safe for concurrent use.
type Renderer struct {
	newline   string
	indent    string
	formatter ValueFormatter
	mode      Mode
}

// New creates a Renderer. If opts is nil, defaults are used.
func New(opts *Options) *Renderer {
	if opts == nil {
		opts = &Options{}
	}
	r := &Renderer{
		newline:   opts.Newline,
		indent:    opts.Indent,
		formatter: opts.Formatter,
		mode:      opts.Mode,
	}
	if r.newline == "" {
		r.newline = DefaultNewline
	}
	if r.indent == "" {
		r.indent = DefaultIndent
	}
	if r.formatter == nil {
		r.formatter = DefaultFormatter{}
	}
	return r
}

var defaultRenderer = New(nil)

// Render serializes root with default options in lenient mode.
func Render(root types.Condition) string {
	out, _ := defaultRenderer.Render(root)
	return out
}

// Mode returns the renderer's mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// Render serializes root.
// In lenient mode the error is always nil.
func (r *Renderer) Render(root types.Condition) (string, error) {
	if r.mode == ModeStrict {
		if err := rules.Validate(root); err != nil {
			return "", err
		}
	}

	return r.RenderValidated(root), nil
}

// RenderValidated serializes a tree the caller has already passed through
// rules.Validate. The strict check is skipped.
func (r *Renderer) RenderValidated(root types.Condition) string {
	var sb strings.Builder
	r.renderNode(&sb, root, nodeContext{first: true, last: true})
	return sb.String()
}

// nodeContext is the state a node inherits from its parent group.
type nodeContext struct {
	connective types.Connective // parent's connective, empty at the root
	depth      int
	first      bool
	last       bool
}

// renderNode writes one node with its brackets, indentation and connective.
func (r *Renderer) renderNode(sb *strings.Builder, node types.Condition, ctx nodeContext) {
	joined := ctx.connective != ""

	if ctx.first && joined {
		sb.WriteString("(")
	}
	if ctx.depth > 0 {
		r.writeLineStart(sb, ctx.depth)
	}
	if !ctx.first && joined {
		sb.WriteString(ctx.connective.Keyword())
		sb.WriteString(" ")
	}

	switch n := node.(type) {
	case *types.Group:
		if n != nil {
			r.renderChildren(sb, n, ctx.depth)
		}
	case *types.Rule:
		if n != nil {
			r.renderRule(sb, n)
		}
	}

	if ctx.last && joined {
		r.writeLineStart(sb, ctx.depth-1)
		sb.WriteString(")")
	}
}

// renderChildren writes the children of g one level deeper than g.
func (r *Renderer) renderChildren(sb *strings.Builder, g *types.Group, depth int) {
	count := len(g.Children)
	for i, child := range g.Children {
		r.renderNode(sb, child, nodeContext{
			connective: g.Connective,
			depth:      depth + 1,
			first:      i == 0,
			last:       i == count-1,
		})
	}
}

// renderRule writes the field, operator and value tokens, each followed by a space.
// A rule without an operator writes no operator token.
func (r *Renderer) renderRule(sb *strings.Builder, rule *types.Rule) {
	writeToken(sb, rule.Field, true)
	if rule.Operator != "" {
		writeToken(sb, rule.Operator, false)
	}
	text, quoted := r.formatter.FormatValue(rule.Value)
	writeToken(sb, text, quoted)
}

// writeLineStart starts a new line indented depth levels.
func (r *Renderer) writeLineStart(sb *strings.Builder, depth int) {
	sb.WriteString(r.newline)
	for i := 0; i < depth; i++ {
		sb.WriteString(r.indent)
	}
}

// writeToken writes s, double-quoted when quoted, and a trailing space.
// Embedded quotes are not escaped; exported queries depend on the exact bytes.
func writeToken(sb *strings.Builder, s string, quoted bool) {
	if quoted {
		sb.WriteByte('"')
		sb.WriteString(s)
		sb.WriteByte('"')
	} else {
		sb.WriteString(s)
	}
	sb.WriteByte(' ')
}
