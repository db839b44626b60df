package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/solatis/querytext/internal/render"
	"github.com/solatis/querytext/internal/rules"
	"github.com/spf13/cobra"
)

var (
	renderPath   string
	renderFormat string
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render a condition tree to query text",
	Long: `Render reads a condition tree from file (or stdin when file is omitted or "-")
and writes its query text to stdout. The output bytes are exactly the rendered
text, with no trailing newline added.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderPath, "path", "", "location of the tree inside the document (e.g. $.queries[1].condition)")
	renderCmd.Flags().StringVar(&renderFormat, "format", "auto", "input format (auto, json, yaml)")
	renderCmd.Flags().Bool("strict", false, "validate the tree and fail instead of rendering best-effort")
	renderCmd.Flags().Bool("detect-dates", false, "render YYYY-MM-DD and RFC 3339 strings as dates")
	renderCmd.Flags().String("line-ending", "crlf", "line ending (crlf, lf)")
	renderCmd.Flags().Int("indent-width", 0, "spaces per nesting level (0 for a tab)")

	for key, flag := range map[string]string{
		"render.strict":       "strict",
		"render.detect_dates": "detect-dates",
		"render.line_ending":  "line-ending",
		"render.indent_width": "indent-width",
	} {
		if err := v.BindPFlag(key, renderCmd.Flags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	format, err := rules.ParseFormat(renderFormat)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	doc, err := rules.Decode(data, format)
	if err != nil {
		return err
	}

	if renderPath != "" {
		path, err := rules.ParsePath(renderPath)
		if err != nil {
			return err
		}
		res, err := rules.ResolveValue(path, doc)
		if err != nil {
			return fmt.Errorf("path %s: %w", renderPath, err)
		}
		doc = res.Value
	}

	tree := rules.FromValue(doc, &rules.ParseOptions{DetectDates: cfg.Render.DetectDates})
	renderer := render.New(cfg.Render.RenderOptions())

	out, err := renderer.Render(tree)
	if err != nil {
		return err
	}

	logger.Debug("rendered condition tree",
		"bytes_in", len(data),
		"bytes_out", len(out),
		"strict", renderer.Mode() == render.ModeStrict,
	)

	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, nil
}
