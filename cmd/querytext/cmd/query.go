package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/solatis/querytext/internal/core/db"
	"github.com/solatis/querytext/internal/core/library"
	"github.com/solatis/querytext/internal/render"
	"github.com/solatis/querytext/internal/types"
	"github.com/spf13/cobra"
)

var (
	saveName string
	saveKind string
	listKind string
	showJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Manage saved queries",
}

var querySaveCmd = &cobra.Command{
	Use:   "save [file]",
	Short: "Save a condition tree (JSON) with its rendered text",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runQuerySave,
}

var queryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved queries, newest first",
	Args:  cobra.NoArgs,
	RunE:  runQueryList,
}

var queryShowCmd = &cobra.Command{
	Use:   "show <query-id>",
	Short: "Print the rendered text of a saved query",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueryShow,
}

var queryDeleteCmd = &cobra.Command{
	Use:   "delete <query-id>",
	Short: "Delete a saved query",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueryDelete,
}

var queryRerenderCmd = &cobra.Command{
	Use:   "rerender <query-id>",
	Short: "Render a saved query's tree again with the current options",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueryRerender,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.AddCommand(querySaveCmd, queryListCmd, queryShowCmd, queryDeleteCmd, queryRerenderCmd)

	querySaveCmd.Flags().StringVar(&saveName, "name", "", "query name")
	querySaveCmd.Flags().StringVar(&saveKind, "kind", string(types.QueryKindCohort), "query kind (cohort, data)")
	queryListCmd.Flags().StringVar(&listKind, "kind", "", "only list queries of this kind")
	queryShowCmd.Flags().BoolVar(&showJSON, "json", false, "print the full saved query as JSON")
}

// openService connects to the store and builds the saved-query service.
// The returned close function releases the database.
func openService(cmd *cobra.Command) (*library.Service, func(), error) {
	ctx := cmd.Context()

	if cfg.Store.DBURL == "" {
		return nil, nil, fmt.Errorf("--db-url required")
	}
	database, err := db.Open(ctx, cfg.Store.DBURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	queries, err := db.LoadQueries(database)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to load queries: %w", err)
	}
	if err := queries.RequireMigration(ctx, db.SchemaMigration); err != nil {
		database.Close()
		return nil, nil, err
	}

	svc, err := library.NewService(queries, render.New(cfg.Render.RenderOptions()), logger, library.Settings{
		DetectDates: cfg.Render.DetectDates,
		ListLimit:   cfg.Store.ListLimit,
	})
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to create service: %w", err)
	}

	return svc, func() { database.Close() }, nil
}

func runQuerySave(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	svc, closeDB, err := openService(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	saved, err := svc.Save(cmd.Context(), saveName, types.QueryKind(saveKind), data)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), saved.QueryID)
	return nil
}

func runQueryList(cmd *cobra.Command, args []string) error {
	svc, closeDB, err := openService(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	saved, err := svc.List(cmd.Context(), types.QueryKind(listKind))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "QUERY ID\tKIND\tNAME\tUPDATED")
	for _, q := range saved {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", q.QueryID, q.Kind, q.Name, q.UpdatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func runQueryShow(cmd *cobra.Command, args []string) error {
	id, err := types.ParseQueryID(args[0])
	if err != nil {
		return fmt.Errorf("invalid query id %q: %w", args[0], err)
	}

	svc, closeDB, err := openService(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	saved, err := svc.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	if showJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(saved)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), saved.Rendered)
	return err
}

func runQueryDelete(cmd *cobra.Command, args []string) error {
	id, err := types.ParseQueryID(args[0])
	if err != nil {
		return fmt.Errorf("invalid query id %q: %w", args[0], err)
	}

	svc, closeDB, err := openService(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	return svc.Delete(cmd.Context(), id)
}

func runQueryRerender(cmd *cobra.Command, args []string) error {
	id, err := types.ParseQueryID(args[0])
	if err != nil {
		return fmt.Errorf("invalid query id %q: %w", args[0], err)
	}

	svc, closeDB, err := openService(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	saved, changed, err := svc.Rerender(cmd.Context(), id)
	if err != nil {
		return err
	}
	state := "unchanged"
	if changed {
		state = "updated"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", saved.QueryID, state)
	return nil
}
