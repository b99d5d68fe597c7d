package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/DGarbs51/dbplatform/internal/catalog"
	"github.com/DGarbs51/dbplatform/internal/dialect"
	"github.com/DGarbs51/dbplatform/internal/format"
	"github.com/DGarbs51/dbplatform/internal/ui"
	"github.com/spf13/cobra"
)

func newInspectCmd(opts *rootOptions) *cobra.Command {
	var views, ddl bool
	cmd := &cobra.Command{
		Use:   "inspect [TABLE]",
		Short: "Read table definitions back from a live DB2 catalog",
		Long: `Connect to a DB2 database and read schema metadata from the system catalog.

Without arguments the base tables are listed. With a TABLE its columns, keys,
indexes and foreign keys are shown; --ddl prints the CREATE TABLE statements
that reproduce it instead. --views lists view definitions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := opts.resolvePlatform()
			if err != nil {
				return err
			}
			if platform.Name() != "db2" {
				return &dialect.NotSupportedError{Platform: platform.Name(), Op: "Inspect"}
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			conn, err := opts.connect(ctx, platform)
			if err != nil {
				return fmt.Errorf("error connecting to database: %w", err)
			}
			defer conn.Close()

			reader := catalog.NewReader(opts.logger)
			out := cmd.OutOrStdout()

			switch {
			case views:
				list, err := reader.ListViews(ctx, conn)
				if err != nil {
					return err
				}
				ui.Views(out, list)
				return nil

			case len(args) == 0:
				names, err := reader.ListTableNames(ctx, conn)
				if err != nil {
					return err
				}
				ui.Header(out, fmt.Sprintf("Tables (%s)", format.Number(int64(len(names)))))
				for _, name := range names {
					ui.Info(out, name)
				}
				return nil
			}

			table, err := reader.ReadTable(ctx, conn, args[0])
			if errors.Is(err, catalog.ErrTableNotFound) {
				return fmt.Errorf("%w (DB2 stores unquoted names in upper case)", err)
			}
			if err != nil {
				return err
			}

			if ddl {
				stmts, err := reader.Platform().CreateTableSQL(table)
				if err != nil {
					return err
				}
				ui.Statements(out, stmts)
				return nil
			}
			ui.TableDefinition(out, table, platform.DefaultFKAction())
			return nil
		},
	}
	cmd.Flags().BoolVar(&views, "views", false, "List views instead of tables")
	cmd.Flags().BoolVar(&ddl, "ddl", false, "Print CREATE TABLE statements for TABLE")
	return cmd
}
