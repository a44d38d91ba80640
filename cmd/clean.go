package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"import-buddy/internal/console"
	"import-buddy/internal/dialect"
	"import-buddy/internal/engine"
	"import-buddy/internal/logging"
	"import-buddy/internal/prompt"
)

type tableDropper interface {
	DropTables(ctx context.Context, tables []string) (int, error)
}

var (
	_ tableDropper = (*engine.Session)(nil)
	_ tableDropper = (*engine.DryRun)(nil)
)

var cleanCmd = &cobra.Command{
	Use:   "clean file_1.csv [file_2.csv ...]",
	Short: "Drop the tables an import of the given files creates",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("%w: clean needs at least one file", errUsage)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		con := console.New(cmd.OutOrStdout())

		config, err := LoadDBConfig(viper.GetViper())
		if err != nil {
			return err
		}

		logger, cleanup, err := logging.New(logging.Options{
			Verbose: viper.GetBool("settings.verbose"),
			File:    viper.GetString("settings.log_file"),
			Console: cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		defer cleanup()

		d, err := dialect.GetDialect(config.Driver)
		if err != nil {
			return err
		}

		var db tableDropper
		if viper.GetBool("settings.dry_run") {
			db = engine.NewDryRun(d, con.Writer())
		} else {
			conn, err := config.ConnString()
			if err != nil {
				return err
			}
			s, err := engine.Open(cmd.Context(), config.Driver, conn, d, config.LockTimeout, logger)
			if err != nil {
				return err
			}
			defer s.Close()
			con.Info("connected via %s (%s)", config.Driver, config.Name)
			db = s
		}

		return cleanTables(cmd.Context(), db, prompt.NewTerminal(cmd.InOrStdin(), con), con, tableNames(args))
	},
}

func init() {
	RootCmd.AddCommand(cleanCmd)
}

// cleanTables drops tables once the operator confirms.
func cleanTables(ctx context.Context, db tableDropper, p prompt.Provider, con *console.Console, tables []string) error {
	ok, err := p.Confirm(fmt.Sprintf("drop tables %s?", strings.Join(tables, ", ")), "keep them")
	if err != nil {
		return err
	}
	if !ok {
		con.Info("nothing dropped")
		return nil
	}

	n, err := db.DropTables(ctx, tables)
	if err != nil {
		return err
	}
	con.Success("dropped %d/%d tables", n, len(tables))
	return nil
}
