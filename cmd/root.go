package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"import-buddy/internal/console"
	"import-buddy/internal/dialect"
	"import-buddy/internal/engine"
	"import-buddy/internal/importer"
	"import-buddy/internal/logging"
	"import-buddy/internal/prompt"
	"import-buddy/internal/reader"
	"import-buddy/internal/schema"
)

var (
	cfgFile    string
	envFile    string
	dsn        string
	driverName string
	dryRun     bool
	verbose    bool
	logFile    string
	sampleSize int
)

var RootCmd = &cobra.Command{
	Use:   "import-buddy file_1.csv [file_2.csv ...]",
	Short: "Interactive CSV to database importer",
	Long: `
  ___                            _     ____            _     _
 |_ _|_ __ ___  _ __   ___  _ __| |_  | __ ) _   _  __| | __| |_   _
  | || '_ ' _ \| '_ \ / _ \| '__| __| |  _ \| | | |/ _' |/ _' | | | |
  | || | | | | | |_) | (_) | |  | |_  | |_) | |_| | (_| | (_| | |_| |
 |___|_| |_| |_| .__/ \___/|_|   \__| |____/ \__,_|\__,_|\__,_|\__, |
               |_|                                             |___/

IMPORT BUDDY - profiles tabular files, creates tables and loads them
`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	con := console.New(cmd.OutOrStdout())
	if len(args) == 0 {
		con.Usage(cmd.Root().Name())
		return errUsage
	}

	cfg, err := LoadDBConfig(viper.GetViper())
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

	d, err := dialect.GetDialect(cfg.Driver)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	opts := importer.Options{
		SampleSize:  viper.GetInt("settings.sample_size"),
		Placeholder: viper.GetString("settings.placeholder_column"),
	}

	var db importer.Materializer
	if viper.GetBool("settings.dry_run") {
		con.Info("[SIMULATION] dry-run mode active: no data will be written")
		db = engine.NewDryRun(d, con.Writer())
	} else {
		conn, err := cfg.ConnString()
		if err != nil {
			return err
		}
		s, err := engine.Open(ctx, cfg.Driver, conn, d, cfg.LockTimeout, logger)
		if err != nil {
			return err
		}
		defer s.Close()
		con.Info("connected via %s (%s)", cfg.Driver, cfg.Name)
		db = s
		opts.Progress = func(table string, total int) importer.Progress {
			return console.StartLoad(table, total)
		}
	}

	im := importer.New(reader.New(), db, prompt.NewTerminal(cmd.InOrStdin(), con), con, logger, opts)
	if err := im.Run(ctx, args); err != nil {
		return &reportedError{err: err}
	}
	return nil
}

// tableNames lists the tables an import of paths would create, once each,
// in argument order.
func tableNames(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var names []string
	for _, p := range paths {
		name := schema.TableName(p)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./import-buddy.yaml)")
	flags.StringVar(&envFile, "env-file", ".env", "env file exported before reading configuration")
	flags.StringVar(&dsn, "dsn", "", "Database connection string (overrides host/database/username/password)")
	flags.StringVar(&driverName, "driver", "", "Database driver: postgres, mysql, sqlserver, oracle, sqlite, libsql, duckdb")
	flags.BoolVar(&dryRun, "dry-run", false, "Print the statements instead of executing them")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every statement and commit")
	flags.StringVar(&logFile, "log-file", "", "Also write a JSON debug log to this file")
	flags.IntVar(&sampleSize, "sample", 0, "Rows shown before each confirmation (overrides config)")

	viper.BindPFlag("database.connection", flags.Lookup("dsn"))
	viper.BindPFlag("database.driver", flags.Lookup("driver"))
	viper.BindPFlag("settings.dry_run", flags.Lookup("dry-run"))
	viper.BindPFlag("settings.verbose", flags.Lookup("verbose"))
	viper.BindPFlag("settings.log_file", flags.Lookup("log-file"))
	viper.BindPFlag("settings.sample_size", flags.Lookup("sample"))

	viper.SetDefault("settings.sample_size", 10)
	viper.SetDefault("settings.placeholder_column", schema.DefaultPlaceholderColumn)

	RootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})
}

// initConfig reads in the env file, the config file and environment
// variables.
func initConfig() {
	if err := loadDotEnv(envFile); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			exePath := filepath.Dir(ex)
			viper.AddConfigPath(exePath)
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("import-buddy")
		viper.SetConfigType("yaml")
	}

	bindEnv(viper.GetViper())

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
