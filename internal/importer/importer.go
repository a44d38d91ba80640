// Package importer drives an interactive import run: each file is profiled,
// shown to the operator and, once confirmed, materialized as a table. After
// the last file a foreign key between two of the new tables may be proposed.
package importer

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"import-buddy/internal/console"
	"import-buddy/internal/engine"
	"import-buddy/internal/prompt"
	"import-buddy/internal/schema"
)

// ErrAborted is returned when the operator rejects a profiled file.
var ErrAborted = errors.New("import aborted by operator")

const defaultSampleSize = 10

// Reader loads a source file into memory.
type Reader interface {
	Read(path string) (*schema.RawTable, error)
}

// Materializer applies schemas and rows to the target database.
// Both *engine.Session and *engine.DryRun satisfy it.
type Materializer interface {
	DropCreate(ctx context.Context, ts *schema.TableSchema) (string, error)
	Load(ctx context.Context, ts *schema.TableSchema, t *schema.RawTable, onRow func()) (int, error)
	AddForeignKey(ctx context.Context, fkTable, pkTable, column string) (string, error)
	Verify(ctx context.Context, ts *schema.TableSchema, expected int) (*engine.Verification, error)
}

var (
	_ Materializer = (*engine.Session)(nil)
	_ Materializer = (*engine.DryRun)(nil)
)

// Progress tracks rows appended during a load.
type Progress interface {
	Incr()
	Stop()
}

type Options struct {
	// SampleSize is the number of random rows shown at the profiling gate.
	SampleSize int
	// Placeholder names the first unnamed column of a file.
	Placeholder string
	Rand        *rand.Rand
	Now         func() time.Time
	// Progress, when set, is started for every load.
	Progress func(table string, total int) Progress
}

// Importer runs the import state machine for one invocation.
type Importer struct {
	reader Reader
	db     Materializer
	prompt prompt.Provider
	con    *console.Console
	logger *zap.Logger
	opts   Options
	record *schema.ImportRecord
}

func New(r Reader, db Materializer, p prompt.Provider, con *console.Console, logger *zap.Logger, opts Options) *Importer {
	if opts.SampleSize <= 0 {
		opts.SampleSize = defaultSampleSize
	}
	if opts.Placeholder == "" {
		opts.Placeholder = schema.DefaultPlaceholderColumn
	}
	if opts.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		reader: r,
		db:     db,
		prompt: p,
		con:    con,
		logger: logger,
		opts:   opts,
		record: schema.NewImportRecord(),
	}
}

// Record returns the tables materialized so far.
func (im *Importer) Record() *schema.ImportRecord {
	return im.record
}

// Run imports every path in order, then looks for a relation when more than
// one file was given. Any error ends the run; tables committed by earlier
// files are left in place.
func (im *Importer) Run(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return errors.New("no files to import")
	}

	steps := len(paths)
	if len(paths) > 1 {
		steps++
	}

	im.con.Banner("Welcome to Import Buddy CLI Tool!")

	for i, path := range paths {
		if err := im.importFile(ctx, i+1, steps, path); err != nil {
			return im.abort(err)
		}
	}

	if len(paths) > 1 {
		if err := im.relate(ctx, steps); err != nil {
			return im.abort(err)
		}
	}

	im.con.Blank()
	im.con.TimestampBanner("Successfully completed processes", im.opts.Now())
	return nil
}

func (im *Importer) abort(err error) error {
	if !errors.Is(err, ErrAborted) {
		im.con.Failure("error:", "%v", err)
	}
	im.logger.Warn("import stopped", zap.Error(err))
	im.con.Blank()
	im.con.TimestampBanner("Aborted import processes", im.opts.Now())
	return err
}

func (im *Importer) importFile(ctx context.Context, step, steps int, path string) error {
	im.con.Blank()
	im.con.Step(step, steps, "imports for file %s", path)
	im.con.Info("importing %s into local dataframe", path)

	raw, err := im.reader.Read(path)
	if err != nil {
		return err
	}
	im.con.Info("successfully read data into memory, %d rows", len(raw.Rows))

	if len(raw.Unnamed) > 0 {
		im.con.Warn("it looks like you forgot to name a column in your file: %s", path)
		if from, ok := schema.RenameUnnamed(raw, im.opts.Placeholder); ok {
			im.con.Highlight("renaming:", "%q --> %q", from, im.opts.Placeholder)
			im.con.Info("the column name will be inferred this time, but it is best to name every column")
		}
	}

	ts, err := schema.Profile(raw)
	if err != nil {
		return fmt.Errorf("failed to profile %s: %w", path, err)
	}
	im.present(path, raw, ts)

	ok, err := im.prompt.Confirm("does the above sample of the data look correct?", "start over")
	if err != nil {
		return fmt.Errorf("confirmation for %s: %w", path, err)
	}
	if !ok {
		im.con.Failure("Process aborted:", "please exit the program and correct the data before retrying")
		return ErrAborted
	}

	im.con.Info("confirmed, generating %s table schema", ts.Name)
	create, err := im.db.DropCreate(ctx, ts)
	if err != nil {
		return err
	}
	im.con.Info("successfully created table using extrapolated schema:")
	im.con.Info("%s", create)

	loaded, err := im.load(ctx, ts, raw)
	if err != nil {
		return err
	}
	im.con.Success("successfully imported %s as table %s", path, ts.Name)
	im.logger.Debug("imported file",
		zap.String("file", path),
		zap.String("table", ts.Name),
		zap.Int("rows", loaded))

	v, err := im.db.Verify(ctx, ts, len(raw.Rows))
	switch {
	case err != nil:
		im.con.Warn("could not verify table %s: %v", ts.Name, err)
	case !v.OK():
		im.con.Warn("table %s: %s (%d of %d rows)", ts.Name, v.Status, v.Actual, v.Expected)
	}

	im.record.Add(path, ts)
	return nil
}

// present shows a random sample of the file and the schema inferred for it.
func (im *Importer) present(path string, raw *schema.RawTable, ts *schema.TableSchema) {
	im.con.Info("ready to import file %q with random %d row sample below:", path, min(im.opts.SampleSize, len(raw.Rows)))
	im.con.Blank()
	im.con.Table(raw.Columns, raw.Sample(im.opts.SampleSize, im.opts.Rand))
	im.con.Blank()

	rows := make([][]string, len(ts.Columns))
	for i, c := range ts.Columns {
		pk := ""
		if c.IsPrimaryKey {
			pk = "primary key"
		}
		rows[i] = []string{c.Name, c.Type.String(), pk}
	}
	im.con.Table([]string{"column", "type", ""}, rows)
	im.con.Blank()
}

func (im *Importer) load(ctx context.Context, ts *schema.TableSchema, raw *schema.RawTable) (int, error) {
	if im.opts.Progress == nil {
		return im.db.Load(ctx, ts, raw, nil)
	}
	bar := im.opts.Progress(ts.Name, len(raw.Rows))
	defer bar.Stop()
	return im.db.Load(ctx, ts, raw, bar.Incr)
}

// relate proposes a foreign key on the first shared column found between
// adjacent tables. A constraint the database refuses is reported and the run
// continues.
func (im *Importer) relate(ctx context.Context, step int) error {
	tables := im.record.Tables()

	im.con.Blank()
	im.con.Step(step, step, "define relations for tables")
	im.con.Info("checking tables %s for matching columns", strings.Join(tables, " & "))

	candidate, found := schema.Discover(im.record)
	if !found {
		im.con.Info("no matching columns found, no relation defined")
		return nil
	}
	im.con.Highlight("potential relation found with column:", "%s", candidate.Column)

	ok, err := im.prompt.Confirm("would you like to define a relation using this column?", "ignore")
	if err != nil {
		return fmt.Errorf("relation confirmation: %w", err)
	}
	if !ok {
		im.con.Info("confirmed, potential relation ignored and concluding process")
		return nil
	}

	im.con.Info("confirmed, please select which table should contain the foreign key relationship:")
	chosen, err := im.prompt.Select("type the corresponding number and press [Enter]", tables)
	if err != nil {
		return fmt.Errorf("relation selection: %w", err)
	}
	fkTable := tables[chosen]
	pkTable, ok := schema.ReferenceTable(tables, chosen)
	if !ok {
		return fmt.Errorf("no reference table for %s", fkTable)
	}
	im.con.Info("confirmed, table %q will be defined as the foreign key relation", fkTable)
	im.con.Info("executing corresponding sql to define relation between selected tables:")

	stmt, err := im.db.AddForeignKey(ctx, fkTable, pkTable, candidate.Column)
	var constraintErr *engine.ConstraintError
	if errors.As(err, &constraintErr) {
		im.logger.Warn("foreign key rejected",
			zap.String("table", fkTable),
			zap.String("references", pkTable),
			zap.String("stmt", constraintErr.Stmt),
			zap.Error(constraintErr.Err))
		im.con.Warn("it looks like you choose a table without a corresponding pk relationship")
		im.con.Info("no relation defined, please ensure the correct pk exists in the relation table before trying again")
		return nil
	}
	if err != nil {
		return err
	}

	im.con.Info("%s", stmt)
	im.con.Success("successfully defined relation using %s key", candidate.Column)
	im.logger.Debug("relation defined",
		zap.String("table", fkTable),
		zap.String("references", pkTable),
		zap.String("column", candidate.Column))
	return nil
}
