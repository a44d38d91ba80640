package importer_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	_ "modernc.org/sqlite"

	"import-buddy/internal/console"
	"import-buddy/internal/dialect"
	"import-buddy/internal/engine"
	"import-buddy/internal/importer"
	"import-buddy/internal/prompt"
	"import-buddy/internal/reader"
	"import-buddy/internal/schema"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)

const (
	partsCSV    = "partId,productId,qty,label\n1,10,4,washer\n2,10,1,spring\n3,11,7,pin\n"
	productsCSV = "productId,name\n10,bolt\n11,nut\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type harness struct {
	out *bytes.Buffer
	im  *importer.Importer
}

func newHarness(t *testing.T, db importer.Materializer, answers ...string) *harness {
	t.Helper()
	out := &bytes.Buffer{}
	con := console.New(out)
	im := importer.New(reader.New(), db, prompt.Script(con, answers...), con, zaptest.NewLogger(t), importer.Options{
		SampleSize: 2,
		Rand:       rand.New(rand.NewPCG(1, 2)),
		Now:        func() time.Time { return fixedNow },
	})
	return &harness{out: out, im: im}
}

func sqliteSession(t *testing.T) (*engine.Session, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "import.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s, err := engine.NewSession(context.Background(), db, &dialect.SQLiteDialect{}, time.Second, zaptest.NewLogger(t))
	require.NoError(t, err)
	return s, db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`select count(*) from sqlite_master where type = 'table' and name = ?`, name).Scan(&n))
	return n == 1
}

// fakeDB records the calls an Importer makes.
type fakeDB struct {
	created []string
	loaded  map[string]int
	fks     []string
	fkErr   error
}

func (f *fakeDB) DropCreate(_ context.Context, ts *schema.TableSchema) (string, error) {
	f.created = append(f.created, ts.Name)
	return "create " + ts.Name, nil
}

func (f *fakeDB) Load(_ context.Context, ts *schema.TableSchema, t *schema.RawTable, onRow func()) (int, error) {
	if f.loaded == nil {
		f.loaded = make(map[string]int)
	}
	for range t.Rows {
		if onRow != nil {
			onRow()
		}
	}
	f.loaded[ts.Name] = len(t.Rows)
	return len(t.Rows), nil
}

func (f *fakeDB) AddForeignKey(_ context.Context, fkTable, pkTable, column string) (string, error) {
	if f.fkErr != nil {
		return "", &engine.ConstraintError{Table: fkTable, RefTable: pkTable, Column: column, Err: f.fkErr}
	}
	fk := fmt.Sprintf("%s.%s->%s", fkTable, column, pkTable)
	f.fks = append(f.fks, fk)
	return "alter " + fk, nil
}

func (f *fakeDB) Verify(_ context.Context, ts *schema.TableSchema, expected int) (*engine.Verification, error) {
	return &engine.Verification{Table: ts.Name, Expected: expected, Actual: f.loaded[ts.Name], Status: engine.StatusOK}, nil
}

func TestRun_SingleFile(t *testing.T) {
	dir := t.TempDir()
	s, db := sqliteSession(t)
	h := newHarness(t, s, "y")

	err := h.im.Run(context.Background(), []string{writeFile(t, dir, "products.csv", productsCSV)})
	require.NoError(t, err)

	assert.True(t, tableExists(t, db, "products"))
	cols, err := s.Inspect(context.Background(), "products")
	require.NoError(t, err)
	assert.Equal(t, []engine.InspectedColumn{
		{Name: "productId", IsPrimaryKey: true},
		{Name: "name"},
	}, cols)

	out := h.out.String()
	assert.Contains(t, out, "Welcome to Import Buddy CLI Tool!")
	assert.Contains(t, out, "1/1 imports for file")
	assert.Contains(t, out, "successfully read data into memory, 2 rows")
	assert.Contains(t, out, `create table if not exists "products" ("productId" integer primary key, "name" text);`)
	assert.Contains(t, out, "successfully imported")
	assert.Contains(t, out, "Successfully completed processes at 03-09-2024 14:05:06")
	assert.NotContains(t, out, "matching columns")
}

func TestRun_RejectCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	s, db := sqliteSession(t)
	h := newHarness(t, s, "n")

	err := h.im.Run(context.Background(), []string{
		writeFile(t, dir, "parts.csv", partsCSV),
		writeFile(t, dir, "products.csv", productsCSV),
	})
	require.ErrorIs(t, err, importer.ErrAborted)

	assert.False(t, tableExists(t, db, "parts"))
	assert.False(t, tableExists(t, db, "products"))
	assert.Equal(t, 0, h.im.Record().Len())

	out := h.out.String()
	assert.Contains(t, out, "please exit the program and correct the data before retrying")
	assert.Contains(t, out, "Aborted import processes at 03-09-2024 14:05:06")
	assert.NotContains(t, out, "2/3 imports")
}

func TestRun_RejectSecondFileKeepsFirst(t *testing.T) {
	dir := t.TempDir()
	s, db := sqliteSession(t)
	h := newHarness(t, s, "y", "n")

	err := h.im.Run(context.Background(), []string{
		writeFile(t, dir, "parts.csv", partsCSV),
		writeFile(t, dir, "products.csv", productsCSV),
	})
	require.ErrorIs(t, err, importer.ErrAborted)

	assert.True(t, tableExists(t, db, "parts"))
	assert.False(t, tableExists(t, db, "products"))
}

func TestRun_InvalidConfirmationReprompts(t *testing.T) {
	dir := t.TempDir()
	f := &fakeDB{}
	h := newHarness(t, f, "maybe", "", "Y")

	require.NoError(t, h.im.Run(context.Background(), []string{writeFile(t, dir, "products.csv", productsCSV)}))

	assert.Equal(t, []string{"products"}, f.created)
	assert.Contains(t, h.out.String(), `please enter "y" to confirm or "N" to start over`)
}

func TestRun_UnnamedColumnRenamed(t *testing.T) {
	dir := t.TempDir()
	s, _ := sqliteSession(t)
	h := newHarness(t, s, "y")

	path := writeFile(t, dir, "a.csv", ",value\nhttp://x/1.png,3\nhttp://x/2.png,4\n")
	require.NoError(t, h.im.Run(context.Background(), []string{path}))

	out := h.out.String()
	assert.Contains(t, out, "warning:")
	assert.Contains(t, out, `renaming: "Unnamed: 0" --> "pngUrl"`)
	assert.Equal(t, []string{"pngUrl", "value"}, h.im.Record().Columns("a"))
	assert.Contains(t, out, `create table if not exists "a" ("pngUrl" text, "value" integer);`)
}

func TestRun_ReadErrorIsFatal(t *testing.T) {
	f := &fakeDB{}
	h := newHarness(t, f)

	err := h.im.Run(context.Background(), []string{filepath.Join(t.TempDir(), "missing.csv")})

	var readErr *reader.ReadError
	require.True(t, errors.As(err, &readErr), "got %v", err)
	assert.Empty(t, f.created)
	assert.Contains(t, h.out.String(), "Aborted import processes")
}

func TestRun_NoInputIsFatal(t *testing.T) {
	dir := t.TempDir()
	out := &bytes.Buffer{}
	con := console.New(out)
	f := &fakeDB{}
	im := importer.New(reader.New(), f, prompt.NewTerminal(bytes.NewReader(nil), con), con, nil, importer.Options{})

	err := im.Run(context.Background(), []string{writeFile(t, dir, "products.csv", productsCSV)})
	require.ErrorIs(t, err, prompt.ErrNoInput)
	assert.Empty(t, f.created)
}

func TestRun_PartsProductsForeignKeyRejected(t *testing.T) {
	dir := t.TempDir()
	s, db := sqliteSession(t)
	// confirm parts, confirm products, define relation, parts receives the key
	h := newHarness(t, s, "y", "y", "y", "1")

	err := h.im.Run(context.Background(), []string{
		writeFile(t, dir, "parts.csv", partsCSV),
		writeFile(t, dir, "products.csv", productsCSV),
	})
	require.NoError(t, err)

	assert.True(t, tableExists(t, db, "parts"))
	assert.True(t, tableExists(t, db, "products"))

	out := h.out.String()
	assert.Contains(t, out, "3/3 define relations for tables")
	assert.Contains(t, out, "checking tables parts & products for matching columns")
	assert.Contains(t, out, "potential relation found with column: productId")
	assert.Contains(t, out, "1: parts")
	assert.Contains(t, out, "2: products")
	assert.Contains(t, out, "it looks like you choose a table without a corresponding pk relationship")
	assert.Contains(t, out, "Successfully completed processes")
}

func TestRun_ForeignKeyDefined(t *testing.T) {
	dir := t.TempDir()
	f := &fakeDB{}
	h := newHarness(t, f, "y", "y", "y", "0", "1")

	err := h.im.Run(context.Background(), []string{
		writeFile(t, dir, "parts.csv", partsCSV),
		writeFile(t, dir, "products.csv", productsCSV),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"parts.productId->products"}, f.fks)
	assert.Equal(t, map[string]int{"parts": 3, "products": 2}, f.loaded)
	assert.Contains(t, h.out.String(), `confirmed, table "parts" will be defined as the foreign key relation`)
	out := h.out.String()
	assert.Contains(t, out, "please enter a valid option displayed above")
	assert.Contains(t, out, "successfully defined relation using productId key")
}

func TestRun_ForeignKeyDeclined(t *testing.T) {
	dir := t.TempDir()
	f := &fakeDB{}
	h := newHarness(t, f, "y", "y", "n")

	require.NoError(t, h.im.Run(context.Background(), []string{
		writeFile(t, dir, "parts.csv", partsCSV),
		writeFile(t, dir, "products.csv", productsCSV),
	}))
	assert.Empty(t, f.fks)
	assert.Contains(t, h.out.String(), "potential relation ignored")
}

func TestRun_NoSharedColumn(t *testing.T) {
	dir := t.TempDir()
	f := &fakeDB{}
	h := newHarness(t, f, "y", "y")

	require.NoError(t, h.im.Run(context.Background(), []string{
		writeFile(t, dir, "colors.csv", "color,hex\nred,#f00\n"),
		writeFile(t, dir, "sizes.csv", "size,inches\nS,30\n"),
	}))

	assert.Empty(t, f.fks)
	out := h.out.String()
	assert.Contains(t, out, "no matching columns found")
	assert.NotContains(t, out, "potential relation")
	assert.Contains(t, out, "Successfully completed processes")
}

func TestRun_ThreeTablesReferenceFirstOther(t *testing.T) {
	dir := t.TempDir()
	f := &fakeDB{}
	h := newHarness(t, f, "y", "y", "y", "y", "3")

	require.NoError(t, h.im.Run(context.Background(), []string{
		writeFile(t, dir, "colors.csv", "color,hex\nred,#f00\n"),
		writeFile(t, dir, "products.csv", productsCSV),
		writeFile(t, dir, "parts.csv", partsCSV),
	}))

	// colors and products share nothing, so the candidate comes from the
	// second pair; the key still references the first table in import order.
	assert.Equal(t, []string{"parts.productId->colors"}, f.fks)
	assert.Contains(t, h.out.String(), "4/4 define relations for tables")
}

func TestRun_DryRun(t *testing.T) {
	dir := t.TempDir()
	var sim bytes.Buffer
	dry := engine.NewDryRun(&dialect.PostgresDialect{}, &sim)
	h := newHarness(t, dry, "y", "y", "y", "1")

	require.NoError(t, h.im.Run(context.Background(), []string{
		writeFile(t, dir, "parts.csv", partsCSV),
		writeFile(t, dir, "products.csv", productsCSV),
	}))

	assert.Contains(t, sim.String(), `[SIMULATION] drop table if exists "parts";`)
	assert.Contains(t, h.out.String(),
		`alter table "parts" add constraint "fk_productId" foreign key ("productId") references "products" ("productId");`)
}

func TestRun_ProgressHook(t *testing.T) {
	dir := t.TempDir()
	f := &fakeDB{}
	out := &bytes.Buffer{}
	con := console.New(out)
	bar := &countingProgress{}
	im := importer.New(reader.New(), f, prompt.Script(con, "y"), con, nil, importer.Options{
		Progress: func(table string, total int) importer.Progress {
			bar.table, bar.total = table, total
			return bar
		},
	})

	require.NoError(t, im.Run(context.Background(), []string{writeFile(t, dir, "parts.csv", partsCSV)}))
	assert.Equal(t, "parts", bar.table)
	assert.Equal(t, 3, bar.total)
	assert.Equal(t, 3, bar.incr)
	assert.True(t, bar.stopped)
}

type countingProgress struct {
	table   string
	total   int
	incr    int
	stopped bool
}

func (p *countingProgress) Incr() { p.incr++ }
func (p *countingProgress) Stop() { p.stopped = true }
