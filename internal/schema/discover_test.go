package schema_test

import (
	"testing"

	"import-buddy/internal/schema"
)

func record(tables ...*schema.TableSchema) *schema.ImportRecord {
	r := schema.NewImportRecord()
	for _, t := range tables {
		r.Add(t.Name+".csv", t)
	}
	return r
}

func table(name string, cols ...string) *schema.TableSchema {
	s := &schema.TableSchema{Name: name}
	for _, c := range cols {
		s.Columns = append(s.Columns, schema.ColumnSpec{Name: c})
	}
	return s
}

func TestDiscover_PartsProducts(t *testing.T) {
	r := record(
		table("parts", "partId", "productId", "qty"),
		table("products", "productId", "name"),
	)

	c, ok := schema.Discover(r)
	if !ok {
		t.Fatal("expected a candidate")
	}
	want := schema.RelationshipCandidate{Column: "productId", Left: "parts", Right: "products"}
	if c != want {
		t.Errorf("Discover = %+v, want %+v", c, want)
	}
}

func TestDiscover_NoOverlap(t *testing.T) {
	r := record(table("a", "x", "y"), table("b", "z"))
	if c, ok := schema.Discover(r); ok {
		t.Errorf("expected no candidate, got %+v", c)
	}
}

func TestDiscover_AdjacentPairsOnly(t *testing.T) {
	// a and c share "id" but are never compared.
	r := record(table("a", "id"), table("b", "other"), table("c", "id"))
	if c, ok := schema.Discover(r); ok {
		t.Errorf("expected no candidate, got %+v", c)
	}
}

func TestDiscover_FirstMatchingPair(t *testing.T) {
	r := record(table("a", "x"), table("b", "k", "y"), table("c", "y", "k"))
	c, ok := schema.Discover(r)
	if !ok {
		t.Fatal("expected a candidate")
	}
	if c.Left != "b" || c.Right != "c" || c.Column != "k" {
		t.Errorf("Discover = %+v", c)
	}
}

func TestDiscover_SingleTable(t *testing.T) {
	if _, ok := schema.Discover(record(table("a", "x"))); ok {
		t.Error("expected no candidate for one table")
	}
}

func TestReferenceTable(t *testing.T) {
	tests := []struct {
		tables []string
		chosen int
		want   string
	}{
		{[]string{"parts", "products"}, 0, "products"},
		{[]string{"parts", "products"}, 1, "parts"},
		{[]string{"a", "b", "c"}, 2, "a"},
		{[]string{"a", "b", "c"}, 0, "b"},
	}
	for _, tt := range tests {
		got, ok := schema.ReferenceTable(tt.tables, tt.chosen)
		if !ok || got != tt.want {
			t.Errorf("ReferenceTable(%v, %d) = %q, %v; want %q", tt.tables, tt.chosen, got, ok, tt.want)
		}
	}
	if _, ok := schema.ReferenceTable([]string{"only"}, 0); ok {
		t.Error("expected no reference table when only one table exists")
	}
}
