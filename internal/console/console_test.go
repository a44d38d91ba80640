package console_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"import-buddy/internal/console"
)

func TestBufferHasNoColour(t *testing.T) {
	var out bytes.Buffer
	c := console.New(&out)

	c.Warn("column %q has no header", "Unnamed: 0")
	assert.Equal(t, "... warning: column \"Unnamed: 0\" has no header\n", out.String())
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestTimestampBanner(t *testing.T) {
	var out bytes.Buffer
	c := console.New(&out)

	c.TimestampBanner("Successfully completed processes", time.Date(2024, 12, 1, 9, 3, 7, 0, time.UTC))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, strings.Repeat("-", 80), lines[0])
	assert.Equal(t, "Successfully completed processes at 12-01-2024 09:03:07", strings.TrimSpace(lines[1]))
	assert.Equal(t, lines[0], lines[2])
}

func TestStepAndOptions(t *testing.T) {
	var out bytes.Buffer
	c := console.New(&out)

	c.Step(2, 3, "imports for file %s", "products.csv")
	c.Options([]string{"parts", "products"})

	assert.Equal(t, "2/3 imports for file products.csv ...\n... 1: parts\n... 2: products\n", out.String())
}

func TestTableAligns(t *testing.T) {
	var out bytes.Buffer
	c := console.New(&out)

	c.Table([]string{"productId", "name"}, [][]string{{"10", "bolt"}, {"11", "hex nut"}})

	assert.Equal(t, "productId  name\n10         bolt\n11         hex nut\n", out.String())
}

func TestUsage(t *testing.T) {
	var out bytes.Buffer
	console.New(&out).Usage("import-buddy")

	assert.Contains(t, out.String(), "Missing arguments, correct usage:")
	assert.Contains(t, out.String(), "import-buddy file_1.csv file_2.csv ... file_N.csv")
}
