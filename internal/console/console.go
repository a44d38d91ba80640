// Package console renders the operator-facing output of an import run.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/labstack/gommon/color"
	"github.com/mattn/go-isatty"
)

const (
	defaultWidth = 80
	// TimestampLayout renders banners as MM-DD-YYYY HH:MM:SS.
	TimestampLayout = "01-02-2006 15:04:05"
)

// Console writes formatted progress, warnings and banners.
type Console struct {
	out   io.Writer
	color *color.Color
	width int
}

// New returns a Console writing to out. Colour is enabled only when out is
// a terminal.
func New(out io.Writer) *Console {
	c := color.New()
	c.SetOutput(out)
	if f, ok := out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		c.Disable()
	}
	return &Console{out: out, color: c, width: defaultWidth}
}

func (c *Console) Writer() io.Writer { return c.out }

func (c *Console) rule() string {
	return c.color.Bold(c.color.Cyan(strings.Repeat("-", c.width)))
}

func (c *Console) center(msg string) string {
	pad := (c.width - len(msg)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + msg
}

// Banner prints msg centred between two rules.
func (c *Console) Banner(msg string) {
	fmt.Fprintln(c.out, c.rule())
	fmt.Fprintln(c.out, c.color.Bold(c.color.Cyan(c.center(msg))))
	fmt.Fprintln(c.out, c.rule())
}

// TimestampBanner prints a banner suffixed with the time of day.
func (c *Console) TimestampBanner(msg string, at time.Time) {
	c.Banner(fmt.Sprintf("%s at %s", msg, at.Format(TimestampLayout)))
}

// Step announces step i of n.
func (c *Console) Step(i, n int, format string, args ...any) {
	msg := fmt.Sprintf("%d/%d %s", i, n, fmt.Sprintf(format, args...))
	fmt.Fprintf(c.out, "%s %s\n", c.color.Bold(c.color.Magenta(msg)), "...")
}

func (c *Console) Info(format string, args ...any) {
	fmt.Fprintf(c.out, "... %s\n", fmt.Sprintf(format, args...))
}

func (c *Console) Warn(format string, args ...any) {
	fmt.Fprintf(c.out, "... %s %s\n", c.color.Yellow("warning:"), fmt.Sprintf(format, args...))
}

// Highlight prints a line with its label emphasised, e.g. "renaming:".
func (c *Console) Highlight(label, format string, args ...any) {
	fmt.Fprintf(c.out, "... %s %s\n", c.color.Yellow(label), fmt.Sprintf(format, args...))
}

func (c *Console) Invalid(format string, args ...any) {
	fmt.Fprintf(c.out, "... %s %s\n", c.color.Bold(c.color.Yellow("invalid response:")), fmt.Sprintf(format, args...))
}

func (c *Console) Success(format string, args ...any) {
	fmt.Fprintf(c.out, "... %s\n", c.color.Bold(c.color.Green(fmt.Sprintf(format, args...))))
}

func (c *Console) Failure(label, format string, args ...any) {
	fmt.Fprintf(c.out, "... %s %s\n", c.color.Bold(c.color.Red(label)), fmt.Sprintf(format, args...))
}

// Prompt prints the input marker without a newline.
func (c *Console) Prompt() {
	fmt.Fprint(c.out, "... ")
}

// Options prints an enumerated, 1-based list.
func (c *Console) Options(options []string) {
	for i, o := range options {
		fmt.Fprintf(c.out, "... %s\n", c.color.Bold(c.color.Cyan(fmt.Sprintf("%d: %s", i+1, o))))
	}
}

func (c *Console) Blank() {
	fmt.Fprintln(c.out)
}

// Table renders rows under a header, columns aligned.
func (c *Console) Table(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

// Usage prints how to invoke the program.
func (c *Console) Usage(program string) {
	fmt.Fprintf(c.out, "\n%s\n%s %s %s\n\n",
		c.color.Underline(c.color.Red("Missing arguments, correct usage:")),
		c.color.Bold(c.color.Yellow(program)),
		c.color.Bold(c.color.Green("file_1.csv file_2.csv")),
		"... "+c.color.Bold(c.color.Green("file_N.csv")))
}
