package console

import (
	"fmt"

	"github.com/gosuri/uiprogress"
)

// LoadProgress shows a progress bar while rows are appended to a table.
type LoadProgress struct {
	progress *uiprogress.Progress
	bar      *uiprogress.Bar
}

// StartLoad starts a progress bar for total rows of table.
func StartLoad(table string, total int) *LoadProgress {
	p := uiprogress.New()
	p.Start()
	bar := p.AddBar(max(total, 1)).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return fmt.Sprintf("Loading %s: ", table)
	})
	return &LoadProgress{progress: p, bar: bar}
}

func (l *LoadProgress) Incr() {
	l.bar.Incr()
}

func (l *LoadProgress) Stop() {
	l.progress.Stop()
}
