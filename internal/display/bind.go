package display

import (
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/transientlabel/internal/label"
	"github.com/jmylchreest/transientlabel/internal/visibility"
)

// Bind renders every change of l in w and wires clicks to l.Appear.
// Observer callbacks may come from any goroutine, so rendering is queued on
// the GTK main loop; snapshots that arrive out of order are dropped.
// The returned function detaches the window from the label.
func Bind(l *label.Label, w *Window) func() {
	var (
		rendered bool
		lastSeq  uint64
	)

	// Only runs on the main loop. Seq only grows, so a smaller value is a
	// stale snapshot.
	render := func(s visibility.State) {
		if rendered && s.Seq <= lastSeq {
			return
		}
		rendered = true
		lastSeq = s.Seq
		w.Render(s)
	}

	w.OnClick(l.Appear)
	render(l.State())

	cancel := l.Observe(func(s visibility.State) {
		glib.IdleAdd(func() {
			render(s)
		})
	})

	return func() {
		cancel()
		w.OnClick(nil)
	}
}
