// Package visibility implements the show/auto-hide state machine behind a
// transient label. A Controller owns the displayed text, the visible flag
// and at most one pending hide timer; renderers observe it and never
// mutate it.
package visibility
