// Package display shows a transient label in a GTK4 layer-shell window.
// It builds the widget tree, positions it via Wayland layer-shell, mirrors
// the label's visibility as CSS classes and turns clicks into Appear calls.
package display
