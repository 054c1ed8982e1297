// Package daemon coordinates the pieces of transientlabeld: the label, the
// session-bus server, the audio cue, configuration hot-reload and the
// on-screen renderer.
package daemon
