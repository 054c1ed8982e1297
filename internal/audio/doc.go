// Package audio plays the optional cue sound when a label appears.
// WAV, OGG and MP3 files are decoded once with beep and kept in memory,
// and a changed file on disk is decoded again on its next use.
package audio
