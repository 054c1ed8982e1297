// Package dbus exposes a transient label on the session bus and provides a
// client for it. The interface is io.github.jmylchreest.TransientLabel.
package dbus
