package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// EmitVisibilityChanged emits the VisibilityChanged signal.
// It is emitted when the label goes from hidden to visible or back, not on
// every Display call.
func (s *Server) EmitVisibilityChanged(visible bool, text string) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	if err := conn.Emit(Path, Interface+"."+SignalVisibilityChanged, visible, text); err != nil {
		return fmt.Errorf("failed to emit %s signal: %w", SignalVisibilityChanged, err)
	}

	s.logger.Debug("emitted VisibilityChanged signal", "visible", visible, "text_len", len(text))
	return nil
}

// Connection returns the underlying D-Bus connection.
func (s *Server) Connection() *dbus.Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

// ParseVisibilityChanged decodes a VisibilityChanged signal.
func ParseVisibilityChanged(sig *dbus.Signal) (VisibilityEvent, error) {
	if sig == nil {
		return VisibilityEvent{}, fmt.Errorf("nil signal")
	}
	if sig.Name != Interface+"."+SignalVisibilityChanged {
		return VisibilityEvent{}, fmt.Errorf("unexpected signal %q", sig.Name)
	}
	if len(sig.Body) < 2 {
		return VisibilityEvent{}, fmt.Errorf("malformed %s signal: %d arguments", SignalVisibilityChanged, len(sig.Body))
	}

	var ev VisibilityEvent
	var ok bool
	if ev.Visible, ok = sig.Body[0].(bool); !ok {
		return VisibilityEvent{}, fmt.Errorf("malformed %s signal: visible is %T", SignalVisibilityChanged, sig.Body[0])
	}
	if ev.Text, ok = sig.Body[1].(string); !ok {
		return VisibilityEvent{}, fmt.Errorf("malformed %s signal: text is %T", SignalVisibilityChanged, sig.Body[1])
	}
	return ev, nil
}
