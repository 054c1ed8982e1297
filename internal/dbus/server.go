package dbus

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/transientlabel/internal/visibility"
)

// Label is the part of a label the server drives.
type Label interface {
	Display(text string)
	Appear()
	State() visibility.State
}

// Server implements the io.github.jmylchreest.TransientLabel D-Bus interface.
type Server struct {
	conn   *dbus.Conn
	logger *slog.Logger
	label  Label
	now    func() time.Time

	mu         sync.RWMutex
	serverInfo ServerInfo
	running    bool
}

// NewServer creates a Server driving l.
func NewServer(l Label, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:     logger,
		label:      l,
		now:        time.Now,
		serverInfo: DefaultServerInfo(),
	}
}

// SetServerInfo sets the server information returned by GetServerInformation.
func (s *Server) SetServerInfo(info ServerInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverInfo = info
}

// Start connects to the session bus and exports the label service.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := conn.Export(s, Path, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	if err := conn.Export(introspect.NewIntrospectable(introspectNode()), Path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	s.mu.Lock()
	s.conn = conn
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus label server started", "interface", Interface, "path", Path)
	return nil
}

// Stop releases the bus name. The shared session connection stays open.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if _, err := s.conn.ReleaseName(BusName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	_ = s.conn.Export(nil, Path, Interface)
	_ = s.conn.Export(nil, Path, "org.freedesktop.DBus.Introspectable")

	s.logger.Info("D-Bus label server stopped")
	return nil
}

// Display shows text and restarts the hide countdown.
// D-Bus method: Display(s) -> nothing
func (s *Server) Display(text string) *dbus.Error {
	if s.label == nil {
		return dbus.MakeFailedError(fmt.Errorf("no label attached"))
	}
	s.logger.Debug("Display called", "text_len", len(text))
	s.label.Display(text)
	return nil
}

// Appear shows the current text again and restarts the hide countdown.
// D-Bus method: Appear() -> nothing
func (s *Server) Appear() *dbus.Error {
	if s.label == nil {
		return dbus.MakeFailedError(fmt.Errorf("no label attached"))
	}
	s.logger.Debug("Appear called")
	s.label.Appear()
	return nil
}

// GetState returns the current text, visibility and milliseconds until hide.
// D-Bus method: GetState() -> (sbx)
func (s *Server) GetState() (string, bool, int64, *dbus.Error) {
	if s.label == nil {
		return "", false, 0, dbus.MakeFailedError(fmt.Errorf("no label attached"))
	}
	state := StateFrom(s.label.State(), s.now())
	return state.Text, state.Visible, state.RemainingMs, nil
}

// GetServerInformation returns information about the label server.
// D-Bus method: GetServerInformation() -> (ssss)
func (s *Server) GetServerInformation() (string, string, string, string, *dbus.Error) {
	s.mu.RLock()
	info := s.serverInfo
	s.mu.RUnlock()

	if info.Session == "" && s.label != nil {
		info.Session = s.label.State().Session
	}
	return info.Name, info.Vendor, info.Version, info.Session, nil
}

func introspectNode() *introspect.Node {
	return &introspect.Node{
		Name: Path,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: labelMethods(),
				Signals: labelSignals(),
			},
		},
	}
}

// labelMethods returns the D-Bus method introspection data.
func labelMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "Display",
			Args: []introspect.Arg{
				{Name: "text", Type: "s", Direction: "in"},
			},
		},
		{
			Name: "Appear",
		},
		{
			Name: "GetState",
			Args: []introspect.Arg{
				{Name: "text", Type: "s", Direction: "out"},
				{Name: "visible", Type: "b", Direction: "out"},
				{Name: "remaining_ms", Type: "x", Direction: "out"},
			},
		},
		{
			Name: "GetServerInformation",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "vendor", Type: "s", Direction: "out"},
				{Name: "version", Type: "s", Direction: "out"},
				{Name: "session", Type: "s", Direction: "out"},
			},
		},
	}
}

// labelSignals returns the D-Bus signal introspection data.
func labelSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: SignalVisibilityChanged,
			Args: []introspect.Arg{
				{Name: "visible", Type: "b"},
				{Name: "text", Type: "s"},
			},
		},
	}
}
