package dbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

// Client calls a running label server.
type Client struct {
	conn   *dbus.Conn
	obj    dbus.BusObject
	logger *slog.Logger
}

// NewClient opens a private session bus connection.
func NewClient(logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	return &Client{
		conn:   conn,
		obj:    conn.Object(BusName, Path),
		logger: logger,
	}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Display shows text on the label.
func (c *Client) Display(ctx context.Context, text string) error {
	if err := c.obj.CallWithContext(ctx, Interface+".Display", 0, text).Err; err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// Appear shows the current text again.
func (c *Client) Appear(ctx context.Context) error {
	if err := c.obj.CallWithContext(ctx, Interface+".Appear", 0).Err; err != nil {
		return fmt.Errorf("appear: %w", err)
	}
	return nil
}

// State returns the label state.
func (c *Client) State(ctx context.Context) (State, error) {
	var s State
	err := c.obj.CallWithContext(ctx, Interface+".GetState", 0).Store(&s.Text, &s.Visible, &s.RemainingMs)
	if err != nil {
		return State{}, fmt.Errorf("get state: %w", err)
	}
	return s, nil
}

// ServerInformation returns the server name, vendor, version and session.
func (c *Client) ServerInformation(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	err := c.obj.CallWithContext(ctx, Interface+".GetServerInformation", 0).
		Store(&info.Name, &info.Vendor, &info.Version, &info.Session)
	if err != nil {
		return ServerInfo{}, fmt.Errorf("get server information: %w", err)
	}
	return info, nil
}

// Watch calls fn for every VisibilityChanged signal until ctx is done.
func (c *Client) Watch(ctx context.Context, fn func(VisibilityEvent)) error {
	opts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(Path),
		dbus.WithMatchInterface(Interface),
		dbus.WithMatchMember(SignalVisibilityChanged),
	}
	if err := c.conn.AddMatchSignalContext(ctx, opts...); err != nil {
		return fmt.Errorf("failed to add match rule: %w", err)
	}
	defer func() {
		_ = c.conn.RemoveMatchSignal(opts...)
	}()

	ch := make(chan *dbus.Signal, 16)
	c.conn.Signal(ch)
	defer c.conn.RemoveSignal(ch)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig, ok := <-ch:
			if !ok {
				return fmt.Errorf("connection closed")
			}
			if sig.Path != Path {
				continue
			}
			ev, err := ParseVisibilityChanged(sig)
			if err != nil {
				c.logger.Debug("ignoring signal", "name", sig.Name, "error", err)
				continue
			}
			fn(ev)
		}
	}
}
