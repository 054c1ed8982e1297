package daemon

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	godbus "github.com/godbus/dbus/v5"
)

// Urgency is a freedesktop notification urgency.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Desktop notification service.
const (
	notificationsName      = "org.freedesktop.Notifications"
	notificationsPath      = "/org/freedesktop/Notifications"
	notificationsInterface = "org.freedesktop.Notifications"
)

// Message is a desktop notification about the daemon itself.
type Message struct {
	Summary string
	Body    string
	Urgency Urgency
}

// Notifier reports daemon problems as desktop notifications. Messages
// with the same key are sent at most once per interval.
type Notifier struct {
	mu     sync.Mutex
	logger *slog.Logger
	send   func(Message) error
	now    func() time.Time

	lastSent    map[string]time.Time
	minInterval time.Duration
	enabled     bool
}

// NewNotifier creates a notifier sending through the session bus
// notification service.
func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		logger:      logger,
		send:        sendDesktopNotification,
		now:         time.Now,
		lastSent:    make(map[string]time.Time),
		minInterval: 5 * time.Second,
		enabled:     true,
	}
}

// SetSendHandler replaces the function that delivers messages.
func (n *Notifier) SetSendHandler(send func(Message) error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.send = send
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between messages with the same key.
func (n *Notifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify sends msg unless a message with the same key was sent recently.
// It reports whether the message was sent.
func (n *Notifier) Notify(key string, msg Message) bool {
	n.mu.Lock()
	if !n.enabled || n.send == nil {
		n.mu.Unlock()
		return false
	}
	now := n.now()
	if last, ok := n.lastSent[key]; ok && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("notification rate-limited", "key", key)
		return false
	}
	n.lastSent[key] = now
	send := n.send
	n.mu.Unlock()

	if err := send(msg); err != nil {
		n.logger.Warn("failed to send notification", "key", key, "error", err)
		return false
	}
	n.logger.Debug("sent notification", "key", key, "summary", msg.Summary)
	return true
}

// NotifyConfigError reports a configuration file that failed to load.
func (n *Notifier) NotifyConfigError(err error) {
	n.Notify("config-error", Message{
		Summary: "Configuration Error",
		Body:    "Failed to reload configuration: " + err.Error(),
		Urgency: UrgencyNormal,
	})
}

// NotifyThemeError reports a theme that failed to load.
func (n *Notifier) NotifyThemeError(name string, err error) {
	n.Notify("theme-error", Message{
		Summary: "Theme Error",
		Body:    fmt.Sprintf("Failed to load theme %q: %v", name, err),
		Urgency: UrgencyNormal,
	})
}

// NotifyStartupError reports a failure that stops the daemon.
func (n *Notifier) NotifyStartupError(err error) {
	n.Notify("startup-error", Message{
		Summary: "transientlabeld failed to start",
		Body:    err.Error(),
		Urgency: UrgencyCritical,
	})
}

func sendDesktopNotification(msg Message) error {
	conn, err := godbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	hints := map[string]godbus.Variant{
		"urgency":       godbus.MakeVariant(byte(msg.Urgency)),
		"transient":     godbus.MakeVariant(true),
		"desktop-entry": godbus.MakeVariant("transientlabeld"),
	}
	icon := "dialog-warning"
	if msg.Urgency == UrgencyCritical {
		icon = "dialog-error"
	}

	obj := conn.Object(notificationsName, notificationsPath)
	call := obj.Call(notificationsInterface+".Notify", 0,
		"transientlabeld", uint32(0), icon, msg.Summary, msg.Body,
		[]string{}, hints, int32(5000),
	)
	if call.Err != nil {
		return fmt.Errorf("notify call failed: %w", call.Err)
	}
	return nil
}
