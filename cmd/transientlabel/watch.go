package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/transientlabel/internal/dbus"
)

var watchOpts struct {
	json bool
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print label transitions as they happen",
	Long: `Listen for VisibilityChanged signals from transientlabeld and print one
line per transition until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchOpts.json, "json", false, "Print events as JSON lines")
}

// watchEvent is the JSON form of a transition.
type watchEvent struct {
	Time    time.Time `json:"time"`
	Visible bool      `json:"visible"`
	Text    string    `json:"text"`
}

func runWatch(cmd *cobra.Command, args []string) error {
	c, err := dbus.NewClient(logger)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	encoder := json.NewEncoder(os.Stdout)
	err = c.Watch(ctx, func(ev dbus.VisibilityEvent) {
		now := time.Now()
		if watchOpts.json {
			if err := encoder.Encode(watchEvent{Time: now, Visible: ev.Visible, Text: ev.Text}); err != nil {
				logger.Warn("failed to write event", "error", err)
			}
			return
		}
		state := "hidden"
		if ev.Visible {
			state = "shown"
		}
		fmt.Printf("%s  %-6s  %q\n", now.Format("15:04:05.000"), state, ev.Text)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
