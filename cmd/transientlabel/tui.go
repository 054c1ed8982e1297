package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/transientlabel/internal/config"
	"github.com/jmylchreest/transientlabel/internal/tui"
)

var tuiOpts struct {
	delayMs   int
	clipboard string
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show a transient label in the terminal",
	Long: `Launch a terminal label that behaves like the on-screen one, without
needing transientlabeld. The label style comes from the daemon config.

Key bindings:
  enter       Show the typed text
  ctrl+a      Show the current text again
  ctrl+r      Show a random number
  ctrl+y      Copy the label text to the clipboard
  esc         Clear the input
  f1          Show help
  ctrl+c      Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().IntVar(&tuiOpts.delayMs, "delay", 0,
		"Hide delay in milliseconds (default: from config)")
	tuiCmd.Flags().StringVar(&tuiOpts.clipboard, "clipboard", "",
		"Clipboard command (auto-detects wl-copy, xclip or xsel if empty)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadDaemonConfig(globalOpts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	delay := cfg.Label.Delay.Duration()
	if cmd.Flags().Changed("delay") {
		if tuiOpts.delayMs <= 0 {
			return fmt.Errorf("--delay must be greater than zero")
		}
		delay = time.Duration(tuiOpts.delayMs) * time.Millisecond
	}

	return tui.Run(tui.RunOptions{
		Delay:            delay,
		Style:            cfg.Style(),
		ClipboardCommand: tuiOpts.clipboard,
		Logger:           logger,
	})
}
