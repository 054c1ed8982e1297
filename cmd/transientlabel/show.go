package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/transientlabel/internal/dbus"
)

var showOpts struct {
	stdin bool
}

var showCmd = &cobra.Command{
	Use:   "show [text...]",
	Short: "Show text on the label",
	Long: `Replace the label text, make it visible and restart the hide countdown.
Multiple arguments are joined with spaces.

Examples:
  transientlabel show 42
  transientlabel show "Volume 80%"
  pamixer --get-volume | transientlabel show --stdin`,
	RunE: runShow,
}

var appearCmd = &cobra.Command{
	Use:   "appear",
	Short: "Show the current text again",
	Long:  `Make the label visible with its current text and restart the hide countdown.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			return c.Appear(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(appearCmd)

	showCmd.Flags().BoolVar(&showOpts.stdin, "stdin", false,
		"Read the text from stdin (trailing newlines are removed)")
}

func runShow(cmd *cobra.Command, args []string) error {
	text, err := showText(args, showOpts.stdin, os.Stdin)
	if err != nil {
		return err
	}
	return withClient(func(ctx context.Context, c *dbus.Client) error {
		return c.Display(ctx, text)
	})
}

// showText returns the label text from args or, with fromStdin, from r.
func showText(args []string, fromStdin bool, r io.Reader) (string, error) {
	if fromStdin {
		if len(args) > 0 {
			return "", errors.New("cannot combine --stdin with text arguments")
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	if len(args) == 0 {
		return "", errors.New("requires text or --stdin")
	}
	return strings.Join(args, " "), nil
}
