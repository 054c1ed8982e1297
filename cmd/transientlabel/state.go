package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/transientlabel/internal/dbus"
	"github.com/jmylchreest/transientlabel/internal/output"
)

var stateOpts struct {
	format   string
	template string
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the label state",
	Long: `Print the current label text, whether it is visible and how long until
it hides.

Output formats:
  text    Human readable (default); --template takes a Go text/template
          with .Text, .Visible, .RemainingMs and .RemainingHuman
  json    JSON object
  yaml    YAML document
  waybar  Waybar custom module JSON:

  "custom/label": {
    "exec": "transientlabel state --output waybar",
    "interval": 1,
    "return-type": "json",
    "on-click": "transientlabel appear"
  }`,
	Args: cobra.NoArgs,
	RunE: runState,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print information about the running daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *dbus.Client) error {
			info, err := c.ServerInformation(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "name:\t%s\n", info.Name)
			fmt.Fprintf(w, "vendor:\t%s\n", info.Vendor)
			fmt.Fprintf(w, "version:\t%s\n", info.Version)
			fmt.Fprintf(w, "session:\t%s\n", info.Session)
			return w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(infoCmd)

	stateCmd.Flags().StringVarP(&stateOpts.format, "output", "o", string(output.FormatText),
		"Output format: text, json, yaml, waybar")
	stateCmd.Flags().StringVar(&stateOpts.template, "template", "",
		"Go template for text output")
}

func runState(cmd *cobra.Command, args []string) error {
	formatter, err := output.NewFormatter(output.FormatType(stateOpts.format), output.FormatterOptions{
		Template: stateOpts.template,
	})
	if err != nil {
		return err
	}

	err = withClient(func(ctx context.Context, c *dbus.Client) error {
		s, err := c.State(ctx)
		if err != nil {
			return err
		}
		return formatter.Format(os.Stdout, s)
	})

	// Waybar keeps the module alive on a hidden class rather than an error.
	if err != nil && output.FormatType(stateOpts.format) == output.FormatWaybar {
		logger.Debug("daemon unavailable", "error", err)
		return formatter.Format(os.Stdout, dbus.State{})
	}
	return err
}
