package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/transientlabel/internal/config"
)

var configInitOpts struct {
	force bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create the daemon configuration",
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective configuration as TOML",
	Long: `Print the configuration transientlabeld would use: the config file merged
over the defaults. Without a config file this prints the defaults.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadDaemonConfig(globalOpts.configPath)
		if err != nil {
			return err
		}
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check a configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath(args)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if _, err := config.ParseDaemonConfig(data); err != nil {
			return err
		}
		fmt.Printf("%s: ok\n", path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath(args)
		if _, err := os.Stat(path); err == nil && !configInitOpts.force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check config file: %w", err)
		}

		if err := config.SaveDaemonConfig(config.DefaultDaemonConfig(), path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration and themes paths",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("config: %s\n", configPath(nil))
		fmt.Printf("themes: %s\n", config.ThemesDir())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPrintCmd, configValidateCmd, configInitCmd, configPathCmd)

	configInitCmd.Flags().BoolVarP(&configInitOpts.force, "force", "f", false,
		"Overwrite an existing file")
}

// configPath picks the positional path, then --config, then the default.
func configPath(args []string) string {
	if len(args) > 0 {
		return config.ExpandPath(args[0])
	}
	if globalOpts.configPath != "" {
		return config.ExpandPath(globalOpts.configPath)
	}
	return config.DaemonConfigPath()
}
