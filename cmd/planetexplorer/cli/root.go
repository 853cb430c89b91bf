package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/planetexplorer/planetexplorer/internal/config"
)

var (
	cfgFile    string
	devMode    bool
	colorFlag  string
	appVersion string // set in Execute, reported by the MCP server
)

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	appVersion = version
	rootCmd := newRootCmd(version, commit, date)
	return rootCmd.Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planetexplorer",
		Short: "Browse Star Wars planets from the terminal, over HTTP or through MCP",
		Long: `Planet Explorer fetches planets from the public Star Wars API, normalizes
unknown values to null, and exposes them as a terminal browser, an HTTP API
with live screen state over Server-Sent Events, and an MCP server for AI agents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./planetexplorer.yaml)")
	cmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Enable development mode (debug logging)")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().String("api-url", "", "Base URL of the planets API")
	cmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "Color output: auto, always or never")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newPlanetsCmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newOpenAPICmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}

// persistentBindings maps config keys to root flags.
var persistentBindings = map[string]string{
	"logging.level": "log-level",
	"api.base_url":  "api-url",
}

// newViper builds the effective configuration source: defaults, the config
// file, PLANETEXPLORER_* environment variables and the flags of cmd named in
// bindings (config key to flag name).
func newViper(cmd *cobra.Command, bindings map[string]string) (*viper.Viper, error) {
	v := viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("planetexplorer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.planetexplorer")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	bind := func(key, name string) error {
		if f := cmd.Flags().Lookup(name); f != nil {
			return v.BindPFlag(key, f)
		}
		return nil
	}
	for key, name := range persistentBindings {
		if err := bind(key, name); err != nil {
			return nil, err
		}
	}
	for key, name := range bindings {
		if err := bind(key, name); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// loadConfig returns the validated effective configuration for cmd.
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	v, err := newViper(cmd, bindings)
	if err != nil {
		return nil, err
	}
	return config.FromViper(v)
}
