// Package cmd provides the command-line interface for the site generator
// with configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --output-dir, etc.) - highest priority
//	2. SITEGEN_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (SITEGEN_FORGE_ORG, etc.)
//	4. Configuration files (.sitegen.yml) - lowest priority
//
// Environment Variables:
//
//	SITEGEN_CONFIG_FILE: Path to custom configuration file
//	SITEGEN_FORGE_ORG: Override forge organization
//	SITEGEN_OUTPUT_DIR: Override output directory
//	And more following the SITEGEN_<SECTION>_<OPTION> pattern
//
// The forge auth token is never read from configuration files; it comes
// from the manage-aquifer or GITHUB_AQUIFER_API_KEY environment variables.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sitegen",
	Short: "Static site generator for the Aquifer Bible resource catalog",
	Long: `Sitegen builds the BibleAquifer static catalog site: it reads the
organization's repositories from the Git forge, aggregates per-language
resource metadata, and renders the landing page, the catalog browser, the
YAML snapshot, and the per-language navigation files.

Quick Start:
  sitegen build                   Build the site from live forge data
  sitegen sample                  Build the site from embedded sample data
  sitegen version                 Show version information

A forge token must be available in the manage-aquifer or
GITHUB_AQUIFER_API_KEY environment variable for live builds.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Accept underscore spellings for every flag (--output_dir == --output-dir).
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .sitegen.yml, can also use SITEGEN_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. SITEGEN_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .sitegen.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("SITEGEN_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".sitegen")
	}

	// Enable automatic environment variable binding with SITEGEN_ prefix
	// Examples: SITEGEN_FORGE_ORG, SITEGEN_OUTPUT_DIR
	viper.SetEnvPrefix("SITEGEN")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing or malformed config file falls back to defaults without
	// failing the command.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
