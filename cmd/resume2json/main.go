// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the resume2json CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume2json/internal/logger"
	"github.com/pdiddy/resume2json/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const appName = "resume2json"

// cfg holds the settings loaded before every command runs.
var cfg types.Config

// rootCmd is the base command for the resume2json CLI.
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Convert PDF resumes into structured JSON",
	Long: `resume2json infers the structure of a single-column PDF resume from its
font sizes and line layout and writes it as JSON: identity fields first,
then one object per section heading.

Use parse for one file, batch for many, inspect to see how the pipeline
reads a document, and store to search resumes indexed with --store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		applyLogFlags(cmd, &cfg.Log)
		logger.Init(cfg.Log)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug().Str("path", used).Msg("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults(viper.GetViper())

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./resume2json.yaml or $XDG_CONFIG_HOME/resume2json/resume2json.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")
}

// setDefaults registers the default value of every config key.
func setDefaults(v *viper.Viper) {
	layout := types.DefaultLayoutConfig()
	v.SetDefault("parse.granular", false)
	v.SetDefault("parse.strict", false)
	v.SetDefault("parse.rules_file", "")
	v.SetDefault("parse.validate", true)
	v.SetDefault("layout.line_tolerance", layout.LineTolerance)
	v.SetDefault("layout.word_gap", layout.WordGap)
	v.SetDefault("layout.block_gap", layout.BlockGap)
	v.SetDefault("batch.jobs", 4)
	v.SetDefault("batch.out_dir", "json")
	v.SetDefault("batch.force", false)
	v.SetDefault("store.db_path", "resumes.db")
	v.SetDefault("store.max_results", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	configure(viper.GetViper(), cfgFile)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Reading config file:", err)
		}
	}
}

// configure points v at the config file and the environment.
func configure(v *viper.Viper, cfgFile string) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
	}

	v.SetEnvPrefix("RESUME2JSON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func loadConfig() (types.Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (types.Config, error) {
	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

func applyLogFlags(cmd *cobra.Command, c *types.LogConfig) {
	if cmd.Flags().Changed("log-level") {
		c.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		c.Format, _ = cmd.Flags().GetString("log-format")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
