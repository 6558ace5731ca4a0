// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf-suite CLI. Each subcommand
// drives one flow against the conversion, summarizer and auth backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf-suite/internal/app"
	"github.com/pdiddy/pdf-suite/internal/logging"
	"github.com/pdiddy/pdf-suite/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pdf-suite CLI.
var rootCmd = &cobra.Command{
	Use:   "pdf-suite",
	Short: "Convert, merge and summarize PDFs from the terminal",
	Long: `pdf-suite is a client for the PDF suite backend. It validates files
locally, sends them to the conversion or summarizer API, and saves the results.

Tools are grouped in three tabs (from-pdf, to-pdf, other); list them with
"pdf-suite tools". Sign in once and the token is kept in the state directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./pdf-suite.yaml or ~/.config/pdf-suite/pdf-suite.yaml)")
	pf.String("api-url", "", "backend base URL")
	pf.String("locale", "", "message locale: en or fr")
	pf.String("output-dir", "", "directory for downloaded results")
	pf.String("state-dir", "", "directory for the client storage database")
	pf.String("log-level", "", "log level: debug, info, warn, error or off")

	for key, flag := range map[string]string{
		"api_url":    "api-url",
		"locale":     "locale",
		"output_dir": "output-dir",
		"state_dir":  "state-dir",
		"log_level":  "log-level",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	// Real environment variables win over both files.
	for _, f := range []string{".env.local", ".env"} {
		_ = godotenv.Load(f)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf-suite")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(defaultStateDir())
	}

	viper.SetDefault("api_url", "http://localhost:8080/api")
	viper.SetDefault("locale", string(types.LocaleEN))
	viper.SetDefault("output_dir", ".")
	viper.SetDefault("state_dir", defaultStateDir())
	viper.SetDefault("timeout", time.Duration(0))
	viper.SetDefault("log_level", "info")
	viper.SetDefault("user_agent", "pdf-suite/"+version)

	viper.SetEnvPrefix("PDF_SUITE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pdf-suite"
	}
	return filepath.Join(home, ".config", "pdf-suite")
}

// loadConfig reads the typed client configuration from viper.
func loadConfig() types.ClientConfig {
	return types.ClientConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: viper.GetString("user_agent"),
		},
		APIURL:    viper.GetString("api_url"),
		Locale:    types.Locale(strings.ToLower(viper.GetString("locale"))),
		OutputDir: expandHome(viper.GetString("output_dir")),
		StateDir:  expandHome(viper.GetString("state_dir")),
		LogLevel:  viper.GetString("log_level"),
	}
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// openApp builds the application and restores the signed-in user. The
// caller must Close it.
func openApp(ctx context.Context) (*app.App, error) {
	cfg := loadConfig()
	log := logging.New(cfg.LogLevel, os.Stderr)

	progress := progressWriter()
	a, err := app.New(cfg, log, progress)
	if err != nil {
		return nil, err
	}
	if err := a.Auth.Init(ctx); err != nil {
		log.Warn().Err(err).Msg("restoring session")
	}
	return a, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
