package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/itsmostafa/goturtle/internal/config"
	"github.com/itsmostafa/goturtle/internal/version"
)

var configPath string
var verbose bool
var maxIterations int
var maxDepth int

var rootCmd = &cobra.Command{
	Use:   "goturtle",
	Short: "Turtle graphics command interpreter",
	Long: `Go Turtle interprets a small turtle graphics command language: movement,
pen control, variables, arithmetic and bounded repeat loops.

Run help() inside a program, or "goturtle reference", for the command list.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("goturtle %s\n", version.String()))

	// Config path flag with env var fallback
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv(config.EnvConfigPath), "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every executed statement to stderr")

	// Limit flags override the config file only when given
	defaults := config.Default()
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", defaults.Limits.MaxDepth, "Maximum repeat nesting depth (0 = unlimited)")
	rootCmd.PersistentFlags().IntVar(&maxIterations, "max-iterations", defaults.Limits.MaxIterations, "Maximum repeat iterations per run (0 = unlimited)")
}

// newLogger builds the operator log. It never writes to stdout, which
// carries program output.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// loadConfig reads --config, or returns the defaults when none is given,
// then applies any limit flags set on cmd.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.Limits.MaxDepth = maxDepth
	}
	if cmd.Flags().Changed("max-iterations") {
		cfg.Limits.MaxIterations = maxIterations
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
