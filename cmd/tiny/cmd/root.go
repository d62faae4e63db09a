package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	tinyerror "github.com/msto63/tiny/foundation/core/error"
	tinylog "github.com/msto63/tiny/foundation/core/log"
	"github.com/msto63/tiny/foundation/tiny"
	"github.com/msto63/tiny/internal/history"
	"github.com/msto63/tiny/pkg/core/config"
)

var (
	cfgFile string
	verbose bool

	appConfig *config.Config
	logger    *tinylog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tiny",
	Short: "TINY - Scanner und Parser für die TINY-Lehrsprache",
	Long: `tiny erkennt Programme der TINY-Lehrsprache und baut ihren Syntaxbaum.

Befehle:
  scan     - Zerlegt ein Programm in Tokens
  parse    - Parst ein Programm und gibt den Syntaxbaum aus
  tui      - Startet die interaktive Workbench
  history  - Zeigt die gespeicherten Parse-Läufe`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command and prints a failing command's error
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return tinyerror.GetCode(err).ExitCode()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: $TINY_CONFIG oder ./configs/tiny.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if verbose {
		appConfig.General.LogLevel = "debug"
	}

	logger, err = appConfig.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	tinylog.SetDefault(logger)
	logger.Debug("configuration loaded", tinylog.Field("source", appConfig.Source()))
	return nil
}

// openHistory opens the history store, or returns nil when it is disabled
// or cannot be opened; a broken history never blocks parsing
func openHistory() *history.Store {
	if !appConfig.History.Enabled {
		return nil
	}
	store, err := history.Open(history.Config{Path: appConfig.History.Path, Logger: logger})
	if err != nil {
		logger.WarnWithErr("history disabled", err)
		return nil
	}
	return store
}

// recorder returns store as a tiny.Recorder, keeping a nil store nil
func recorder(store *history.Store) tiny.Recorder {
	if store == nil {
		return nil
	}
	return store
}

// runContext applies the configured engine timeout
func runContext(parent context.Context) (context.Context, context.CancelFunc) {
	if timeout := appConfig.Engine.Timeout.Duration; timeout > 0 {
		return context.WithTimeout(parent, timeout)
	}
	return context.WithCancel(parent)
}

// openTokenLog opens the token log side file, if one is configured
func openTokenLog(path string) (io.WriteCloser, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, tinyerror.Wrap(err, "cannot create token log").
			WithCode(tinyerror.CodeInvalidInput).
			WithDetail("path", path)
	}
	return f, nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Fehler: %v\n", err)
}
