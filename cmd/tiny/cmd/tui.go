package cmd

import (
	"os"

	"github.com/spf13/cobra"

	tinyerror "github.com/msto63/tiny/foundation/core/error"
	tinylog "github.com/msto63/tiny/foundation/core/log"
	"github.com/msto63/tiny/internal/tui/workbench"
)

var tuiLogFile string

var tuiCmd = &cobra.Command{
	Use:     "tui [datei]",
	Aliases: []string{"workbench"},
	Short:   "Startet die interaktive TINY-Workbench",
	Long: `Startet die interaktive TINY-Workbench.

Links steht der Editor (mit dem Fakultäts-Beispiel vorbelegt, wenn keine
Datei angegeben ist), rechts Syntaxbaum, Tokens, S-Expression oder DOT.

Tastenkuerzel:
  Ctrl+S      Parsen
  Ctrl+O      Datei neu laden
  Tab         Ansicht wechseln
  PgUp/PgDn   Scrollen
  Ctrl+C      Beenden

Im Fehlerdialog:
  r / Enter   Wiederholen
  e           Programm korrigieren, danach Ctrl+S
  a / Esc     Abbrechen
  q           Beenden`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "Logs in diese Datei schreiben (sonst verworfen)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	file := appConfig.TUI.InitialFile
	if len(args) > 0 {
		file = args[0]
	}

	// the terminal belongs to the TUI
	tuiLogger := tinylog.Discard()
	if tuiLogFile != "" {
		f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return tinyerror.Wrap(err, "cannot open log file").
				WithCode(tinyerror.CodeInvalidInput).
				WithDetail("path", tuiLogFile)
		}
		defer f.Close()
		tuiLogger = logger.WithOutput(f)
	}

	store := openHistory()
	if store != nil {
		defer store.Close()
	}

	cfg := workbench.Config{
		File:        file,
		Logger:      tuiLogger,
		Recorder:    recorder(store),
		MaxAttempts: appConfig.Engine.MaxAttempts,
	}
	return workbench.Run(cfg)
}
