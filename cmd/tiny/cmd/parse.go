package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	tinyerror "github.com/msto63/tiny/foundation/core/error"
	"github.com/msto63/tiny/foundation/tiny"
	"github.com/msto63/tiny/foundation/tiny/diag"
	"github.com/msto63/tiny/internal/render"
	"github.com/msto63/tiny/internal/tui/workbench"
)

var (
	parseExpr        string
	parseFormat      string
	parseInteractive bool
	parseTrace       bool
	parsePositions   bool
	parseShowProgram bool
	parseMaxAttempts int
	parseQuiet       bool
	parseTokenLog    string
)

var parseCmd = &cobra.Command{
	Use:   "parse [datei]",
	Short: "Parst ein TINY-Programm und gibt den Syntaxbaum aus",
	Long: `Parst ein TINY-Programm und gibt den Syntaxbaum aus.

Formate (--format):
  text   - eingerückte Gliederung (Standard)
  sexpr  - kompakte Form, z.B. BinOp(-)(Const(1),Const(2))
  yaml   - YAML-Dokument
  json   - JSON-Dokument
  dot    - Graphviz-Graph (tiny parse prog.tny -f dot | dot -Tpng > baum.png)

Mit --interactive wird nach einem Fehler gefragt:
  r  Wiederholen (Datei neu laden)
  a  Abbrechen
  q  Beenden

Exit-Codes: 0 akzeptiert, 2 Syntaxfehler, 3 beendet, 4 Versuche erschöpft,
5 Konfigurationsfehler, 1 sonstige Fehler.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseExpr, "expr", "e", "", "Programmtext direkt angeben")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "text", "Ausgabeformat: text, sexpr, yaml, json, dot")
	parseCmd.Flags().BoolVarP(&parseInteractive, "interactive", "i", false, "Bei Fehlern nach Wiederholen/Abbrechen/Beenden fragen")
	parseCmd.Flags().BoolVar(&parseTrace, "trace", false, "Regel-Trace des Parsers auf stderr ausgeben")
	parseCmd.Flags().BoolVar(&parsePositions, "positions", false, "Token-Positionen in der Gliederung anzeigen")
	parseCmd.Flags().BoolVar(&parseShowProgram, "show-program", false, "Program-Wurzel im DOT-Graphen zeigen")
	parseCmd.Flags().IntVar(&parseMaxAttempts, "max-attempts", 0, "Maximale Anzahl Versuche (default: aus Config)")
	parseCmd.Flags().BoolVarP(&parseQuiet, "quiet", "q", false, "Keine Erfolgsmeldung ausgeben")
	parseCmd.Flags().StringVar(&parseTokenLog, "token-log", "", "Token-Liste in diese Datei schreiben")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(parseFormat)
	if err != nil {
		return tinyerror.Wrap(err, "invalid --format").WithCode(tinyerror.CodeInvalidInput)
	}

	src, err := programSource(cmd, parseExpr, args)
	if err != nil {
		return err
	}
	if parseInteractive && src.Name() == stdinName {
		return tinyerror.New("--interactive needs a file or --expr, standard input answers the prompt").
			WithCode(tinyerror.CodeInvalidInput)
	}

	path := parseTokenLog
	if path == "" {
		path = appConfig.Scanner.TokenLog
	}
	tokenLog, err := openTokenLog(path)
	if err != nil {
		return err
	}
	if tokenLog != nil {
		defer tokenLog.Close()
	}

	store := openHistory()
	if store != nil {
		defer store.Close()
	}

	opts := tiny.Options{
		Logger:      logger,
		Recorder:    recorder(store),
		MaxAttempts: appConfig.Engine.MaxAttempts,
	}
	if parseMaxAttempts > 0 {
		opts.MaxAttempts = parseMaxAttempts
	}
	if tokenLog != nil {
		opts.TokenLog = tokenLog
	}
	if parseTrace || appConfig.Parser.Trace {
		opts.Trace = cmd.ErrOrStderr()
	}
	if parseInteractive {
		opts.Reporter = diag.NewPrompt(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	ctx, cancel := runContext(cmd.Context())
	defer cancel()

	res, err := tiny.NewEngine(opts).Run(ctx, src)
	if err != nil {
		return err
	}

	if !parseQuiet {
		fmt.Fprintln(cmd.ErrOrStderr(), workbench.AcceptedNotice)
	}
	return render.Write(cmd.OutOrStdout(), res.Tree, format, render.Options{
		Outline: render.OutlineOptions{Positions: parsePositions},
		DOT:     render.DOTOptions{ShowProgram: parseShowProgram},
	})
}
