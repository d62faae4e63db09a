package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	tinyerror "github.com/msto63/tiny/foundation/core/error"
	"github.com/msto63/tiny/foundation/tiny/diag"
	"github.com/msto63/tiny/foundation/tiny/scanner"
	"github.com/msto63/tiny/internal/render"
)

var (
	scanExpr   string
	scanTable  bool
	scanOutput string
)

var scanCmd = &cobra.Command{
	Use:   "scan [datei]",
	Short: "Zerlegt ein TINY-Programm in Tokens",
	Long: `Zerlegt ein TINY-Programm in Tokens und gibt pro Token eine Zeile
"lexem : ART" aus. Ohne Datei wird von der Standardeingabe gelesen.

Beispiele:
  tiny scan factorial.tny
  tiny scan -e "x := 1 + 2" --table
  tiny scan prog.tny --output output.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanExpr, "expr", "e", "", "Programmtext direkt angeben")
	scanCmd.Flags().BoolVar(&scanTable, "table", false, "Tabelle mit Index und Zeile ausgeben")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "Token-Liste zusätzlich in diese Datei schreiben")
}

func runScan(cmd *cobra.Command, args []string) error {
	src, err := programSource(cmd, scanExpr, args)
	if err != nil {
		return err
	}
	text, err := src.Load(cmd.Context())
	if err != nil {
		return tinyerror.Wrap(err, "cannot load "+src.Name()).
			WithCode(tinyerror.CodeInvalidInput)
	}

	path := scanOutput
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

	opts := scanner.Options{Logger: logger}
	if tokenLog != nil {
		opts.TokenLog = tokenLog
	}
	tokens, err := scanner.New(opts).Scan(text)
	if err != nil {
		return tinyerror.Wrap(err, src.Name()+" rejected").
			WithCode(tinyerror.CodeScanError).
			WithOperation(diag.StageScan.String())
	}

	out := cmd.OutOrStdout()
	if scanTable {
		fmt.Fprint(out, render.TokenTable(tokens))
	} else {
		fmt.Fprint(out, render.Tokens(tokens))
	}
	return nil
}
