package cmd

import (
	"io"

	"github.com/spf13/cobra"

	tinyerror "github.com/msto63/tiny/foundation/core/error"
	"github.com/msto63/tiny/foundation/tiny"
)

// stdinName is the source name of a program read from standard input
const stdinName = "<stdin>"

// programSource picks the program from an inline expression, a file
// argument or standard input, in this order. A file is read again on
// every retry; stdin is read once.
func programSource(cmd *cobra.Command, expr string, args []string) (tiny.Source, error) {
	switch {
	case expr != "":
		return tiny.StringSource(expr), nil
	case len(args) > 0 && args[0] != "-":
		return tiny.FileSource(args[0]), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, tinyerror.Wrap(err, "cannot read standard input").
			WithCode(tinyerror.CodeInvalidInput)
	}
	return tiny.NamedStringSource(stdinName, string(data)), nil
}
