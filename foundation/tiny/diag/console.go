package diag

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// Console writes every diagnostic to W and always aborts
type Console struct {
	W io.Writer
}

// Report implements Reporter
func (c Console) Report(d Diagnostic) Decision {
	if c.W != nil {
		fmt.Fprintln(c.W, d.String())
	}
	return Abort
}

// Prompt asks a person on a terminal what to do with each diagnostic.
// End of input counts as abort.
type Prompt struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt creates a prompt reading answers from in and writing to out
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// Report implements Reporter
func (p *Prompt) Report(d Diagnostic) Decision {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, d.String())
	for {
		fmt.Fprint(p.out, "[r]etry, [a]bort or [q]uit? ")
		line, err := p.in.ReadString('\n')
		if line != "" {
			if decision, perr := ParseDecision(line); perr == nil {
				return decision
			}
		}
		if err != nil {
			fmt.Fprintln(p.out)
			return Abort
		}
	}
}
