package diag

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaiseWithoutReporterAborts(t *testing.T) {
	err := Raise(nil, Diagnostic{Stage: StageParse, Position: 5, Message: "expected 'end'"})
	assert.Equal(t, Abort, err.Decision)
	assert.Equal(t, "parse error at token 5: expected 'end'", err.Error())
}

func TestRaiseUsesDecision(t *testing.T) {
	var seen Diagnostic
	r := ReporterFunc(func(d Diagnostic) Decision {
		seen = d
		return Retry
	})
	d := Diagnostic{Stage: StageScan, Position: 2, Line: 1, Message: "invalid token"}
	err := Raise(r, d)

	assert.Equal(t, d, seen)
	assert.Equal(t, Retry, err.Decision)
	assert.Equal(t, "scan error at token 2 (line 1): invalid token", err.Error())
}

func TestErrorIsStage(t *testing.T) {
	var err error = fmt.Errorf("run: %w", Raise(Fixed(Terminate), Diagnostic{Stage: StageScan}))
	assert.True(t, errors.Is(err, ErrScan))
	assert.False(t, errors.Is(err, ErrParse))
	assert.Equal(t, Terminate, DecisionOf(err))
	assert.Equal(t, Abort, DecisionOf(errors.New("plain")))
}

func TestParseDecision(t *testing.T) {
	tests := map[string]Decision{
		"r":         Retry,
		"Retry\n":   Retry,
		" a ":       Abort,
		"abort":     Abort,
		"q":         Terminate,
		"terminate": Terminate,
	}
	for in, want := range tests {
		got, err := ParseDecision(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDecision("maybe")
	assert.Error(t, err)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	d := Console{W: &buf}.Report(Diagnostic{Stage: StageScan, Position: 0, Message: "no tokens found"})
	assert.Equal(t, Abort, d)
	assert.Equal(t, "scan error at token 0: no tokens found\n", buf.String())
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompt(strings.NewReader("what\nr\nq\n"), &out)
	diagnostic := Diagnostic{Stage: StageParse, Position: 1, Message: "invalid factor"}

	assert.Equal(t, Retry, p.Report(diagnostic))
	assert.Equal(t, Terminate, p.Report(diagnostic))
	assert.Equal(t, Abort, p.Report(diagnostic))
	assert.Equal(t, 4, strings.Count(out.String(), "[r]etry"))
}

func TestPromptAnswerWithoutNewline(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompt(strings.NewReader("q"), &out)
	assert.Equal(t, Terminate, p.Report(Diagnostic{}))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "scan", StageScan.String())
	assert.Equal(t, "parse", StageParse.String())
	assert.Equal(t, "retry", Retry.String())
	assert.Equal(t, "Decision(9)", Decision(9).String())
}
