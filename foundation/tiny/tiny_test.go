package tiny

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	tinyerror "github.com/msto63/tiny/foundation/core/error"
	tinylog "github.com/msto63/tiny/foundation/core/log"
	"github.com/msto63/tiny/foundation/tiny/ast"
	"github.com/msto63/tiny/foundation/tiny/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const factorial = `read x;
if 0 < x then
fact := 1;
repeat
fact := fact * x;
x := x - 1
until x = 0;
write fact
end`

type memoryRecorder struct {
	mu      sync.Mutex
	records []RunRecord
}

func (m *memoryRecorder) Record(_ context.Context, rec RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func newTestEngine(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = tinylog.Discard()
	}
	return NewEngine(opts)
}

func TestRunAccepted(t *testing.T) {
	rec := &memoryRecorder{}
	var tokenLog bytes.Buffer
	engine := newTestEngine(Options{Recorder: rec, TokenLog: &tokenLog})

	res, err := engine.Run(context.Background(), NamedStringSource("factorial", factorial))
	require.NoError(t, err)
	assert.Equal(t, "factorial", res.Source)
	assert.Equal(t, 1, res.Attempts)
	assert.Len(t, res.Tokens, 32)
	assert.NotEmpty(t, res.RunID)
	require.NoError(t, ast.Validate(res.Tree))
	assert.Contains(t, tokenLog.String(), "fact : IDENTIFIER\n")

	require.Len(t, rec.records, 1)
	r := rec.records[0]
	assert.Equal(t, res.RunID, r.ID)
	assert.Equal(t, StatusAccepted, r.Status)
	assert.Equal(t, 32, r.Tokens)
	assert.Equal(t, 22, r.Nodes)
	assert.Empty(t, r.Message)
}

func TestRunAbort(t *testing.T) {
	rec := &memoryRecorder{}
	engine := newTestEngine(Options{Recorder: rec, Reporter: diag.Fixed(diag.Abort)})

	_, err := engine.Run(context.Background(), StringSource("if x then write y"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.ErrParse))
	assert.True(t, tinyerror.HasCode(err, tinyerror.CodeParseError))
	assert.False(t, errors.Is(err, ErrTerminated))
	assert.Equal(t, "<input> rejected: parse error at token 5 (line 1): expected 'end' to close 'if', found end of input", err.Error())

	var de *diag.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 5, de.Position)

	require.Len(t, rec.records, 1)
	assert.Equal(t, StatusRejected, rec.records[0].Status)
	assert.Equal(t, "parse", rec.records[0].Stage)
	assert.Equal(t, 5, rec.records[0].Position)
}

func TestRunScanErrorCode(t *testing.T) {
	_, err := newTestEngine(Options{}).Run(context.Background(), StringSource("write $"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.ErrScan))
	assert.Equal(t, tinyerror.CodeScanError, tinyerror.GetCode(err))
	assert.Equal(t, 2, tinyerror.GetCode(err).ExitCode())
}

func TestRunRetryReloadsSource(t *testing.T) {
	texts := []string{"read", "read x;", "read x; write x"}
	loads := 0
	src := SourceFunc("editor", func(context.Context) (string, error) {
		text := texts[loads]
		loads++
		return text, nil
	})

	rec := &memoryRecorder{}
	engine := newTestEngine(Options{Recorder: rec, Reporter: diag.Fixed(diag.Retry)})
	res, err := engine.Run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 3, loads)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, "read x; write x", res.Text)
	assert.Equal(t, StatusAccepted, rec.records[0].Status)
	assert.Equal(t, 3, rec.records[0].Attempts)
}

func TestRunRetryLimit(t *testing.T) {
	reports := 0
	reporter := diag.ReporterFunc(func(diag.Diagnostic) diag.Decision {
		reports++
		return diag.Retry
	})
	engine := newTestEngine(Options{Reporter: reporter, MaxAttempts: 2})

	_, err := engine.Run(context.Background(), StringSource("read 1"))
	require.Error(t, err)
	assert.Equal(t, 2, reports)
	assert.True(t, errors.Is(err, ErrRetryLimit))
	assert.True(t, errors.Is(err, diag.ErrParse))
	assert.Equal(t, tinyerror.CodeRetryLimit, tinyerror.GetCode(err))
}

func TestRunTerminate(t *testing.T) {
	rec := &memoryRecorder{}
	engine := newTestEngine(Options{Recorder: rec, Reporter: diag.Fixed(diag.Terminate)})

	_, err := engine.Run(context.Background(), StringSource("{ open"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTerminated))
	assert.True(t, errors.Is(err, diag.ErrScan))
	assert.Equal(t, tinyerror.CodeTerminated, tinyerror.GetCode(err))
	assert.Equal(t, StatusTerminated, rec.records[0].Status)
}

func TestRunCanceledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reporter := diag.ReporterFunc(func(diag.Diagnostic) diag.Decision {
		cancel()
		return diag.Retry
	})
	rec := &memoryRecorder{}
	engine := newTestEngine(Options{Reporter: reporter, Recorder: rec, MaxAttempts: 10})

	_, err := engine.Run(ctx, StringSource("write"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, tinyerror.CodeCanceled, tinyerror.GetCode(err))
	require.Len(t, rec.records, 1)
	assert.Equal(t, StatusFailed, rec.records[0].Status)
	assert.Equal(t, 1, rec.records[0].Attempts)
}

func TestRunFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.tny")
	require.NoError(t, os.WriteFile(path, []byte("read x; write x * 2"), 0o644))

	res, err := newTestEngine(Options{}).Run(context.Background(), FileSource(path))
	require.NoError(t, err)
	assert.Equal(t, path, res.Source)
	assert.Equal(t, "Program(Read(x);Write(BinOp(*)(Ident(x),Const(2))))", ast.Sexpr(res.Tree))
}

func TestRunMissingFile(t *testing.T) {
	_, err := newTestEngine(Options{}).Run(context.Background(), FileSource(filepath.Join(t.TempDir(), "nope.tny")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, tinyerror.CodeInvalidInput, tinyerror.GetCode(err))
}

func TestRunLogsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := tinylog.NewWithConfig(tinylog.Config{Level: tinylog.LevelDebug, Format: tinylog.FormatLogfmt, Output: &buf})

	res, err := NewEngine(Options{Logger: logger}).Run(context.Background(), StringSource("read x"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "run_id="+res.RunID)
	assert.Contains(t, buf.String(), `message="TINY run accepted"`)
}

func TestParseString(t *testing.T) {
	root, err := ParseString("x := 1 - 2 - 3")
	require.NoError(t, err)
	assert.Equal(t, "Assign(x)(BinOp(-)(BinOp(-)(Const(1),Const(2)),Const(3)))", ast.Sexpr(root.Body()))

	_, err = ParseString("x < y < z")
	assert.True(t, errors.Is(err, diag.ErrParse))
}
