// File: tiny.go
// Title: TINY Engine
// Description: Drives the scanner and parser over a Source. The engine is
//              the caller that acts on reporter decisions: abort returns
//              the failure, retry reloads the source and starts over, and
//              terminate returns an error matching ErrTerminated. Every run
//              gets a UUID used for log correlation and the history record.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial engine with retry loop and run records

package tiny

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	tinyerror "github.com/msto63/tiny/foundation/core/error"
	tinylog "github.com/msto63/tiny/foundation/core/log"
	"github.com/msto63/tiny/foundation/tiny/ast"
	"github.com/msto63/tiny/foundation/tiny/diag"
	"github.com/msto63/tiny/foundation/tiny/parser"
	"github.com/msto63/tiny/foundation/tiny/scanner"
	"github.com/msto63/tiny/foundation/tiny/token"
)

// DefaultMaxAttempts bounds the number of loads per run
const DefaultMaxAttempts = 3

var (
	// ErrTerminated is matched by the error of a run the reporter terminated
	ErrTerminated = errors.New("terminated by reporter")

	// ErrRetryLimit is matched by the error of a run that ran out of attempts
	ErrRetryLimit = errors.New("retry limit reached")
)

// Options configures the engine
type Options struct {
	// Logger for engine operations (optional, defaults to default logger)
	Logger *tinylog.Logger

	// Reporter decides what happens after a scan or parse error
	Reporter diag.Reporter

	// TokenLog receives the token listing of every successful scan
	TokenLog io.Writer

	// Trace receives the parser's rule trace
	Trace io.Writer

	// MaxAttempts bounds the loads of one run (default: 3)
	MaxAttempts int

	// Recorder stores a record of every finished run (optional)
	Recorder Recorder
}

// Result is a successful run
type Result struct {
	RunID    string
	Source   string
	Text     string
	Tokens   []token.Token
	Tree     *ast.Node
	Attempts int
	Duration time.Duration
}

// Engine coordinates scanning and parsing
type Engine struct {
	logger  *tinylog.Logger
	options Options
}

// NewEngine creates an engine with the given options
func NewEngine(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = tinylog.GetDefault()
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	return &Engine{
		logger:  opts.Logger.WithField("component", "tiny-engine"),
		options: opts,
	}
}

// Run loads, scans and parses src until it is accepted or the reporter
// stops the run. Retries always start from a fresh load.
func (e *Engine) Run(ctx context.Context, src Source) (*Result, error) {
	runID := uuid.NewString()
	logger := e.logger.WithRunID(runID)
	started := time.Now()

	rec := RunRecord{ID: runID, Source: src.Name(), StartedAt: started}
	logger.Info("TINY run started", tinylog.Fields{"source": src.Name()})

	res, err := e.run(ctx, logger, src, &rec)

	rec.Duration = time.Since(started)
	e.record(ctx, logger, rec)

	if err != nil {
		logger.LogError(err)
		return nil, err
	}
	res.Duration = rec.Duration
	logger.Info("TINY run accepted", tinylog.Fields{
		"attempts": res.Attempts,
		"tokens":   len(res.Tokens),
		"nodes":    rec.Nodes,
	})
	return res, nil
}

func (e *Engine) run(ctx context.Context, logger *tinylog.Logger, src Source, rec *RunRecord) (*Result, error) {
	var last error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			rec.Status = StatusFailed
			rec.Message = err.Error()
			return nil, tinyerror.Wrap(err, "run canceled").
				WithCode(tinyerror.CodeCanceled).
				WithRunID(rec.ID)
		}
		if attempt > e.options.MaxAttempts {
			rec.Status = StatusRejected
			return nil, tinyerror.Wrap(fmt.Errorf("%w: %w", ErrRetryLimit, last),
				fmt.Sprintf("%s rejected after %d attempts", src.Name(), e.options.MaxAttempts)).
				WithCode(tinyerror.CodeRetryLimit).
				WithRunID(rec.ID).
				WithDetail("attempts", e.options.MaxAttempts)
		}
		rec.Attempts = attempt

		text, err := e.load(ctx, logger, src)
		if err != nil {
			rec.Status = StatusFailed
			rec.Message = err.Error()
			return nil, tinyerror.Wrap(err, "cannot load "+src.Name()).
				WithCode(tinyerror.CodeInvalidInput).
				WithOperation("load").
				WithRunID(rec.ID)
		}

		tokens, tree, err := e.process(logger, text)
		if err == nil {
			rec.Status = StatusAccepted
			rec.Tokens = len(tokens)
			rec.Nodes = ast.Count(tree)
			return &Result{
				RunID:    rec.ID,
				Source:   src.Name(),
				Text:     text,
				Tokens:   tokens,
				Tree:     tree,
				Attempts: attempt,
			}, nil
		}

		var de *diag.Error
		if !errors.As(err, &de) {
			rec.Status = StatusFailed
			return nil, tinyerror.Wrap(err, "run failed").WithCode(tinyerror.CodeInternal).WithRunID(rec.ID)
		}
		rec.Stage = de.Stage.String()
		rec.Position = de.Position
		rec.Line = de.Line
		rec.Message = de.Message
		rec.Tokens = len(tokens)

		switch de.Decision {
		case diag.Retry:
			logger.Warn("Retrying after syntax error", tinylog.Fields{
				"attempt":  attempt,
				"stage":    de.Stage.String(),
				"position": de.Position,
			})
			last = err
			continue
		case diag.Terminate:
			rec.Status = StatusTerminated
			return nil, tinyerror.Wrap(fmt.Errorf("%w: %w", ErrTerminated, err), src.Name()+" terminated").
				WithCode(tinyerror.CodeTerminated).
				WithOperation(de.Stage.String()).
				WithRunID(rec.ID)
		default:
			rec.Status = StatusRejected
			return nil, wrapSyntaxError(de, src.Name(), rec.ID)
		}
	}
}

func (e *Engine) load(ctx context.Context, logger *tinylog.Logger, src Source) (string, error) {
	timer := logger.StartTimer("load").WithField("source", src.Name())
	text, err := src.Load(ctx)
	timer.StopWithError(err)
	return text, err
}

// process scans and parses text with fresh instances. The tokens are
// returned even when parsing fails.
func (e *Engine) process(logger *tinylog.Logger, text string) ([]token.Token, *ast.Node, error) {
	sc := scanner.New(scanner.Options{
		Logger:   logger,
		TokenLog: e.options.TokenLog,
		Reporter: e.options.Reporter,
	})
	timer := logger.StartTimer("scan")
	tokens, err := sc.Scan(text)
	timer.WithField("tokens", len(tokens)).StopWithError(err)
	if err != nil {
		return nil, nil, err
	}

	p := parser.New(parser.Options{
		Logger:   logger,
		Trace:    e.options.Trace,
		Reporter: e.options.Reporter,
	})
	timer = logger.StartTimer("parse")
	tree, err := p.Parse(tokens)
	timer.StopWithError(err)
	return tokens, tree, err
}

func (e *Engine) record(ctx context.Context, logger *tinylog.Logger, rec RunRecord) {
	if e.options.Recorder == nil {
		return
	}
	// a canceled run is still recorded
	if err := e.options.Recorder.Record(context.WithoutCancel(ctx), rec); err != nil {
		logger.WarnWithErr("Run not recorded", err)
	}
}

func wrapSyntaxError(de *diag.Error, source, runID string) error {
	code := tinyerror.CodeParseError
	if de.Stage == diag.StageScan {
		code = tinyerror.CodeScanError
	}
	return tinyerror.Wrap(de, source+" rejected").
		WithCode(code).
		WithOperation(de.Stage.String()).
		WithRunID(runID).
		WithDetail("position", de.Position).
		WithDetail("line", de.Line)
}

// ParseString scans and parses text without a reporter
func ParseString(text string) (*ast.Node, error) {
	tokens, err := scanner.Scan(text)
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens)
}
