package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tinyerror "github.com/msto63/tiny/foundation/core/error"
	tinylog "github.com/msto63/tiny/foundation/core/log"
	"github.com/msto63/tiny/foundation/tiny"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "nested", "history.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := tiny.RunRecord{
		ID:        "run-1",
		Source:    "factorial.tny",
		StartedAt: started,
		Duration:  1500 * time.Microsecond,
		Attempts:  2,
		Status:    tiny.StatusRejected,
		Stage:     "parse",
		Position:  5,
		Line:      1,
		Message:   "expected 'end' to close 'if', found end of input",
		Tokens:    6,
	}
	require.NoError(t, s.Record(ctx, rec))

	got, err := s.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Source, got.Source)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, rec.Duration, got.Duration)
	assert.Equal(t, 2, got.Attempts)
	assert.Equal(t, tiny.StatusRejected, got.Status)
	assert.Equal(t, "parse", got.Stage)
	assert.Equal(t, 5, got.Position)
	assert.Equal(t, rec.Message, got.Message)
	assert.Equal(t, 6, got.Tokens)
}

func TestStore_RecordFillsIDAndTime(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, tiny.RunRecord{Source: "<input>", Status: tiny.StatusAccepted}))

	runs, err := s.Query(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.NotEmpty(t, runs[0].ID)
	assert.False(t, runs[0].StartedAt.IsZero())
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, tinyerror.CodeNotFound, tinyerror.GetCode(err))
}

func TestStore_Query(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	records := []tiny.RunRecord{
		{ID: "a", Source: "one.tny", StartedAt: base, Status: tiny.StatusAccepted},
		{ID: "b", Source: "two.tny", StartedAt: base.Add(time.Hour), Status: tiny.StatusRejected, Stage: "scan"},
		{ID: "c", Source: "one.tny", StartedAt: base.Add(2 * time.Hour), Status: tiny.StatusAccepted},
		{ID: "d", Source: "<input>", StartedAt: base.Add(3 * time.Hour), Status: tiny.StatusTerminated, Stage: "parse"},
	}
	for _, r := range records {
		require.NoError(t, s.Record(ctx, r))
	}

	ids := func(runs []*tiny.RunRecord) []string {
		out := make([]string, 0, len(runs))
		for _, r := range runs {
			out = append(out, r.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all newest first", Filter{}, []string{"d", "c", "b", "a"}},
		{"by status", Filter{Status: tiny.StatusAccepted}, []string{"c", "a"}},
		{"by source", Filter{Source: "one"}, []string{"c", "a"}},
		{"since", Filter{Since: base.Add(90 * time.Minute)}, []string{"d", "c"}},
		{"until", Filter{Until: base.Add(time.Hour)}, []string{"b", "a"}},
		{"limit", Filter{Limit: 2}, []string{"d", "c"}},
		{"limit offset", Filter{Limit: 2, Offset: 1}, []string{"c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := s.Query(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(runs))
		})
	}
}

func TestStore_Stats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	empty, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
	assert.True(t, empty.Oldest.IsZero())

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(ctx, tiny.RunRecord{ID: "1", Source: "x", StartedAt: base, Duration: 2 * time.Millisecond, Status: tiny.StatusAccepted}))
	require.NoError(t, s.Record(ctx, tiny.RunRecord{ID: "2", Source: "x", StartedAt: base.Add(time.Minute), Duration: 4 * time.Millisecond, Status: tiny.StatusRejected, Stage: "parse"}))
	require.NoError(t, s.Record(ctx, tiny.RunRecord{ID: "3", Source: "x", StartedAt: base.Add(2 * time.Minute), Duration: 6 * time.Millisecond, Status: tiny.StatusRejected, Stage: "scan"}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[tiny.StatusAccepted])
	assert.Equal(t, 2, stats.ByStatus[tiny.StatusRejected])
	assert.Equal(t, map[string]int{"parse": 1, "scan": 1}, stats.ByStage)
	assert.Equal(t, 4*time.Millisecond, stats.AvgDuration)
	assert.True(t, base.Equal(stats.Oldest), "oldest %v", stats.Oldest)
	assert.True(t, base.Add(2*time.Minute).Equal(stats.Newest), "newest %v", stats.Newest)
}

func TestStore_Prune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, tiny.RunRecord{ID: "old", Source: "x", StartedAt: time.Now().Add(-48 * time.Hour), Status: tiny.StatusAccepted}))
	require.NoError(t, s.Record(ctx, tiny.RunRecord{ID: "new", Source: "x", StartedAt: time.Now(), Status: tiny.StatusAccepted}))

	n, err := s.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, s.Vacuum(ctx))

	runs, err := s.Query(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "new", runs[0].ID)
}

func TestStore_AsEngineRecorder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	engine := tiny.NewEngine(tiny.Options{Recorder: s, Logger: tinylog.Discard()})
	_, err := engine.Run(ctx, tiny.StringSource("read x; write x"))
	require.NoError(t, err)

	runs, err := s.Query(ctx, Filter{Status: tiny.StatusAccepted})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Attempts)
	assert.Equal(t, 5, runs[0].Tokens)
}
