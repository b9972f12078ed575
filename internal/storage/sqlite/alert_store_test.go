package sqlite

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/eventarb/internal/alerts"
)

func setupTestAlertStore(t *testing.T) *AlertStore {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewAlertStore(db)
}

func transition(runID string, cycle uint64, prev string, next *alerts.Alert, at time.Time) *alerts.Transition {
	tr := alerts.NewTransition(runID, cycle, prev, next, at)
	return &tr
}

func labeled(a alerts.Alert, alertType string) *alerts.Alert {
	a.AlertType = alertType
	return &a
}

func TestAlertStore_RecordAndGet(t *testing.T) {
	store := setupTestAlertStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Minute)

	door := labeled(alerts.NoEntry("Door Open", alerts.VisualNone), "doorOpen/noEntry")
	fcw := labeled(alerts.ImmediateDisable("BRAKE!"), "fcw/permanent")

	t1 := transition("run-a", 3, "", door, base)
	require.NoError(t, store.RecordTransition(ctx, t1))
	assert.NotZero(t, t1.ID)

	require.NoError(t, store.RecordTransition(ctx, transition("run-a", 9, door.AlertType, fcw, base.Add(time.Second))))
	require.NoError(t, store.RecordTransition(ctx, transition("run-b", 1, fcw.AlertType, nil, base.Add(2*time.Second))))

	history, err := store.GetHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)

	// Newest first.
	assert.True(t, history[0].Cleared())
	assert.Equal(t, "fcw/permanent", history[1].AlertType)
	assert.Equal(t, alerts.PriorityHighest, history[1].Priority)
	assert.Equal(t, alerts.StatusCritical, history[1].Status)
	assert.Equal(t, uint64(9), history[1].Cycle)
	assert.Equal(t, "Door Open", history[2].Text2)
	assert.WithinDuration(t, base, history[2].ShownAt, time.Millisecond)

	limited, err := store.GetHistory(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	byType, err := store.GetHistoryForType(ctx, "fcw/permanent", 0)
	require.NoError(t, err)
	assert.Len(t, byType, 2, "selected and cleared")

	byRun, err := store.GetHistoryForRun(ctx, "run-a", 0)
	require.NoError(t, err)
	assert.Len(t, byRun, 2)

	since, err := store.GetHistorySince(ctx, base.Add(500*time.Millisecond), 0)
	require.NoError(t, err)
	assert.Len(t, since, 2)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestAlertStore_CountByType(t *testing.T) {
	store := setupTestAlertStore(t)
	ctx := context.Background()
	now := time.Now()

	door := labeled(alerts.NoEntry("Door Open", alerts.VisualNone), "doorOpen/noEntry")
	ldw := labeled(alerts.NormalPermanent("Lane Departure", ""), "ldw/permanent")

	require.NoError(t, store.RecordTransition(ctx, transition("r", 0, "", door, now)))
	require.NoError(t, store.RecordTransition(ctx, transition("r", 1, door.AlertType, nil, now)))
	require.NoError(t, store.RecordTransition(ctx, transition("r", 2, "", door, now)))
	require.NoError(t, store.RecordTransition(ctx, transition("r", 3, door.AlertType, ldw, now)))

	counts, err := store.CountByType(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "doorOpen/noEntry", counts[0].AlertType)
	assert.Equal(t, int64(2), counts[0].Count)
	assert.False(t, counts[0].LastShown.IsZero())
	assert.Equal(t, "ldw/permanent", counts[1].AlertType)
}

func TestAlertStore_Prune(t *testing.T) {
	store := setupTestAlertStore(t)
	ctx := context.Background()
	now := time.Now()

	a := labeled(alerts.NoEntry("x", alerts.VisualNone), "x/noEntry")
	require.NoError(t, store.RecordTransition(ctx, transition("r", 0, "", a, now.Add(-48*time.Hour))))
	require.NoError(t, store.RecordTransition(ctx, transition("r", 1, a.AlertType, nil, now)))

	deleted, err := store.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestOpenMemory(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	defer db.Close()

	store := NewAlertStore(db)
	a := labeled(alerts.NoEntry("x", alerts.VisualNone), "x/noEntry")
	require.NoError(t, store.RecordTransition(context.Background(), transition("r", 0, "", a, time.Now())))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, ":memory:", db.Path())
}

func TestExport_Codecs(t *testing.T) {
	store := setupTestAlertStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	door := labeled(alerts.NoEntry("Door Open", alerts.VisualNone), "doorOpen/noEntry")
	require.NoError(t, store.RecordTransition(ctx, transition("r", 0, "", door, base)))
	require.NoError(t, store.RecordTransition(ctx, transition("r", 5, door.AlertType, nil, base.Add(time.Second))))

	for _, c := range []Compression{CompressionNone, CompressionGzip, CompressionLZ4, CompressionZstd} {
		t.Run(string(c), func(t *testing.T) {
			var buf bytes.Buffer
			n, err := store.Export(ctx, &buf, c, time.Time{})
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			got, err := ReadTransitions(&buf, c)
			require.NoError(t, err)
			require.Len(t, got, 2)

			// Oldest first.
			assert.Equal(t, "doorOpen/noEntry", got[0].AlertType)
			assert.Equal(t, alerts.PriorityLow, got[0].Priority)
			assert.True(t, got[1].Cleared())
			assert.Equal(t, uint64(5), got[1].Cycle)
		})
	}
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, c)
	assert.Equal(t, ".jsonl.zst", c.Extension())

	c, err = ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)

	_, err = ParseCompression("brotli")
	assert.Error(t, err)
}
