package telemetry

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteLog_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.db")
	log, err := NewSQLiteLog(path)
	require.NoError(t, err)
	defer log.Close()

	ctx := context.Background()
	events := []Event{
		{Action: ActionGenerated, Reference: "SRC2024001", Name: "Ada", Serial: "001", Timestamp: time.Now()},
		{Action: ActionPrint, Reference: "SRC2024001", Name: "Ada", Serial: "001", Timestamp: time.Now(), Browser: "Chrome 120.0"},
	}
	for _, ev := range events {
		require.NoError(t, log.Append(ctx, ev))
	}

	var count int
	require.NoError(t, log.db.QueryRow(`SELECT COUNT(*) FROM telemetry_events`).Scan(&count))
	assert.Equal(t, 2, count)

	var action, browser string
	require.NoError(t, log.db.QueryRow(
		`SELECT action, browser FROM telemetry_events ORDER BY id DESC LIMIT 1`,
	).Scan(&action, &browser))
	assert.Equal(t, ActionPrint, action)
	assert.Equal(t, "Chrome 120.0", browser)
}

func TestSQLiteLog_ReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.db")

	log, err := NewSQLiteLog(path)
	require.NoError(t, err)
	require.NoError(t, log.Append(context.Background(), Event{Action: ActionGenerated, Reference: "R", Timestamp: time.Now()}))
	require.NoError(t, log.Close())

	reopened, err := NewSQLiteLog(path)
	require.NoError(t, err)
	defer reopened.Close()

	var count int
	require.NoError(t, reopened.db.QueryRow(`SELECT COUNT(*) FROM telemetry_events`).Scan(&count))
	assert.Equal(t, 1, count)
}
