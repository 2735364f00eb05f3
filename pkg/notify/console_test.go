package notify_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emreakca/cursorwatch/pkg/notify"
)

func TestConsoleNotifier_Send(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleNotifierTo(&buf)

	at := time.Date(2026, 8, 26, 14, 30, 0, 0, time.UTC)
	alert := notify.NewAlert(2.17, 2.17, at)
	alert.RecentEvents = []notify.Event{
		{At: at.Add(-time.Minute), CostUSD: 0.042, Model: "claude-4-sonnet"},
		{At: at.Add(-2 * time.Minute), CostUSD: 0.1},
	}

	require.NoError(t, n.Send(context.Background(), alert))

	out := buf.String()
	assert.Contains(t, out, "2026-08-26 14:30:00")
	assert.Contains(t, out, "Spending increased by $2.17 (Total: $2.17)")
	assert.Contains(t, out, "$0.042 (claude-4-sonnet)")
	assert.Contains(t, out, "(unknown)")
}
