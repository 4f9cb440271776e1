package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareFillsGeneratedFields(t *testing.T) {
	run := RunInput{Project: "campus"}.Prepare()

	_, err := uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.False(t, run.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, run.CreatedAt.Location())
	assert.Equal(t, TriggerReport, run.Trigger)
}

func TestPrepareKeepsExplicitFields(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	run := RunInput{ID: "fixed", Trigger: TriggerFix, CreatedAt: at}.Prepare()

	assert.Equal(t, "fixed", run.ID)
	assert.Equal(t, TriggerFix, run.Trigger)
	assert.True(t, run.CreatedAt.Equal(at))
	assert.Equal(t, time.UTC, run.CreatedAt.Location())
}
