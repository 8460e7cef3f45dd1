package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSameDay(t *testing.T) {
	base := time.Date(2025, time.September, 10, 9, 0, 0, 0, time.UTC)
	require.True(t, SameDay(base, base.Add(5*time.Hour)))
	require.False(t, SameDay(base, base.Add(24*time.Hour)))
	require.False(t, SameDay(base, base.AddDate(1, 0, 0)))
}
