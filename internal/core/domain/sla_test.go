package domain_test

import (
	"testing"
	"time"

	"taskflow/internal/core/domain"

	"github.com/stretchr/testify/require"
)

func TestClassify_Boundaries(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		remaining time.Duration
		want      domain.SLAStatus
	}{
		{name: "one nanosecond late", remaining: -time.Nanosecond, want: domain.SLAOverdue},
		{name: "lapsed a minute ago", remaining: -time.Minute, want: domain.SLAOverdue},
		{name: "exactly now", remaining: 0, want: domain.SLACritical},
		{name: "five hours", remaining: 5 * time.Hour, want: domain.SLACritical},
		{name: "just under critical window", remaining: 6*time.Hour - time.Nanosecond, want: domain.SLACritical},
		{name: "at critical window", remaining: 6 * time.Hour, want: domain.SLAWarning},
		{name: "just under warning window", remaining: 24*time.Hour - time.Nanosecond, want: domain.SLAWarning},
		{name: "at warning window", remaining: 24 * time.Hour, want: domain.SLASafe},
		{name: "a week out", remaining: 7 * 24 * time.Hour, want: domain.SLASafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, domain.Classify(now.Add(tt.remaining), now))
		})
	}
}

func TestClassify_MonotonicInRemaining(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rank := map[domain.SLAStatus]int{
		domain.SLAOverdue:  0,
		domain.SLACritical: 1,
		domain.SLAWarning:  2,
		domain.SLASafe:     3,
	}

	previous := -1
	for remaining := -2 * time.Hour; remaining <= 30*time.Hour; remaining += 15 * time.Minute {
		got, ok := rank[domain.Classify(now.Add(remaining), now)]
		require.True(t, ok)
		require.GreaterOrEqual(t, got, previous, "remaining %s", remaining)
		previous = got
	}
}

func TestClassify_DeadlineMovedIntoThePast(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.Equal(t, domain.SLACritical, domain.Classify(now.Add(5*time.Hour), now))
	require.Equal(t, domain.SLAOverdue, domain.Classify(now.Add(-time.Minute), now))
}

func TestSLAThresholds_CustomWindows(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	thresholds := domain.SLAThresholds{Warning: 2 * time.Hour, Critical: 30 * time.Minute}

	require.Equal(t, domain.SLACritical, thresholds.Classify(now.Add(10*time.Minute), now))
	require.Equal(t, domain.SLAWarning, thresholds.Classify(now.Add(time.Hour), now))
	require.Equal(t, domain.SLASafe, thresholds.Classify(now.Add(3*time.Hour), now))
}

func TestSLAThresholds_Normalize(t *testing.T) {
	require.Equal(t, domain.DefaultSLAThresholds(), domain.SLAThresholds{}.Normalize())

	inverted := domain.SLAThresholds{Warning: time.Hour, Critical: 2 * time.Hour}.Normalize()
	require.Equal(t, time.Hour, inverted.Critical)
}

func TestSLAStatus_Groups(t *testing.T) {
	require.True(t, domain.SLAOverdue.IsAtRisk())
	require.False(t, domain.SLAOverdue.IsUpcoming())
	require.True(t, domain.SLAWarning.IsUpcoming())
	require.True(t, domain.SLACritical.IsUpcoming())
	require.False(t, domain.SLASafe.IsAtRisk())
}
