package domain

import "time"

// SLAStatus is the urgency tier of a task relative to its deadline. It is
// derived at read time and never persisted.
type SLAStatus string

const (
	SLASafe     SLAStatus = "safe"
	SLAWarning  SLAStatus = "warning"
	SLACritical SLAStatus = "critical"
	SLAOverdue  SLAStatus = "overdue"
)

const (
	DefaultWarningWindow  = 24 * time.Hour
	DefaultCriticalWindow = 6 * time.Hour
)

// LabelKey is the translation message id of the tier label.
func (s SLAStatus) LabelKey() string {
	switch s {
	case SLASafe:
		return "slaSafe"
	case SLAWarning:
		return "slaWarning"
	case SLACritical:
		return "slaCritical"
	case SLAOverdue:
		return "slaOverdue"
	default:
		return "slaUnknown"
	}
}

// IsAtRisk reports whether the tier needs attention (warning, critical or overdue).
func (s SLAStatus) IsAtRisk() bool {
	return s == SLAWarning || s == SLACritical || s == SLAOverdue
}

// IsUpcoming reports whether the deadline is close but has not lapsed.
func (s SLAStatus) IsUpcoming() bool {
	return s == SLAWarning || s == SLACritical
}

type SLAThresholds struct {
	Warning  time.Duration
	Critical time.Duration
}

func DefaultSLAThresholds() SLAThresholds {
	return SLAThresholds{
		Warning:  DefaultWarningWindow,
		Critical: DefaultCriticalWindow,
	}
}

// Normalize fills zero windows with defaults and keeps Critical <= Warning.
func (t SLAThresholds) Normalize() SLAThresholds {
	if t.Warning <= 0 {
		t.Warning = DefaultWarningWindow
	}
	if t.Critical <= 0 {
		t.Critical = DefaultCriticalWindow
	}
	if t.Critical > t.Warning {
		t.Critical = t.Warning
	}
	return t
}

// Classify maps the time left until deadline to a tier. The result depends on
// now and must be recomputed for every decision.
func (t SLAThresholds) Classify(deadline, now time.Time) SLAStatus {
	t = t.Normalize()
	remaining := deadline.Sub(now)
	switch {
	case remaining < 0:
		return SLAOverdue
	case remaining < t.Critical:
		return SLACritical
	case remaining < t.Warning:
		return SLAWarning
	default:
		return SLASafe
	}
}

// Classify uses the default 24h/6h windows.
func Classify(deadline, now time.Time) SLAStatus {
	return DefaultSLAThresholds().Classify(deadline, now)
}
