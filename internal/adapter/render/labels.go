// Package render turns tasks into localized text: labels and remaining-time
// phrases for read models, and the plain-text task report document.
package render

import (
	"time"

	"taskflow/internal/core/domain"
	"taskflow/pkg/translator"
)

func StatusLabel(lang string, status domain.TaskStatus) string {
	return translator.Localize(lang, status.LabelKey(), nil)
}

func SLALabel(lang string, status domain.SLAStatus) string {
	return translator.Localize(lang, status.LabelKey(), nil)
}

// Remaining describes the time between now and deadline, e.g. "1d 4h left"
// or "overdue by 35m".
func Remaining(lang string, deadline, now time.Time) string {
	left := deadline.Sub(now)
	if left < 0 {
		return translator.Localize(lang, "timeOverdue", map[string]interface{}{"Duration": Duration(lang, -left)})
	}
	return translator.Localize(lang, "timeLeft", map[string]interface{}{"Duration": Duration(lang, left)})
}

// Duration formats d with its two most significant units, truncated to the
// minute.
func Duration(lang string, d time.Duration) string {
	if d < 0 {
		d = -d
	}
	d = d.Truncate(time.Minute)
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	minutes := int(d % time.Hour / time.Minute)

	switch {
	case days > 0:
		return translator.Localize(lang, "durationDays", map[string]interface{}{"Days": days, "Hours": hours})
	case hours > 0:
		return translator.Localize(lang, "durationHours", map[string]interface{}{"Hours": hours, "Minutes": minutes})
	default:
		return translator.Localize(lang, "durationMinutes", map[string]interface{}{"Minutes": minutes})
	}
}
