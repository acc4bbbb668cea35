package services

import (
	"fmt"
	"time"

	"github.com/rohits-web03/snapvault/internal/models"
)

// Reveal state is never stored; it is recomputed from the photo's capture
// time and the event's delay on every read.

// RevealTime returns the instant a photo becomes visible.
func RevealTime(photo *models.Photo, event *models.Event) time.Time {
	return photo.TakenAt.Add(time.Duration(event.RevealDelay) * time.Minute)
}

// IsRevealed reports whether the photo is visible at now. The boundary is
// closed: a photo whose reveal time equals now is already revealed.
func IsRevealed(photo *models.Photo, event *models.Event, now time.Time) bool {
	return !now.Before(RevealTime(photo, event))
}

// Remaining returns the time left until reveal, clamped at zero.
func Remaining(photo *models.Photo, event *models.Event, now time.Time) time.Duration {
	d := RevealTime(photo, event).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// FormatCountdown renders a remaining duration as "MM:SS" for display.
func FormatCountdown(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
