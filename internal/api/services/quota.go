package services

import (
	"errors"
	"fmt"

	"github.com/rohits-web03/snapvault/internal/models"
	"gorm.io/gorm"
)

// ErrPhotoLimit is returned when a submission would exceed the event's quota.
// It carries the configured limit so handlers can surface it to the guest.
type ErrPhotoLimit struct {
	Limit    int
	PerGuest bool
}

func (e *ErrPhotoLimit) Error() string {
	if e.PerGuest {
		return fmt.Sprintf("You've reached your limit of %d photos for this event", e.Limit)
	}
	return "Photo limit exceeded"
}

// QuotaScope identifies whose photos count against an event's limit.
//
// The primary behavior is per-guest: every registered identity gets its
// own allowance of PhotoLimit photos. Submissions without an identity fall
// back to a single pool shared by the whole event, matching how events
// created before guest registration existed were counted.
type QuotaScope struct {
	userID string
}

// ScopeForUser returns the per-guest scope when userID is non-empty, or the
// event-wide fallback scope otherwise.
func ScopeForUser(userID string) QuotaScope {
	return QuotaScope{userID: userID}
}

// ScopeForEvent returns the event-wide pool scope.
func ScopeForEvent() QuotaScope {
	return QuotaScope{}
}

// PerGuest reports whether the scope counts a single guest's photos.
func (s QuotaScope) PerGuest() bool {
	return s.userID != ""
}

// Count returns the number of photos already held against this scope.
func (s QuotaScope) Count(tx *gorm.DB, eventID uint) (int64, error) {
	var n int64
	q := tx.Model(&models.Photo{}).Where("event_id = ?", eventID)
	if s.PerGuest() {
		q = q.Where("user_id = ?", s.userID)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Check returns an *ErrPhotoLimit when the scope's count has already reached
// the event's limit. Call it inside the same transaction as the insert so a
// rejection never leaves a partial write. Under read-committed isolation two
// concurrent last-slot submissions can still both be admitted.
func (s QuotaScope) Check(tx *gorm.DB, event *models.Event) error {
	n, err := s.Count(tx, event.ID)
	if err != nil {
		return err
	}
	if n >= int64(event.PhotoLimit) {
		return &ErrPhotoLimit{Limit: event.PhotoLimit, PerGuest: s.PerGuest()}
	}
	return nil
}

// AsPhotoLimit unwraps err as an *ErrPhotoLimit if it is one.
func AsPhotoLimit(err error) (*ErrPhotoLimit, bool) {
	var pl *ErrPhotoLimit
	if errors.As(err, &pl) {
		return pl, true
	}
	return nil, false
}
