package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/rohits-web03/snapvault/internal/models"
	"github.com/rohits-web03/snapvault/internal/repositories"
	"github.com/stretchr/testify/assert"
)

func createEvent(t *testing.T, h http.Handler, body map[string]any) int {
	t.Helper()
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/events", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("event creation failed: %d %s", rec.Code, rec.Body.String())
	}
	return int(env.Data["id"].(float64))
}

func TestPhotoQuota(t *testing.T) {
	h := setupServer(t)
	eventID := createEvent(t, h, map[string]any{
		"name":        "garden party",
		"photoLimit":  2,
		"revealDelay": 0,
	})

	submit := func(userID string) (*int, string, int) {
		rec, env := doJSON(t, h, http.MethodPost, "/api/v1/photos", map[string]any{
			"eventId":  eventID,
			"userId":   userID,
			"userName": "alice",
			"imageUrl": "data:image/jpeg;base64,QQ==",
			"filter":   "sepia",
		}, "")
		var id *int
		if rec.Code == http.StatusCreated {
			v := int(env.Data["id"].(float64))
			id = &v
		}
		return id, env.Message, rec.Code
	}

	t.Run("alice's first two photos are admitted, the third rejected", func(t *testing.T) {
		_, _, code := submit("alice-id")
		assert.Equal(t, http.StatusCreated, code)
		_, _, code = submit("alice-id")
		assert.Equal(t, http.StatusCreated, code)

		_, msg, code := submit("alice-id")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "You've reached your limit of 2 photos for this event", msg)
	})

	t.Run("rejection leaves no record behind", func(t *testing.T) {
		var n int64
		assert.NoError(t, repositories.DB.Model(&models.Photo{}).
			Where("event_id = ? AND user_id = ?", eventID, "alice-id").Count(&n).Error)
		assert.Equal(t, int64(2), n)
	})

	t.Run("another guest still has their own allowance", func(t *testing.T) {
		_, _, code := submit("bob-id")
		assert.Equal(t, http.StatusCreated, code)
	})

	t.Run("unknown event is a not-found", func(t *testing.T) {
		rec, _ := doJSON(t, h, http.MethodPost, "/api/v1/photos", map[string]any{
			"eventId":  9999,
			"imageUrl": "data:image/jpeg;base64,QQ==",
		}, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("payload is required", func(t *testing.T) {
		rec, _ := doJSON(t, h, http.MethodPost, "/api/v1/photos", map[string]any{
			"eventId": eventID,
		}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPhotoQuotaEventScopeFallback(t *testing.T) {
	h := setupServer(t)
	eventID := createEvent(t, h, map[string]any{
		"name":        "legacy bash",
		"photoLimit":  2,
		"revealDelay": 0,
	})

	submitAnonymous := func() (string, int) {
		rec, env := doJSON(t, h, http.MethodPost, "/api/v1/photos", map[string]any{
			"eventId":  eventID,
			"imageUrl": "data:image/jpeg;base64,QQ==",
		}, "")
		return env.Message, rec.Code
	}

	_, code := submitAnonymous()
	assert.Equal(t, http.StatusCreated, code)
	_, code = submitAnonymous()
	assert.Equal(t, http.StatusCreated, code)

	// Third anonymous submission exhausts the single shared pool.
	msg, code := submitAnonymous()
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Photo limit exceeded", msg)
}

func TestBearerTokenStandsInForUserID(t *testing.T) {
	h := setupServer(t)
	token, userID := signup(t, h, "a@x.com", "Alice")
	eventID := createEvent(t, h, map[string]any{"name": "mixer", "photoLimit": 1, "revealDelay": 0})

	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/photos", map[string]any{
		"eventId":  eventID,
		"imageUrl": "data:image/jpeg;base64,QQ==",
	}, token)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, userID, env.Data["userId"])

	// The caller's quota is now spent even though the body carried no userId.
	rec, _ = doJSON(t, h, http.MethodPost, "/api/v1/photos", map[string]any{
		"eventId":  eventID,
		"imageUrl": "data:image/jpeg;base64,QQ==",
	}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListEventPhotos(t *testing.T) {
	h := setupServer(t)
	eventID := createEvent(t, h, map[string]any{"name": "hike", "photoLimit": 5, "revealDelay": 0})

	for i := 0; i < 3; i++ {
		rec, _ := doJSON(t, h, http.MethodPost, "/api/v1/photos", map[string]any{
			"eventId":  eventID,
			"userId":   fmt.Sprintf("guest-%d", i),
			"imageUrl": "data:image/jpeg;base64,QQ==",
		}, "")
		assert.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, _ := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/events/%d/photos", eventID), nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Data []models.Photo `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Data, 3)

	t.Run("unknown event is a not-found", func(t *testing.T) {
		rec, _ := doJSON(t, h, http.MethodGet, "/api/v1/events/9999/photos", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEventGallery(t *testing.T) {
	h := setupServer(t)

	t.Run("zero delay reveals immediately", func(t *testing.T) {
		eventID := createEvent(t, h, map[string]any{"name": "now", "photoLimit": 3, "revealDelay": 0})
		doJSON(t, h, http.MethodPost, "/api/v1/photos", map[string]any{
			"eventId":  eventID,
			"userId":   "alice",
			"imageUrl": "data:image/jpeg;base64,QQ==",
		}, "")

		rec, _ := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/events/%d/gallery", eventID), nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data struct {
				Photos []struct {
					ImageURL  string `json:"imageUrl"`
					Revealed  bool   `json:"revealed"`
					RevealsIn string `json:"revealsIn"`
				} `json:"photos"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Data.Photos, 1)
		assert.True(t, resp.Data.Photos[0].Revealed)
		assert.NotEmpty(t, resp.Data.Photos[0].ImageURL)
		assert.Empty(t, resp.Data.Photos[0].RevealsIn)
	})

	t.Run("pending photos are withheld with a countdown", func(t *testing.T) {
		eventID := createEvent(t, h, map[string]any{"name": "later", "photoLimit": 3, "revealDelay": 60})
		doJSON(t, h, http.MethodPost, "/api/v1/photos", map[string]any{
			"eventId":  eventID,
			"userId":   "alice",
			"imageUrl": "data:image/jpeg;base64,QQ==",
		}, "")

		rec, _ := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/events/%d/gallery", eventID), nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data struct {
				Photos []struct {
					ImageURL  string `json:"imageUrl"`
					Revealed  bool   `json:"revealed"`
					RevealsIn string `json:"revealsIn"`
				} `json:"photos"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Data.Photos, 1)
		assert.False(t, resp.Data.Photos[0].Revealed)
		assert.Empty(t, resp.Data.Photos[0].ImageURL)
		assert.NotEmpty(t, resp.Data.Photos[0].RevealsIn)
	})
}

func TestPhotoMedia(t *testing.T) {
	h := setupServer(t)
	eventID := createEvent(t, h, map[string]any{"name": "show", "photoLimit": 3, "revealDelay": 0})

	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/photos", map[string]any{
		"eventId":  eventID,
		"userId":   "alice",
		"imageUrl": "data:image/jpeg;base64,QQ==",
	}, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	photoID := int(env.Data["id"].(float64))

	t.Run("revealed inline photo returns its payload", func(t *testing.T) {
		rec, env := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/photos/%d/media", photoID), nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "data:image/jpeg;base64,QQ==", env.Data["imageUrl"])
	})

	t.Run("hidden photo is gated", func(t *testing.T) {
		// Re-point the event's delay into the future; reveal state is
		// recomputed per read, so the same photo flips back to hidden.
		assert.NoError(t, repositories.DB.Model(&models.Event{}).
			Where("id = ?", eventID).Update("reveal_delay", 120).Error)

		rec, env := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/photos/%d/media", photoID), nil, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.NotEmpty(t, env.Data["revealsIn"])
	})

	t.Run("unknown photo is a not-found", func(t *testing.T) {
		rec, _ := doJSON(t, h, http.MethodGet, "/api/v1/photos/9999/media", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRegisterGuest(t *testing.T) {
	h := setupServer(t)
	eventID := createEvent(t, h, map[string]any{"name": "mixer"})

	t.Run("issues a fresh identity", func(t *testing.T) {
		rec, env := doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/v1/events/%d/register", eventID), map[string]any{
			"userName": "alice",
		}, "")
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "alice", env.Data["userName"])
		assert.Equal(t, float64(eventID), env.Data["eventId"])
		assert.NotEmpty(t, env.Data["userId"])

		// identities are unique per registration
		_, env2 := doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/v1/events/%d/register", eventID), map[string]any{
			"userName": "alice",
		}, "")
		assert.NotEqual(t, env.Data["userId"], env2.Data["userId"])
	})

	t.Run("requires a name", func(t *testing.T) {
		rec, _ := doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/v1/events/%d/register", eventID), map[string]any{}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown event is a not-found", func(t *testing.T) {
		rec, _ := doJSON(t, h, http.MethodPost, "/api/v1/events/9999/register", map[string]any{
			"userName": "alice",
		}, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSubmittedPhotoTimestamps(t *testing.T) {
	h := setupServer(t)
	eventID := createEvent(t, h, map[string]any{"name": "timing", "revealDelay": 0})

	before := time.Now().Add(-time.Second)
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/photos", map[string]any{
		"eventId":  eventID,
		"userId":   "alice",
		"imageUrl": "data:image/jpeg;base64,QQ==",
	}, "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	takenAt, err := time.Parse(time.RFC3339Nano, env.Data["takenAt"].(string))
	assert.NoError(t, err)
	assert.True(t, takenAt.After(before))
	assert.True(t, takenAt.Before(time.Now().Add(time.Second)))
}
