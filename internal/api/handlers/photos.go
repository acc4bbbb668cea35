package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rohits-web03/snapvault/internal/api/middleware"
	"github.com/rohits-web03/snapvault/internal/api/services"
	"github.com/rohits-web03/snapvault/internal/models"
	"github.com/rohits-web03/snapvault/internal/repositories"
	"github.com/rohits-web03/snapvault/internal/utils"
	"gorm.io/gorm"
)

type photoInput struct {
	EventID   uint   `json:"eventId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	ImageURL  string `json:"imageUrl"`
	ObjectKey string `json:"objectKey"`
	Filter    string `json:"filter"`
}

// POST /api/v1/photos
// SubmitPhoto godoc
// @Summary Submit a photo to an event
// @Description Admission is quota-checked: each identified guest gets
// photoLimit photos, submissions without an identity share one event-wide
// pool. The count and insert run in one transaction.
// @Tags Photos
// @Accept json
// @Produce json
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/photos [post]
func SubmitPhoto(w http.ResponseWriter, r *http.Request) {
	var input photoInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid photo data",
		})
		return
	}

	if input.EventID == 0 {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "eventId is required",
		})
		return
	}
	if input.ImageURL == "" && input.ObjectKey == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "imageUrl is required",
		})
		return
	}

	// A bearer token stands in for the body userId when the client omits it.
	if input.UserID == "" {
		if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
			input.UserID = userID
		}
	}

	var event models.Event
	err := repositories.DB.First(&event, input.EventID).Error
	switch err {
	case nil:
	case gorm.ErrRecordNotFound:
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Event not found",
		})
		return
	default:
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	// Offloaded originals must actually be in the bucket before we admit them.
	if input.ObjectKey != "" {
		if !repositories.MediaEnabled() {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: "Media storage is not configured",
			})
			return
		}
		exists, err := repositories.VerifyObjectExists(r.Context(), input.ObjectKey)
		if err != nil {
			utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
				Success: false,
				Message: "Failed to verify uploaded object",
			})
			return
		}
		if !exists {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: "Uploaded object not found",
			})
			return
		}
	}

	photo := models.Photo{
		EventID:   event.ID,
		UserName:  input.UserName,
		ImageURL:  input.ImageURL,
		ObjectKey: input.ObjectKey,
		Filter:    input.Filter,
		TakenAt:   time.Now(),
	}
	if input.UserID != "" {
		photo.UserID = &input.UserID
	}

	scope := services.ScopeForUser(input.UserID)
	err = repositories.DB.Transaction(func(tx *gorm.DB) error {
		if err := scope.Check(tx, &event); err != nil {
			return err
		}
		return tx.Create(&photo).Error
	})
	if err != nil {
		if limitErr, ok := services.AsPhotoLimit(err); ok {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Success: false,
				Message: limitErr.Error(),
			})
			return
		}
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to store photo",
		})
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Photo submitted successfully",
		Data:    photo,
	})
}

// GET /api/v1/events/{id}/photos
// ListEventPhotos godoc
// @Summary Raw photo list for an event
// @Description Returns every photo; clients applying their own reveal
// countdown use this. See the gallery endpoint for the server-filtered view.
// @Tags Photos
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/events/{id}/photos [get]
func ListEventPhotos(w http.ResponseWriter, r *http.Request) {
	event, ok := fetchEvent(w, r)
	if !ok {
		return
	}

	var photos []models.Photo
	if err := repositories.DB.Where("event_id = ?", event.ID).Order("id").Find(&photos).Error; err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Photos retrieved successfully",
		Data:    photos,
	})
}

type galleryPhoto struct {
	models.Photo
	Revealed  bool   `json:"revealed"`
	RevealsIn string `json:"revealsIn,omitempty"` // MM:SS, only while hidden
}

// GET /api/v1/events/{id}/gallery
// EventGallery godoc
// @Summary Reveal-filtered photo view
// @Description Each photo carries a revealed flag; hidden photos have their
// payload withheld and a countdown instead.
// @Tags Photos
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/events/{id}/gallery [get]
func EventGallery(w http.ResponseWriter, r *http.Request) {
	event, ok := fetchEvent(w, r)
	if !ok {
		return
	}

	var photos []models.Photo
	if err := repositories.DB.Where("event_id = ?", event.ID).Order("id").Find(&photos).Error; err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	now := time.Now()
	gallery := make([]galleryPhoto, 0, len(photos))
	for _, p := range photos {
		gp := galleryPhoto{Photo: p, Revealed: services.IsRevealed(&p, event, now)}
		if !gp.Revealed {
			gp.ImageURL = ""
			gp.ObjectKey = ""
			gp.RevealsIn = services.FormatCountdown(services.Remaining(&p, event, now))
		}
		gallery = append(gallery, gp)
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Gallery retrieved successfully",
		Data: map[string]any{
			"revealDelay": event.RevealDelay,
			"photos":      gallery,
		},
	})
}

// fetchEvent resolves the {id} path segment, writing the error response
// itself when the id is malformed or unknown.
func fetchEvent(w http.ResponseWriter, r *http.Request) (*models.Event, bool) {
	id, ok := eventIDFromPath(r)
	if !ok {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid event id",
		})
		return nil, false
	}

	var event models.Event
	err := repositories.DB.First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Event not found",
		})
		return nil, false
	}
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return nil, false
	}
	return &event, true
}
