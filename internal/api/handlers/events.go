package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rohits-web03/snapvault/internal/api/middleware"
	"github.com/rohits-web03/snapvault/internal/api/services"
	"github.com/rohits-web03/snapvault/internal/config"
	"github.com/rohits-web03/snapvault/internal/models"
	"github.com/rohits-web03/snapvault/internal/repositories"
	"github.com/rohits-web03/snapvault/internal/utils"
	"gorm.io/gorm"
)

type eventInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PhotoLimit  *int   `json:"photoLimit"`
	RevealDelay *int   `json:"revealDelay"`
}

// validate applies defaults for omitted fields and rejects out-of-range values.
func (in *eventInput) validate() (string, bool) {
	if in.Name == "" {
		return "name is required", false
	}
	if in.PhotoLimit != nil && *in.PhotoLimit < 1 {
		return "photoLimit must be at least 1", false
	}
	if in.RevealDelay != nil && *in.RevealDelay < 0 {
		return "revealDelay must not be negative", false
	}
	return "", true
}

func (in *eventInput) toEvent() models.Event {
	event := models.Event{
		Name:        in.Name,
		Description: in.Description,
		PhotoLimit:  models.DefaultPhotoLimit,
		RevealDelay: models.DefaultRevealDelay,
		Active:      true,
	}
	if in.PhotoLimit != nil {
		event.PhotoLimit = *in.PhotoLimit
	}
	if in.RevealDelay != nil {
		event.RevealDelay = *in.RevealDelay
	}
	return event
}

func eventIDFromPath(r *http.Request) (uint, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return uint(id), true
}

// GET /api/v1/events
// ListEvents godoc
// @Summary List all events
// @Tags Events
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/v1/events [get]
func ListEvents(w http.ResponseWriter, r *http.Request) {
	var events []models.Event
	if err := repositories.DB.Order("id").Find(&events).Error; err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Events retrieved successfully",
		Data:    events,
	})
}

// GET /api/v1/events/{id}
// GetEvent godoc
// @Summary Fetch one event
// @Tags Events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/events/{id} [get]
func GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDFromPath(r)
	if !ok {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid event id",
		})
		return
	}

	var event models.Event
	err := repositories.DB.First(&event, id).Error
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

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Event retrieved successfully",
		Data:    event,
	})
}

// POST /api/v1/events
// CreateEvent godoc
// @Summary Create an event without an account
// @Description Deprecated: anonymous creation path kept for older clients.
// Use POST /api/v1/auth/events, which records the host.
// @Tags Events
// @Accept json
// @Produce json
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/events [post]
func CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input eventInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid event data",
		})
		return
	}
	if msg, ok := input.validate(); !ok {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: msg,
		})
		return
	}

	event := input.toEvent()
	if err := repositories.DB.Create(&event).Error; err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database insert failed",
		})
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Event created successfully",
		Data:    event,
	})
}

// POST /api/v1/auth/events
// CreateHostedEvent godoc
// @Summary Create an event with the caller as host
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/auth/events [post]
func CreateHostedEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	var host models.User
	if err := repositories.DB.First(&host, "id = ?", userID).Error; err != nil {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "User not found",
		})
		return
	}

	var input eventInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid event data",
		})
		return
	}
	if msg, ok := input.validate(); !ok {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: msg,
		})
		return
	}

	event := input.toEvent()
	event.HostID = &host.ID
	event.HostName = host.Name

	if err := repositories.DB.Create(&event).Error; err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database insert failed",
		})
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Event created successfully",
		Data:    event,
	})
}

// GET /api/v1/auth/events
// ListHostedEvents godoc
// @Summary List events hosted by the caller
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/auth/events [get]
func ListHostedEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	var events []models.Event
	if err := repositories.DB.Where("host_id = ?", userID).Order("id").Find(&events).Error; err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Events retrieved successfully",
		Data:    events,
	})
}

// DELETE /api/v1/events/{id}
// DeleteEvent godoc
// @Summary Delete an event and all of its photos
// @Description Only the owning host may delete a hosted event. Photos are
// removed in the same transaction so no orphans remain.
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/events/{id} [delete]
func DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Success: false,
			Message: "Unauthorized",
		})
		return
	}

	id, validID := eventIDFromPath(r)
	if !validID {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid event id",
		})
		return
	}

	var event models.Event
	err := repositories.DB.First(&event, id).Error
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

	// Legacy host-less events are deletable by any authenticated caller.
	if event.HostID != nil && *event.HostID != userID {
		utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
			Success: false,
			Message: "Only the host can delete this event",
		})
		return
	}

	err = repositories.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Photo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to delete event",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Event deleted successfully",
	})
}

// GET /api/v1/events/{id}/qr
// EventQRCode godoc
// @Summary Registration QR code for an event
// @Description Returns the join URL and a base64 PNG QR code for it.
// @Tags Events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/events/{id}/qr [get]
func EventQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDFromPath(r)
	if !ok {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid event id",
		})
		return
	}

	var event models.Event
	if err := repositories.DB.First(&event, id).Error; err != nil {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Event not found",
		})
		return
	}

	size := 0
	if s := r.URL.Query().Get("size"); s != "" {
		size, _ = strconv.Atoi(s)
	}

	url, png, err := services.JoinQRCode(config.Envs.PublicBaseURL, event.ID, size)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to generate QR code",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "QR code generated successfully",
		Data: map[string]any{
			"url": url,
			"qr":  png,
		},
	})
}
