package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/snapvault/internal/api/services"
	"github.com/rohits-web03/snapvault/internal/models"
	"github.com/rohits-web03/snapvault/internal/repositories"
	"github.com/rohits-web03/snapvault/internal/utils"
	"gorm.io/gorm"
)

// POST /api/v1/photos/presign
// PresignUpload godoc
// @Summary Presigned upload URL for a full-resolution original
// @Description The inline base64 payload stays canonical; this lets clients
// push the original straight to object storage and reference it by key.
// @Tags Photos
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/photos/presign [post]
func PresignUpload(w http.ResponseWriter, r *http.Request) {
	if !repositories.MediaEnabled() {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Media storage is not configured",
		})
		return
	}

	var input struct {
		EventID uint `json:"eventId"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil || input.EventID == 0 {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "eventId is required",
		})
		return
	}

	var event models.Event
	if err := repositories.DB.First(&event, input.EventID).Error; err != nil {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Event not found",
		})
		return
	}

	key := fmt.Sprintf("events/%d/%s", event.ID, uuid.NewString())
	url, err := repositories.GeneratePresignedPutURL(r.Context(), key, 15*time.Minute)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Failed to generate upload URL",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Presigned upload URL generated successfully",
		Data: map[string]any{
			"url":       url,
			"objectKey": key,
			"expiresIn": "15m",
		},
	})
}

// GET /api/v1/photos/{id}/media
// GetPhotoMedia godoc
// @Summary Full payload of a photo, reveal-gated
// @Description Hidden photos return 403 with the countdown. Revealed photos
// return either a presigned download URL for the offloaded original or the
// inline payload.
// @Tags Photos
// @Produce json
// @Param id path int true "Photo ID"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/photos/{id}/media [get]
func GetPhotoMedia(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid photo id",
		})
		return
	}

	var photo models.Photo
	err = repositories.DB.First(&photo, id).Error
	switch err {
	case nil:
	case gorm.ErrRecordNotFound:
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Photo not found",
		})
		return
	default:
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}

	var event models.Event
	if err := repositories.DB.First(&event, photo.EventID).Error; err != nil {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Success: false,
			Message: "Event not found",
		})
		return
	}

	now := time.Now()
	if !services.IsRevealed(&photo, &event, now) {
		utils.JSONResponse(w, http.StatusForbidden, utils.Payload{
			Success: false,
			Message: "Photo is not revealed yet",
			Data: map[string]any{
				"revealsIn": services.FormatCountdown(services.Remaining(&photo, &event, now)),
			},
		})
		return
	}

	if photo.ObjectKey != "" && repositories.MediaEnabled() {
		url, err := repositories.GeneratePresignedGetURL(r.Context(), photo.ObjectKey, 15*time.Minute)
		if err != nil {
			utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
				Success: false,
				Message: "Failed to generate download URL",
			})
			return
		}
		utils.JSONResponse(w, http.StatusOK, utils.Payload{
			Success: true,
			Message: "Presigned download URL generated successfully",
			Data: map[string]any{
				"url":    url,
				"filter": photo.Filter,
			},
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Photo retrieved successfully",
		Data: map[string]any{
			"imageUrl": photo.ImageURL,
			"filter":   photo.Filter,
		},
	})
}
