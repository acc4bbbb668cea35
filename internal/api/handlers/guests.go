package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rohits-web03/snapvault/internal/utils"
)

// POST /api/v1/events/{id}/register
// RegisterGuest godoc
// @Summary Join an event as a guest
// @Description Issues a fresh guest identity for the event. Nothing is
// persisted; the id only ever appears on the guest's own photo submissions.
// @Tags Events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/events/{id}/register [post]
func RegisterGuest(w http.ResponseWriter, r *http.Request) {
	event, ok := fetchEvent(w, r)
	if !ok {
		return
	}

	var input struct {
		UserName string `json:"userName"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return
	}
	if input.UserName == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "userName is required",
		})
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Registered for event",
		Data: map[string]any{
			"userId":   uuid.NewString(),
			"userName": input.UserName,
			"eventId":  event.ID,
		},
	})
}
