package handlers

import (
	"net/http"

	"github.com/petanque-voyages/booking-system/i18n"
	"github.com/petanque-voyages/booking-system/models"
	"github.com/petanque-voyages/booking-system/services"
)

type ReservationHandler struct {
	reservationService services.ReservationService
	bundle             *i18n.Bundle
}

func NewReservationHandler(reservationService services.ReservationService, bundle *i18n.Bundle) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		bundle:             bundle,
	}
}

// Submit godoc
// @Summary Submit a reservation request
// @Tags reservations
// @Accept json
// @Produce json
// @Param input body services.ReservationInput true "Reservation"
// @Success 201 {object} models.Reservation
// @Router /reservations [post]
func (h *ReservationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input services.ReservationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reservation, err := h.reservationService.Submit(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	lang := h.bundle.FromRequest(r)
	response := jsonResponse{
		"reservation": reservation,
		"message":     h.bundle.T(lang, "reservation.received"),
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List is the back-office view, optionally filtered by status.
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *models.ReservationStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.ReservationStatus(raw)
		status = &s
	}

	reservations, err := h.reservationService.List(r.Context(), status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"reservations": reservations}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	reservationID, err := idParam(r, "reservationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status models.ReservationStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reservation, err := h.reservationService.UpdateStatus(r.Context(), reservationID, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"reservation": reservation}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reservationID, err := idParam(r, "reservationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.reservationService.Delete(r.Context(), reservationID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
