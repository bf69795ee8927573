package handlers

import (
	"net/http"

	"github.com/petanque-voyages/booking-system/i18n"
	"github.com/petanque-voyages/booking-system/services"
)

type ReviewHandler struct {
	reviewService services.ReviewService
	bundle        *i18n.Bundle
}

func NewReviewHandler(reviewService services.ReviewService, bundle *i18n.Bundle) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		bundle:        bundle,
	}
}

// ListPublic godoc
// @Summary List published reviews
// @Tags reviews
// @Produce json
// @Success 200 {array} models.Review
// @Router /reviews [get]
func (h *ReviewHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.List(r.Context(), true)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"reviews": reviews}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListAll includes unmoderated reviews, for the back office.
func (h *ReviewHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.List(r.Context(), false)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"reviews": reviews}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Submit godoc
// @Summary Submit a review for moderation
// @Tags reviews
// @Accept json
// @Produce json
// @Param input body services.ReviewInput true "Review"
// @Success 201 {object} models.Review
// @Router /reviews [post]
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input services.ReviewInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	review, err := h.reviewService.Submit(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	lang := h.bundle.FromRequest(r)
	response := jsonResponse{
		"review":  review,
		"message": h.bundle.T(lang, "review.received"),
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReviewHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	reviewID, err := idParam(r, "reviewID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Published bool `json:"published"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	review, err := h.reviewService.SetPublished(r.Context(), reviewID, input.Published)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"review": review}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reviewID, err := idParam(r, "reviewID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.reviewService.Delete(r.Context(), reviewID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
