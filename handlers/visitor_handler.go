package handlers

import (
	"net/http"
	"strconv"

	"github.com/petanque-voyages/booking-system/services"
)

type VisitorHandler struct {
	visitorService services.VisitorService
}

func NewVisitorHandler(visitorService services.VisitorService) *VisitorHandler {
	return &VisitorHandler{visitorService: visitorService}
}

func (h *VisitorHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	visitors, err := h.visitorService.List(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"visitors": visitors}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *VisitorHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.visitorService.Stats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
