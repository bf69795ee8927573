package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/petanque-voyages/booking-system/services"
)

type ProgramHandler struct {
	programService services.ProgramService
}

func NewProgramHandler(programService services.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// ListPublic godoc
// @Summary List published travel programs
// @Tags programs
// @Produce json
// @Success 200 {array} models.Program
// @Router /programs [get]
func (h *ProgramHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	programs, err := h.programService.List(r.Context(), true)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"programs": programs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListAll returns drafts too, for the back office.
func (h *ProgramHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	programs, err := h.programService.List(r.Context(), false)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"programs": programs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Get godoc
// @Summary Get one program
// @Tags programs
// @Produce json
// @Param programID path int true "Program ID"
// @Success 200 {object} models.Program
// @Router /programs/{programID} [get]
func (h *ProgramHandler) Get(w http.ResponseWriter, r *http.Request) {
	programID, err := idParam(r, "programID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	program, err := h.programService.GetByID(r.Context(), programID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"program": program}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProgramHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.ProgramInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	program, err := h.programService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"program": program}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProgramHandler) Update(w http.ResponseWriter, r *http.Request) {
	programID, err := idParam(r, "programID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ProgramInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	program, err := h.programService.Update(r.Context(), programID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"program": program}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProgramHandler) Delete(w http.ResponseWriter, r *http.Request) {
	programID, err := idParam(r, "programID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.programService.Delete(r.Context(), programID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage replaces the program cover image.
func (h *ProgramHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	programID, err := idParam(r, "programID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get image file from form: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content-type header is required for image"))
		return
	}

	program, err := h.programService.UploadImage(r.Context(), programID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"program": program}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
