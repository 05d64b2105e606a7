package convert

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/coursecal/coursecal/internal/rest"
)

// maxUploadBytes caps the upload body; schedule exports are a few hundred KB.
const maxUploadBytes = 10 << 20

type Handler struct {
	converter Converter
}

func NewHandler(converter Converter) *Handler {
	return &Handler{converter: converter}
}

// Convert godoc
// @Summary Convert a course schedule export to an iCalendar file
// @Description Accepts a course-schedule spreadsheet export and returns a downloadable .ics file (max 10MB)
// @Tags Convert
// @Accept multipart/form-data
// @Produce text/calendar
// @Param file formData file true "Schedule spreadsheet (.xlsx)"
// @Param skip_breaks formData boolean false "Exclude institutional break dates"
// @Success 200 {file} text/calendar
// @Failure 400 {object} rest.ErrorResponse "Invalid upload or spreadsheet"
// @Failure 500 {object} rest.ErrorResponse "Conversion failed"
// @Router /api/convert [post]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	log.Trace("Converting uploaded schedule")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Debugf("failed to parse upload form: %v", err)
		writeError(w, http.StatusBadRequest, "The uploaded file is too large or the request is malformed.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Debugf("missing upload file: %v", err)
		writeError(w, http.StatusBadRequest, UserMessage(KindInvalidUpload))
		return
	}
	defer file.Close()
	log.Debugf("Uploaded file: %s (%d bytes)", header.Filename, header.Size)

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, UserMessage(KindInvalidUpload))
		return
	}

	skipBreaks := false
	if raw := r.FormValue("skip_breaks"); raw != "" {
		skipBreaks, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "skip_breaks must be a boolean value.")
			return
		}
	}

	result, err := h.converter.Convert(r.Context(), data, skipBreaks)
	if err != nil {
		var convErr *ConversionError
		if errors.As(err, &convErr) {
			log.Debugf("conversion rejected: %v", convErr)
			writeError(w, StatusCode(convErr.Kind), UserMessage(convErr.Kind))
			return
		}
		log.Errorf("unexpected conversion failure: %v", err)
		writeError(w, http.StatusInternalServerError, UserMessage(KindInternal))
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="courses.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Calendar); err != nil {
		log.Errorf("failed to write calendar response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message}); err != nil {
		log.Errorf("failed to encode error response: %v", err)
	}
}
