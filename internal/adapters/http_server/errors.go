package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"stayhub/internal/domain"
)

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemKind(w, status, title, detail, "")
}

func writeProblemKind(w http.ResponseWriter, status int, title, detail, kind string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Kind: kind}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// guestStatus maps the core error taxonomy onto guest API statuses.
func guestStatus(err error) int {
	if errors.Is(err, domain.ErrOverlap) {
		return http.StatusConflict
	}
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidRange, domain.KindOutOfBounds, domain.KindCapacity:
		return http.StatusUnprocessableEntity
	case domain.KindNotEligible:
		return http.StatusForbidden
	case domain.KindSubmission:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// storeStatus maps store-side failures: anything the caller sent wrong is a
// 400, overlaps are 409.
func storeStatus(err error) int {
	if errors.Is(err, domain.ErrOverlap) {
		return http.StatusConflict
	}
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindInvalidRange, domain.KindOutOfBounds, domain.KindCapacity:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	detail := err.Error()
	var de *domain.Error
	kind := ""
	if errors.As(err, &de) {
		kind = de.Kind.String()
		if de.Msg != "" {
			detail = de.Msg
		}
	}
	if status >= 500 {
		log.Error().Err(err).Int("status", status).Msg("request failed")
		if status == http.StatusInternalServerError {
			detail = "internal error"
		}
	}
	writeProblemKind(w, status, http.StatusText(status), detail, kind)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}
