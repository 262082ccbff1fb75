package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/transport/web/mw"
)

// DetailResponse — тело ошибки в стиле исходного API: {"detail": "..."}.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// MapDomainError решает HTTP-статус и человекочитаемый detail.
func MapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrSelfSharing):
		return http.StatusBadRequest, "You cannot share a diagram with yourself."
	case errors.Is(err, domain.ErrDuplicateShare):
		return http.StatusBadRequest, "This diagram has already been shared with this user."
	case errors.Is(err, domain.ErrAlreadyPublic):
		return http.StatusBadRequest, "This diagram has already been shared publicly."
	case errors.Is(err, domain.ErrPublicPermission):
		return http.StatusBadRequest, "Publicly shared diagrams are view-only."
	case errors.Is(err, domain.ErrRecipientNotFound):
		return http.StatusBadRequest, "User with the given email does not exist or is inactive."
	case errors.Is(err, domain.ErrBadParams):
		return http.StatusBadRequest, "Invalid request."
	case errors.Is(err, domain.ErrUnauth):
		return http.StatusUnauthorized, "Authentication credentials were not provided or are invalid."
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "You do not have permission to perform this action."
	case errors.Is(err, domain.ErrNotFound):
		// скрытые ресурсы неотличимы от несуществующих
		return http.StatusNotFound, "Not found."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

// WriteJSON пишет произвольное JSON-тело; для HEAD — без тела.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", mw.RequestIDFromCtx(r.Context()))
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func WriteDetail(w http.ResponseWriter, r *http.Request, status int, detail string) {
	WriteJSON(w, r, status, DetailResponse{Detail: detail})
}

func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := MapDomainError(err)
	WriteDetail(w, r, status, detail)
}

func WriteNoContent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Request-ID", mw.RequestIDFromCtx(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}
