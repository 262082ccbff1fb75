package diagram

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/transport/web/logx"
	"github.com/kln-se/uml-diagrams/internal/transport/web/mw"
	v1 "github.com/kln-se/uml-diagrams/internal/transport/web/v1"
)

type copyRequest struct {
	Description *string `json:"description"`
}

// тело опционально: пустой body — копия без переопределения описания
func decodeCopyRequest(r *http.Request) (copyRequest, error) {
	var req copyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return copyRequest{}, domain.ErrBadParams
	}
	return req, nil
}

// Copy godoc
// @Summary     Copy own diagram
// @Description Создаёт копию с заголовком "Copy of <title>" и владельцем-актором.
// @Tags        diagrams
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "diagram id"
// @Param       request body copyRequest false "description override"
// @Success     201 {object} domain.Diagram
// @Failure     401 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /diagrams/{id}/copy [post]
func (h *Handler) Copy(w http.ResponseWriter, r *http.Request) {
	const op = "diagrams.copy"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	actor, ok := mw.ActorFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	id, err := diagramIDFromPath(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	req, err := decodeCopyRequest(r)
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	d, err := h.Diagrams.Copy(r.Context(), actor, id, req.Description)
	if err != nil {
		logx.Error(h.Log, reqID, op, "copy failed", err, "diagram_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "src_id", id, "copy_id", d.ID)
	v1.WriteJSON(w, r, http.StatusCreated, d)
}
