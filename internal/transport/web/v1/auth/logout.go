package auth

import (
	"log"
	"net/http"

	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/transport/web/logx"
	"github.com/kln-se/uml-diagrams/internal/transport/web/mw"
	v1 "github.com/kln-se/uml-diagrams/internal/transport/web/v1"
)

type HandlerLogout struct {
	Log       *log.Logger
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
}

// Logout godoc
// @Summary     Logout (revoke token)
// @Description Помечает текущий токен отозванным до истечения exp.
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     204
// @Failure     401 {object} v1.DetailResponse
// @Failure     500 {object} v1.DetailResponse
// @Router      /auth/logout [post]
func (h *HandlerLogout) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "auth.logout"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	raw := mw.TokenFromRequest(r)
	if raw == "" {
		logx.Error(h.Log, reqID, op, "missing token", domain.ErrUnauth)
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	claims, err := h.Tokens.Parse(r.Context(), raw)
	if err != nil {
		logx.Error(h.Log, reqID, op, "parse token failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	// ревокация до exp
	if err := h.Blacklist.Revoke(r.Context(), claims.JTI, claims.ExpiresAt); err != nil {
		logx.Error(h.Log, reqID, op, "revoke failed", err, "jti", claims.JTI)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "jti", claims.JTI)
	v1.WriteNoContent(w, r)
}
