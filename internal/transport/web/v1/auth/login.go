package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/transport/web/logx"
	"github.com/kln-se/uml-diagrams/internal/transport/web/mw"
	v1 "github.com/kln-se/uml-diagrams/internal/transport/web/v1"
)

type HandlerLogin struct {
	Log    *log.Logger
	Users  domain.UsersRepo
	Hasher domain.PasswordHasher
	Tokens domain.TokenManager
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login godoc
// @Summary     Authenticate user
// @Description Возвращает JWT при валидных email и пароле.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body loginRequest true "email, password"
// @Success     200 {object} loginResponse
// @Failure     400 {object} v1.DetailResponse
// @Failure     401 {object} v1.DetailResponse
// @Failure     500 {object} v1.DetailResponse
// @Router      /auth/login [post]
func (h *HandlerLogin) Login(w http.ResponseWriter, r *http.Request) {
	const op = "auth.login"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		logx.Error(h.Log, reqID, op, "empty email or password", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	u, err := h.Users.UserByEmail(r.Context(), req.Email)
	if err != nil {
		logx.Error(h.Log, reqID, op, "user not found", err, "email", req.Email)
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}
	if !u.IsActive {
		logx.Error(h.Log, reqID, op, "inactive user", domain.ErrUnauth, "user_id", u.ID)
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	ok, err := h.Hasher.Verify(req.Password, u.PassHash)
	if err != nil || !ok {
		logx.Error(h.Log, reqID, op, "password verify failed", err, "email", req.Email)
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	token, _, err := h.Tokens.Issue(r.Context(), u)
	if err != nil {
		logx.Error(h.Log, reqID, op, "issue token failed", err, "user_id", u.ID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID, "email", u.Email)
	v1.WriteJSON(w, r, http.StatusOK, loginResponse{Token: token})
}
