package user

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/kln-se/uml-diagrams/internal/domain"
	"github.com/kln-se/uml-diagrams/internal/transport/web/logx"
	"github.com/kln-se/uml-diagrams/internal/transport/web/mw"
	v1 "github.com/kln-se/uml-diagrams/internal/transport/web/v1"
	"github.com/kln-se/uml-diagrams/internal/users"
)

type Handler struct {
	Log   *log.Logger
	Users *users.Service
}

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Signup godoc
// @Summary     Register new user
// @Description Открытая регистрация: роль user, аккаунт активен сразу.
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body signupRequest true "email, password, first_name, last_name"
// @Success     201 {object} domain.User
// @Failure     400 {object} v1.DetailResponse
// @Failure     500 {object} v1.DetailResponse
// @Router      /users/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	const op = "users.signup"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	u, err := h.Users.Signup(r.Context(), users.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "signup failed", err, "email", req.Email)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID, "email", u.Email)
	v1.WriteJSON(w, r, http.StatusCreated, u)
}

// Me godoc
// @Summary     Current user profile
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.User
// @Failure     401 {object} v1.DetailResponse
// @Failure     404 {object} v1.DetailResponse
// @Router      /users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	const op = "users.me"
	reqID := mw.RequestIDFromCtx(r.Context())

	actor, ok := mw.ActorFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	u, err := h.Users.Me(r.Context(), actor)
	if err != nil {
		logx.Error(h.Log, reqID, op, "profile fetch failed", err, "user_id", actor.ID)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteJSON(w, r, http.StatusOK, u)
}

type updateMeRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
}

// UpdateMe godoc
// @Summary     Update current user profile
// @Description Частичное обновление: имя, фамилия, пароль. Email и роль неизменны.
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body updateMeRequest true "first_name, last_name, password"
// @Success     200 {object} domain.User
// @Failure     400 {object} v1.DetailResponse
// @Failure     401 {object} v1.DetailResponse
// @Router      /users/me [patch]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	const op = "users.update_me"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	actor, ok := mw.ActorFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	u, err := h.Users.UpdateMe(r.Context(), actor, users.UpdateMeInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err, "user_id", actor.ID)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID)
	v1.WriteJSON(w, r, http.StatusOK, u)
}
