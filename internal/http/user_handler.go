package api

import (
	"encoding/json"
	"net/http"

	"livepoll/internal/platform/apperr"
)

type registerUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary     Register a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request  body      registerUserRequest  true  "User payload"
// @Success     201      {object}  user.User
// @Failure     400      {object}  map[string]string  "invalid body"
// @Failure     409      {object}  map[string]string  "email taken"
// @Failure     503      {object}  map[string]string  "store unavailable"
// @Router      /api/v1/users [post]
func (h *Handler) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	u, err := h.userSvc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// @Summary     List users
// @Tags        users
// @Produce     json
// @Success     200  {array}   user.User
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /api/v1/users [get]
func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userSvc.List(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
