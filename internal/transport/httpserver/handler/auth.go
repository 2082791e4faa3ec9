package handler

import (
	"errors"
	"net/http"
	"time"

	"packlist-go/internal/auth"
	userdomain "packlist-go/internal/domain/user"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	FamilyID  *string   `json:"familyId"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	user, err := h.Users.Register(r.Context(), userdomain.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, userdomain.ErrInvalidEmail),
			errors.Is(err, userdomain.ErrPasswordTooShort),
			errors.Is(err, userdomain.ErrNameRequired):
			h.log.BusinessError("auth.register: invalid input", err)
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, userdomain.ErrEmailTaken):
			h.log.BusinessError("auth.register: email taken", err)
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.log.InternalError("auth.register: register failed", err)
			writeInternalError(w)
		}
		return
	}

	h.writeAuthResponse(w, http.StatusCreated, user, "auth.register")
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userdomain.ErrInvalidCredentials) {
			h.log.BusinessError("auth.login: invalid credentials", err)
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.log.InternalError("auth.login: login failed", err)
		writeInternalError(w)
		return
	}

	h.writeAuthResponse(w, http.StatusOK, user, "auth.login")
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	current, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.Users.GetUser(r.Context(), current.ID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			h.log.BusinessError("auth.me: user not found", err, "user_id", current.ID)
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.InternalError("auth.me: get user failed", err, "user_id", current.ID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handlers) writeAuthResponse(w http.ResponseWriter, status int, user *userdomain.User, op string) {
	token, err := h.Tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email, Name: user.Name})
	if err != nil {
		h.log.InternalError(op+": issue token failed", err, "user_id", user.ID)
		writeInternalError(w)
		return
	}

	writeJSON(w, status, authResponse{Token: token, User: toUserResponse(user)})
}

func toUserResponse(user *userdomain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		FamilyID:  user.FamilyID,
		CreatedAt: user.CreatedAt,
	}
}
