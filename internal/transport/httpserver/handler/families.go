package handler

import (
	"errors"
	"net/http"

	familydomain "packlist-go/internal/domain/family"
)

type createFamilyRequest struct {
	Name string `json:"name"`
}

type joinFamilyRequest struct {
	Code string `json:"code"`
}

type familyMemberResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type familyResponse struct {
	ID      string                 `json:"id"`
	Name    string                 `json:"name"`
	Code    string                 `json:"code"`
	Members []familyMemberResponse `json:"members"`
}

type familyEnvelope struct {
	Family *familyResponse `json:"family"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (h *Handlers) GetFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.Families.GetFamily(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("family.get: get family failed", err, "user_id", user.ID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, familyEnvelope{Family: toFamilyResponse(result)})
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.Families.CreateFamily(r.Context(), user.ID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrAlreadyInFamily):
			h.log.BusinessError("family.create: user already in family", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "already in a family")
		default:
			h.log.InternalError("family.create: create family failed", err, "user_id", user.ID)
			writeInternalError(w)
		}
		return
	}

	writeJSON(w, http.StatusCreated, familyEnvelope{Family: toFamilyResponse(result)})
}

func (h *Handlers) JoinFamily(w http.ResponseWriter, r *http.Request) {
	var req joinFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.Families.JoinFamily(r.Context(), user.ID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, familydomain.ErrCodeRequired):
			h.log.BusinessError("family.join: code missing", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "family code is required")
		case errors.Is(err, familydomain.ErrAlreadyInFamily):
			h.log.BusinessError("family.join: user already in family", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "already in a family")
		case errors.Is(err, familydomain.ErrFamilyCodeNotFound):
			h.log.BusinessError("family.join: family code not found", err, "user_id", user.ID, "code", req.Code)
			writeError(w, http.StatusNotFound, "invalid family code")
		default:
			h.log.InternalError("family.join: join family failed", err, "user_id", user.ID)
			writeInternalError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, familyEnvelope{Family: toFamilyResponse(result)})
}

func (h *Handlers) LeaveFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.Families.LeaveFamily(r.Context(), user.ID); err != nil {
		switch {
		case errors.Is(err, familydomain.ErrNotInFamily):
			h.log.BusinessError("family.leave: user not in family", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "not in a family")
		default:
			h.log.InternalError("family.leave: leave family failed", err, "user_id", user.ID)
			writeInternalError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func toFamilyResponse(result *familydomain.FamilyWithMembers) *familyResponse {
	if result == nil {
		return nil
	}

	members := make([]familyMemberResponse, 0, len(result.Members))
	for _, member := range result.Members {
		members = append(members, familyMemberResponse{
			ID:    member.ID,
			Name:  member.Name,
			Email: member.Email,
		})
	}

	return &familyResponse{
		ID:      result.ID,
		Name:    result.Name,
		Code:    result.Code,
		Members: members,
	}
}
