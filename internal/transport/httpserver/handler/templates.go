package handler

import (
	"errors"
	"net/http"
	"time"

	templatesdomain "packlist-go/internal/domain/templates"
)

type createTemplateItemRequest struct {
	Name       string  `json:"name"`
	NameEn     *string `json:"nameEn"`
	Category   *string `json:"category"`
	CategoryEn *string `json:"categoryEn"`
}

type createTemplateRequest struct {
	Name          string                      `json:"name"`
	NameEn        *string                     `json:"nameEn"`
	Description   *string                     `json:"description"`
	DescriptionEn *string                     `json:"descriptionEn"`
	Icon          *string                     `json:"icon"`
	Items         []createTemplateItemRequest `json:"items"`
}

type templateItemResponse struct {
	ID         string  `json:"id"`
	TemplateID string  `json:"templateId"`
	Name       string  `json:"name"`
	NameEn     *string `json:"nameEn"`
	Category   *string `json:"category"`
	CategoryEn *string `json:"categoryEn"`
	OrderIndex int     `json:"orderIndex"`
}

type templateCountResponse struct {
	Items int `json:"items"`
}

type templateResponse struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	NameEn        *string                `json:"nameEn"`
	Description   *string                `json:"description"`
	DescriptionEn *string                `json:"descriptionEn"`
	Icon          *string                `json:"icon"`
	IsDefault     bool                   `json:"isDefault"`
	UserID        *string                `json:"userId"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
	Items         []templateItemResponse `json:"items"`
	Count         templateCountResponse  `json:"_count"`
}

func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.Templates.ListTemplates(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("templates.list: list templates failed", err, "user_id", user.ID)
		writeInternalError(w)
		return
	}

	response := make([]templateResponse, 0, len(result))
	for i := range result {
		response = append(response, toTemplateResponse(&result[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	templateID := urlParam(r, "id")

	result, err := h.Templates.GetTemplate(r.Context(), user.ID, templateID)
	if err != nil {
		if errors.Is(err, templatesdomain.ErrTemplateNotFound) {
			h.log.BusinessError("templates.get: template not found", err, "user_id", user.ID, "template_id", templateID)
			writeError(w, http.StatusNotFound, "template not found")
			return
		}
		h.log.InternalError("templates.get: get template failed", err, "user_id", user.ID, "template_id", templateID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, toTemplateResponse(result))
}

func (h *Handlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	input := templatesdomain.CreateTemplateInput{
		UserID:        user.ID,
		Name:          req.Name,
		NameEn:        req.NameEn,
		Description:   req.Description,
		DescriptionEn: req.DescriptionEn,
		Icon:          req.Icon,
		Items:         make([]templatesdomain.CreateItemInput, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, templatesdomain.CreateItemInput{
			Name:       item.Name,
			NameEn:     item.NameEn,
			Category:   item.Category,
			CategoryEn: item.CategoryEn,
		})
	}

	result, err := h.Templates.CreateTemplate(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, templatesdomain.ErrNameRequired),
			errors.Is(err, templatesdomain.ErrItemNameRequired):
			h.log.BusinessError("templates.create: invalid input", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.InternalError("templates.create: create template failed", err, "user_id", user.ID)
			writeInternalError(w)
		}
		return
	}

	writeJSON(w, http.StatusCreated, toTemplateResponse(result))
}

func toTemplateResponse(tpl *templatesdomain.Template) templateResponse {
	items := make([]templateItemResponse, 0, len(tpl.Items))
	for _, item := range tpl.Items {
		items = append(items, templateItemResponse{
			ID:         item.ID,
			TemplateID: item.TemplateID,
			Name:       item.Name,
			NameEn:     item.NameEn,
			Category:   item.Category,
			CategoryEn: item.CategoryEn,
			OrderIndex: item.OrderIndex,
		})
	}

	return templateResponse{
		ID:            tpl.ID,
		Name:          tpl.Name,
		NameEn:        tpl.NameEn,
		Description:   tpl.Description,
		DescriptionEn: tpl.DescriptionEn,
		Icon:          tpl.Icon,
		IsDefault:     tpl.IsDefault,
		UserID:        tpl.UserID,
		CreatedAt:     tpl.CreatedAt,
		UpdatedAt:     tpl.UpdatedAt,
		Items:         items,
		Count:         templateCountResponse{Items: len(items)},
	}
}
