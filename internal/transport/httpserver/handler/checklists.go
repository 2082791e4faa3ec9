package handler

import (
	"errors"
	"net/http"
	"time"

	checklistsdomain "packlist-go/internal/domain/checklists"
	templatesdomain "packlist-go/internal/domain/templates"

	"github.com/google/uuid"
)

type createChecklistRequest struct {
	TemplateID string  `json:"templateId"`
	Name       *string `json:"name"`
}

type addItemRequest struct {
	Name       string  `json:"name"`
	NameEn     *string `json:"nameEn"`
	Category   *string `json:"category"`
	CategoryEn *string `json:"categoryEn"`
}

type toggleItemRequest struct {
	Checked *bool `json:"checked"`
}

type checklistTemplateResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	NameEn *string `json:"nameEn"`
	Icon   *string `json:"icon"`
}

type checklistOwnerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type progressResponse struct {
	Total      int `json:"total"`
	Checked    int `json:"checked"`
	Percentage int `json:"percentage"`
}

type checklistResponse struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	TemplateID  string                    `json:"templateId"`
	UserID      string                    `json:"userId"`
	CreatedAt   time.Time                 `json:"createdAt"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
	CompletedAt *time.Time                `json:"completedAt"`
	Template    checklistTemplateResponse `json:"template"`
	CreatedBy   checklistOwnerResponse    `json:"createdBy"`
	Progress    progressResponse          `json:"progress"`
}

type checklistDetailResponse struct {
	checklistResponse
	Items []checklistItemResponse `json:"items"`
}

type checklistItemResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	NameEn     *string    `json:"nameEn"`
	Category   *string    `json:"category"`
	CategoryEn *string    `json:"categoryEn"`
	OrderIndex int        `json:"orderIndex"`
	Checked    bool       `json:"checked"`
	CheckedAt  *time.Time `json:"checkedAt"`
	IsCustom   bool       `json:"isCustom"`
}

func (h *Handlers) ListChecklists(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	status, err := checklistsdomain.ParseStatus(queryParam(r, "status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter := checklistsdomain.ListFilter{
		TemplateID: queryParam(r, "templateId"),
		Status:     status,
	}
	if filter.TemplateID != "" {
		if _, err := uuid.Parse(filter.TemplateID); err != nil {
			writeError(w, http.StatusBadRequest, checklistsdomain.ErrInvalidTemplateID.Error())
			return
		}
	}

	result, err := h.Checklists.ListChecklists(r.Context(), user.ID, filter)
	if err != nil {
		h.writeChecklistError(w, "checklists.list", err, "user_id", user.ID)
		return
	}

	response := make([]checklistResponse, 0, len(result))
	for i := range result {
		response = append(response, toChecklistResponse(&result[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetChecklist(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	checklistID := urlParam(r, "id")

	result, err := h.Checklists.GetChecklist(r.Context(), user.ID, checklistID)
	if err != nil {
		h.writeChecklistError(w, "checklists.get", err, "user_id", user.ID, "checklist_id", checklistID)
		return
	}

	writeJSON(w, http.StatusOK, toChecklistDetailResponse(result))
}

func (h *Handlers) CreateChecklist(w http.ResponseWriter, r *http.Request) {
	var req createChecklistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.Checklists.CreateChecklist(r.Context(), checklistsdomain.CreateChecklistInput{
		UserID:     user.ID,
		TemplateID: req.TemplateID,
		Name:       req.Name,
	})
	if err != nil {
		h.writeChecklistError(w, "checklists.create", err, "user_id", user.ID, "template_id", req.TemplateID)
		return
	}

	writeJSON(w, http.StatusCreated, toChecklistDetailResponse(result))
}

func (h *Handlers) DeleteChecklist(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	checklistID := urlParam(r, "id")

	if err := h.Checklists.DeleteChecklist(r.Context(), user.ID, checklistID); err != nil {
		h.writeChecklistError(w, "checklists.delete", err, "user_id", user.ID, "checklist_id", checklistID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AddChecklistItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	checklistID := urlParam(r, "id")

	item, err := h.Checklists.AddItem(r.Context(), user.ID, checklistID, checklistsdomain.AddItemInput{
		Name:       req.Name,
		NameEn:     req.NameEn,
		Category:   req.Category,
		CategoryEn: req.CategoryEn,
	})
	if err != nil {
		h.writeChecklistError(w, "checklists.add_item", err, "user_id", user.ID, "checklist_id", checklistID)
		return
	}

	writeJSON(w, http.StatusCreated, toChecklistItemResponse(*item))
}

func (h *Handlers) ToggleChecklistItem(w http.ResponseWriter, r *http.Request) {
	var req toggleItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Checked == nil {
		writeError(w, http.StatusBadRequest, "checked is required")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	checklistID := urlParam(r, "id")
	itemID := urlParam(r, "itemId")

	item, err := h.Checklists.ToggleItem(r.Context(), user.ID, checklistID, itemID, *req.Checked)
	if err != nil {
		h.writeChecklistError(w, "checklists.toggle_item", err, "user_id", user.ID, "checklist_id", checklistID, "item_id", itemID)
		return
	}

	writeJSON(w, http.StatusOK, toChecklistItemResponse(*item))
}

func (h *Handlers) DeleteChecklistItem(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	checklistID := urlParam(r, "id")
	itemID := urlParam(r, "itemId")

	if err := h.Checklists.DeleteItem(r.Context(), user.ID, checklistID, itemID); err != nil {
		h.writeChecklistError(w, "checklists.delete_item", err, "user_id", user.ID, "checklist_id", checklistID, "item_id", itemID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeChecklistError maps checklist and template errors. Scope misses are
// reported as not found.
func (h *Handlers) writeChecklistError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, checklistsdomain.ErrTemplateIDRequired),
		errors.Is(err, checklistsdomain.ErrItemNameRequired),
		errors.Is(err, checklistsdomain.ErrInvalidStatus),
		errors.Is(err, checklistsdomain.ErrInvalidTemplateID):
		h.log.BusinessError(op+": invalid input", err, args...)
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, checklistsdomain.ErrChecklistNotFound):
		h.log.BusinessError(op+": checklist not found", err, args...)
		writeError(w, http.StatusNotFound, "checklist not found")
	case errors.Is(err, checklistsdomain.ErrItemNotFound):
		h.log.BusinessError(op+": item not found", err, args...)
		writeError(w, http.StatusNotFound, "item not found")
	case errors.Is(err, templatesdomain.ErrTemplateNotFound):
		h.log.BusinessError(op+": template not found", err, args...)
		writeError(w, http.StatusNotFound, "template not found")
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeInternalError(w)
	}
}

func toChecklistResponse(summary *checklistsdomain.ChecklistSummary) checklistResponse {
	return checklistResponse{
		ID:          summary.ID,
		Name:        summary.Name,
		TemplateID:  summary.TemplateID,
		UserID:      summary.UserID,
		CreatedAt:   summary.CreatedAt,
		UpdatedAt:   summary.UpdatedAt,
		CompletedAt: summary.CompletedAt,
		Template: checklistTemplateResponse{
			ID:     summary.Template.ID,
			Name:   summary.Template.Name,
			NameEn: summary.Template.NameEn,
			Icon:   summary.Template.Icon,
		},
		CreatedBy: checklistOwnerResponse{
			ID:   summary.CreatedBy.ID,
			Name: summary.CreatedBy.Name,
		},
		Progress: progressResponse{
			Total:      summary.Progress.Total,
			Checked:    summary.Progress.Checked,
			Percentage: summary.Progress.Percentage,
		},
	}
}

func toChecklistDetailResponse(detail *checklistsdomain.ChecklistDetail) checklistDetailResponse {
	items := make([]checklistItemResponse, 0, len(detail.Items))
	for _, item := range detail.Items {
		items = append(items, toChecklistItemResponse(item))
	}

	return checklistDetailResponse{
		checklistResponse: toChecklistResponse(&detail.ChecklistSummary),
		Items:             items,
	}
}

func toChecklistItemResponse(item checklistsdomain.Item) checklistItemResponse {
	return checklistItemResponse{
		ID:         item.ID,
		Name:       item.Name,
		NameEn:     item.NameEn,
		Category:   item.Category,
		CategoryEn: item.CategoryEn,
		OrderIndex: item.OrderIndex,
		Checked:    item.Checked,
		CheckedAt:  item.CheckedAt,
		IsCustom:   item.IsCustom,
	}
}
