package checklists

import "errors"

var (
	ErrChecklistNotFound  = errors.New("checklist not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrTemplateIDRequired = errors.New("template id is required")
	ErrItemNameRequired   = errors.New("item name is required")
	ErrInvalidStatus      = errors.New("status must be active or completed")
	ErrInvalidTemplateID  = errors.New("template id must be a uuid")
)
