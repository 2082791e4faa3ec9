package templates

import "errors"

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrNameRequired     = errors.New("template name is required")
	ErrItemNameRequired = errors.New("template item name is required")
)
