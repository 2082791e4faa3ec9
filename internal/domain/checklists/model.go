package checklists

import (
	"strings"
	"time"
)

type Checklist struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	TemplateID  string    `gorm:"type:uuid;not null;index"`
	UserID      string    `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
	CompletedAt *time.Time
}

func (Checklist) TableName() string {
	return "checklists"
}

// ItemState is created lazily; a missing row means unchecked and not deleted.
type ItemState struct {
	ChecklistID string `gorm:"type:uuid;primaryKey"`
	ItemID      string `gorm:"type:uuid;primaryKey"`
	Checked     bool   `gorm:"not null;default:false"`
	CheckedAt   *time.Time
	Deleted     bool `gorm:"not null;default:false"`
}

func (ItemState) TableName() string {
	return "checklist_item_states"
}

type CustomItem struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	ChecklistID string `gorm:"type:uuid;not null;index"`
	Name        string `gorm:"not null"`
	NameEn      *string
	Category    *string
	CategoryEn  *string
	OrderIndex  int  `gorm:"not null;default:0"`
	Checked     bool `gorm:"not null;default:false"`
	CheckedAt   *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (CustomItem) TableName() string {
	return "custom_checklist_items"
}

type TemplateSummary struct {
	ID     string  `gorm:"column:id"`
	Name   string  `gorm:"column:name"`
	NameEn *string `gorm:"column:name_en"`
	Icon   *string `gorm:"column:icon"`
}

type Owner struct {
	ID   string `gorm:"column:id"`
	Name string `gorm:"column:name"`
}

// Item is one effective entry of a rendered checklist.
type Item struct {
	ID         string
	Name       string
	NameEn     *string
	Category   *string
	CategoryEn *string
	OrderIndex int
	Checked    bool
	CheckedAt  *time.Time
	IsCustom   bool
}

type Progress struct {
	Total      int
	Checked    int
	Percentage int
}

type ChecklistSummary struct {
	Checklist
	Template  TemplateSummary
	CreatedBy Owner
	Progress  Progress
}

type ChecklistDetail struct {
	ChecklistSummary
	Items []Item
}

type Status string

const (
	StatusAny       Status = ""
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusAny:
		return StatusAny, nil
	case StatusActive:
		return StatusActive, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return StatusAny, ErrInvalidStatus
	}
}

type ListFilter struct {
	TemplateID string
	Status     Status
}

// ListQuery is ListFilter bound to the owners a caller may see.
type ListQuery struct {
	OwnerIDs []string
	ListFilter
}

type CreateChecklistInput struct {
	UserID     string
	TemplateID string
	Name       *string
}

type AddItemInput struct {
	Name       string
	NameEn     *string
	Category   *string
	CategoryEn *string
}
