package templates

import "time"

type Template struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	Name          string `gorm:"not null"`
	NameEn        *string
	Description   *string
	DescriptionEn *string
	Icon          *string
	IsDefault     bool      `gorm:"not null;default:false"`
	UserID        *string   `gorm:"type:uuid;index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
	Items         []Item    `gorm:"foreignKey:TemplateID"`
}

func (Template) TableName() string {
	return "checklist_templates"
}

type Item struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	TemplateID string `gorm:"type:uuid;not null;index"`
	Name       string `gorm:"not null"`
	NameEn     *string
	Category   *string
	CategoryEn *string
	OrderIndex int `gorm:"not null;default:0"`
}

func (Item) TableName() string {
	return "template_items"
}

// VisibleTo reports whether userID may read the template.
func (t Template) VisibleTo(userID string) bool {
	return t.IsDefault || (t.UserID != nil && *t.UserID == userID)
}

type CreateTemplateInput struct {
	UserID        string
	Name          string
	NameEn        *string
	Description   *string
	DescriptionEn *string
	Icon          *string
	Items         []CreateItemInput
}

type CreateItemInput struct {
	Name       string
	NameEn     *string
	Category   *string
	CategoryEn *string
}
