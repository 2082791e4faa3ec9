package handler

import (
	"context"
	"time"

	"packlist-go/internal/auth"
	checklistsdomain "packlist-go/internal/domain/checklists"
	familydomain "packlist-go/internal/domain/family"
	templatesdomain "packlist-go/internal/domain/templates"
	userdomain "packlist-go/internal/domain/user"
	"packlist-go/pkg/logger"
)

type UserService interface {
	Register(ctx context.Context, input userdomain.RegisterInput) (*userdomain.User, error)
	Login(ctx context.Context, email, password string) (*userdomain.User, error)
	GetUser(ctx context.Context, userID string) (*userdomain.User, error)
}

type TokenIssuer interface {
	Issue(identity auth.Identity) (string, error)
}

type FamilyService interface {
	GetFamily(ctx context.Context, userID string) (*familydomain.FamilyWithMembers, error)
	CreateFamily(ctx context.Context, userID, name string) (*familydomain.FamilyWithMembers, error)
	JoinFamily(ctx context.Context, userID, code string) (*familydomain.FamilyWithMembers, error)
	LeaveFamily(ctx context.Context, userID string) error
}

type TemplateService interface {
	ListTemplates(ctx context.Context, userID string) ([]templatesdomain.Template, error)
	GetTemplate(ctx context.Context, userID, templateID string) (*templatesdomain.Template, error)
	CreateTemplate(ctx context.Context, input templatesdomain.CreateTemplateInput) (*templatesdomain.Template, error)
}

type ChecklistService interface {
	ListChecklists(ctx context.Context, userID string, filter checklistsdomain.ListFilter) ([]checklistsdomain.ChecklistSummary, error)
	GetChecklist(ctx context.Context, userID, checklistID string) (*checklistsdomain.ChecklistDetail, error)
	CreateChecklist(ctx context.Context, input checklistsdomain.CreateChecklistInput) (*checklistsdomain.ChecklistDetail, error)
	DeleteChecklist(ctx context.Context, userID, checklistID string) error
	ToggleItem(ctx context.Context, userID, checklistID, itemID string, checked bool) (*checklistsdomain.Item, error)
	AddItem(ctx context.Context, userID, checklistID string, input checklistsdomain.AddItemInput) (*checklistsdomain.Item, error)
	DeleteItem(ctx context.Context, userID, checklistID, itemID string) error
}

type Handlers struct {
	Users      UserService
	Tokens     TokenIssuer
	Families   FamilyService
	Templates  TemplateService
	Checklists ChecklistService
	log        logger.Logger
	now        func() time.Time
}

func New(users UserService, tokens TokenIssuer, families FamilyService, templates TemplateService, checklists ChecklistService, log logger.Logger) *Handlers {
	return &Handlers{
		Users:      users,
		Tokens:     tokens,
		Families:   families,
		Templates:  templates,
		Checklists: checklists,
		log:        log,
		now:        time.Now,
	}
}
