package services

import (
	"context"
	"errors"

	"github.com/anjiri1684/coded/apperr"
	"github.com/anjiri1684/coded/identity"
	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/models"
	"gorm.io/gorm"
)

type CreateProjectInput struct {
	Name        string
	Language    string
	Description string
	CodeContent string
}

// UpdateProjectInput carries a partial update; nil fields are left alone.
type UpdateProjectInput struct {
	Name        *string
	Language    *string
	Description *string
	CodeContent *string
	Status      *string
}

// ProjectService backs the editor's save/load store. Every query is scoped
// to the owner; someone else's project looks exactly like a missing one.
type ProjectService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectService(db *gorm.DB, baseLog *logger.Logger) *ProjectService {
	return &ProjectService{db: db, log: baseLog.With("service", "ProjectService")}
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	out := []models.Project{}
	userID, ok := identity.UserID(ctx)
	if !ok {
		return out, nil
	}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("updated_at desc, id desc").Find(&out).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	return out, nil
}

// GetProject returns nil for anonymous callers and NotFound for projects the
// caller does not own.
func (s *ProjectService) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	userID, ok := identity.UserID(ctx)
	if !ok {
		return nil, nil
	}
	return s.find(ctx, s.db, userID, id)
}

func (s *ProjectService) find(ctx context.Context, db *gorm.DB, userID, id uint) (*models.Project, error) {
	var p models.Project
	err := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("project")
	}
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return &p, nil
}

func (s *ProjectService) CreateProject(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	userID, ok := identity.UserID(ctx)
	if !ok {
		return nil, apperr.Unauthenticated()
	}
	p := models.Project{
		UserID:      userID,
		Name:        in.Name,
		Language:    in.Language,
		Description: in.Description,
		CodeContent: in.CodeContent,
		Status:      models.ProjectStatusDraft,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	s.log.Debug("project created", "user_id", userID, "project_id", p.ID)
	return &p, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id uint, in UpdateProjectInput) (*models.Project, error) {
	userID, ok := identity.UserID(ctx)
	if !ok {
		return nil, apperr.Unauthenticated()
	}

	var out *models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.find(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			p.Name = *in.Name
		}
		if in.Language != nil {
			p.Language = *in.Language
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.CodeContent != nil {
			p.CodeContent = *in.CodeContent
		}
		if in.Status != nil {
			p.Status = *in.Status
		}
		if err := tx.Save(p).Error; err != nil {
			return apperr.Unexpected(err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id uint) error {
	userID, ok := identity.UserID(ctx)
	if !ok {
		return apperr.Unauthenticated()
	}
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Project{})
	if res.Error != nil {
		return apperr.Unexpected(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("project")
	}
	return nil
}
