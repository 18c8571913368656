package services

import (
	"context"
	"errors"

	"github.com/anjiri1684/coded/apperr"
	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/models"
	"gorm.io/gorm"
)

type LessonWithContent struct {
	models.Lesson
	Content []models.LearningContent `json:"content"`
}

// LearningService serves the read-only module and lesson catalog.
type LearningService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningService(db *gorm.DB, baseLog *logger.Logger) *LearningService {
	return &LearningService{db: db, log: baseLog.With("service", "LearningService")}
}

func (s *LearningService) ListModules(ctx context.Context) ([]models.LearningModule, error) {
	modules := []models.LearningModule{}
	if err := s.db.WithContext(ctx).Order("order_index asc, id asc").Find(&modules).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	return modules, nil
}

func (s *LearningService) GetModuleWithLessons(ctx context.Context, moduleID uint) (*models.LearningModule, error) {
	var module models.LearningModule
	err := s.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc, id asc") }).
		First(&module, moduleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("module")
	}
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return &module, nil
}

func (s *LearningService) GetLessonWithContent(ctx context.Context, lessonID uint) (*LessonWithContent, error) {
	db := s.db.WithContext(ctx)

	var lesson models.Lesson
	err := db.Preload("Module").First(&lesson, lessonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("lesson")
	}
	if err != nil {
		return nil, apperr.Unexpected(err)
	}

	out := &LessonWithContent{Lesson: lesson, Content: []models.LearningContent{}}
	if err := db.Where("lesson_id = ?", lessonID).Order("content_order asc").Find(&out.Content).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	return out, nil
}
