package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/anjiri1684/coded/apperr"
	"github.com/anjiri1684/coded/identity"
	"github.com/anjiri1684/coded/logger"
	"github.com/anjiri1684/coded/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ModuleCompletedHook runs after the unit of work that first moved a module
// to 100% has committed.
type ModuleCompletedHook func(ctx context.Context, userID, moduleID uint)

type LessonCompletion struct {
	Progress        *models.UserLessonProgress `json:"progress"`
	Module          *models.UserProgress       `json:"module_progress"`
	FirstCompletion bool                       `json:"first_completion"`
	ModuleCompleted bool                       `json:"module_completed"`
	Unlocked        []models.Achievement       `json:"unlocked_achievements"`
}

type ModuleProgressSummary struct {
	TotalLessons       int64                       `json:"total_lessons"`
	CompletedLessons   int64                       `json:"completed_lessons"`
	ProgressPercentage int                         `json:"progress_percentage"`
	LessonProgress     []models.UserLessonProgress `json:"lesson_progress"`
}

type ProgressService struct {
	db      *gorm.DB
	log     *logger.Logger
	rewards *RewardService
	hooks   []ModuleCompletedHook
}

func NewProgressService(db *gorm.DB, baseLog *logger.Logger, rewards *RewardService) *ProgressService {
	return &ProgressService{db: db, log: baseLog.With("service", "ProgressService"), rewards: rewards}
}

func (s *ProgressService) OnModuleCompleted(hook ModuleCompletedHook) {
	s.hooks = append(s.hooks, hook)
}

// ProgressPercentage is round(100 * completed / total), 0 for an empty module.
func ProgressPercentage(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// MarkLessonCompleted completes the lesson for the acting user, recomputes the
// owning module and evaluates learning achievements in one transaction.
// Lesson XP is granted on the first completion only, so a replay converges.
func (s *ProgressService) MarkLessonCompleted(ctx context.Context, lessonID uint) (*LessonCompletion, error) {
	userID, ok := identity.UserID(ctx)
	if !ok {
		return nil, apperr.Unauthenticated()
	}

	out := &LessonCompletion{}
	var moduleID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		if err := tx.Select("id", "module_id").First(&lesson, lessonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("lesson")
			}
			return apperr.Unexpected(err)
		}
		moduleID = lesson.ModuleID

		now := time.Now().UTC()
		first, err := s.completeLesson(tx, userID, lessonID, now)
		if err != nil {
			return err
		}
		out.FirstCompletion = first
		if first {
			if err := s.rewards.GrantXP(ctx, tx, userID, xpForLessonCompletion); err != nil {
				return err
			}
		}

		out.Module, out.ModuleCompleted, err = s.recomputeModule(ctx, tx, userID, lesson.ModuleID, now)
		if err != nil {
			return err
		}

		out.Unlocked, err = s.rewards.EvaluateAchievements(ctx, tx, userID, AchievementEvent{Trigger: TriggerLearning})
		if err != nil {
			return err
		}

		var progress models.UserLessonProgress
		if err := tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error; err != nil {
			return apperr.Unexpected(err)
		}
		out.Progress = &progress
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.rewards.Publish(userID, out.Unlocked)
	if out.ModuleCompleted {
		s.log.Info("module completed", "user_id", userID, "module_id", moduleID)
		for _, hook := range s.hooks {
			go hook(context.WithoutCancel(ctx), userID, moduleID)
		}
	}
	return out, nil
}

// completeLesson flips the progress row to completed and reports whether this
// call was the one that did it. Insert-if-absent plus conditional updates keep
// it correct when a position update races with the completion.
func (s *ProgressService) completeLesson(tx *gorm.DB, userID, lessonID uint, now time.Time) (bool, error) {
	mark := func() (bool, error) {
		res := tx.Model(&models.UserLessonProgress{}).
			Where("user_id = ? AND lesson_id = ? AND is_completed = ?", userID, lessonID, false).
			Updates(map[string]interface{}{"is_completed": true, "completed_at": now})
		return res.RowsAffected == 1, res.Error
	}

	if done, err := mark(); err != nil || done {
		return done, wrapUnexpected(err)
	}

	row := models.UserLessonProgress{UserID: userID, LessonID: lessonID, IsCompleted: true, CompletedAt: &now}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return false, apperr.Unexpected(res.Error)
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	done, err := mark()
	return done, wrapUnexpected(err)
}

// UpdateLessonPosition upserts the last read position. It never touches the
// completion flag and has no reward side effects.
func (s *ProgressService) UpdateLessonPosition(ctx context.Context, lessonID uint, position int) (*models.UserLessonProgress, error) {
	userID, ok := identity.UserID(ctx)
	if !ok {
		return nil, apperr.Unauthenticated()
	}
	if position < 0 {
		return nil, apperr.Field("position", "position must be non-negative")
	}

	db := s.db.WithContext(ctx)
	var lessonCount int64
	if err := db.Model(&models.Lesson{}).Where("id = ?", lessonID).Count(&lessonCount).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	if lessonCount == 0 {
		return nil, apperr.NotFound("lesson")
	}

	row := models.UserLessonProgress{UserID: userID, LessonID: lessonID, LastPosition: position}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_position", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}

	var out models.UserLessonProgress
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&out).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	return &out, nil
}

// ComputeModuleProgress recomputes and stores the module roll-up for a user.
// Recomputing with unchanged inputs stores the same percentage.
func (s *ProgressService) ComputeModuleProgress(ctx context.Context, userID, moduleID uint) (*models.UserProgress, error) {
	var out *models.UserProgress
	var first bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.LearningModule{}).Where("id = ?", moduleID).Count(&count).Error; err != nil {
			return apperr.Unexpected(err)
		}
		if count == 0 {
			return apperr.NotFound("module")
		}
		var err error
		out, first, err = s.recomputeModule(ctx, tx, userID, moduleID, time.Now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}
	if first {
		for _, hook := range s.hooks {
			go hook(context.WithoutCancel(ctx), userID, moduleID)
		}
	}
	return out, nil
}

// recomputeModule writes the module roll-up and grants module XP when the
// module reaches 100% for the first time ever. It reports that transition.
func (s *ProgressService) recomputeModule(ctx context.Context, tx *gorm.DB, userID, moduleID uint, now time.Time) (*models.UserProgress, bool, error) {
	var total, completed int64
	if err := tx.Model(&models.Lesson{}).Where("module_id = ?", moduleID).Count(&total).Error; err != nil {
		return nil, false, apperr.Unexpected(err)
	}
	if err := tx.Model(&models.UserLessonProgress{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Where("lesson_id IN (?)", tx.Model(&models.Lesson{}).Select("id").Where("module_id = ?", moduleID)).
		Count(&completed).Error; err != nil {
		return nil, false, apperr.Unexpected(err)
	}
	pct := ProgressPercentage(completed, total)

	row := models.UserProgress{UserID: userID, ModuleID: moduleID, ProgressPercentage: pct, LastAccessed: now}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"progress_percentage", "last_accessed", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return nil, false, apperr.Unexpected(err)
	}

	scope := tx.Model(&models.UserProgress{}).Where("user_id = ? AND module_id = ?", userID, moduleID)
	first := false
	if pct == 100 {
		res := scope.Session(&gorm.Session{}).Where("completed_at IS NULL").
			Updates(map[string]interface{}{"completed": true, "completed_at": now})
		if res.Error != nil {
			return nil, false, apperr.Unexpected(res.Error)
		}
		first = res.RowsAffected == 1
		if !first {
			if err := scope.Session(&gorm.Session{}).Where("completed = ?", false).Update("completed", true).Error; err != nil {
				return nil, false, apperr.Unexpected(err)
			}
		}
	} else if err := scope.Session(&gorm.Session{}).Where("completed = ?", true).Update("completed", false).Error; err != nil {
		return nil, false, apperr.Unexpected(err)
	}

	if first {
		if err := s.rewards.GrantXP(ctx, tx, userID, xpForModuleCompletion); err != nil {
			return nil, false, err
		}
	}

	var out models.UserProgress
	if err := tx.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&out).Error; err != nil {
		return nil, false, apperr.Unexpected(err)
	}
	return &out, first, nil
}

// GetModuleProgress summarises the acting user's lessons in a module. Unknown
// modules and anonymous callers get an empty summary.
func (s *ProgressService) GetModuleProgress(ctx context.Context, moduleID uint) (*ModuleProgressSummary, error) {
	out := &ModuleProgressSummary{LessonProgress: []models.UserLessonProgress{}}
	userID, ok := identity.UserID(ctx)
	if !ok {
		return out, nil
	}

	db := s.db.WithContext(ctx)
	var lessonIDs []uint
	if err := db.Model(&models.Lesson{}).Where("module_id = ?", moduleID).Pluck("id", &lessonIDs).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	if len(lessonIDs) == 0 {
		return out, nil
	}
	if err := db.Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&out.LessonProgress).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}

	out.TotalLessons = int64(len(lessonIDs))
	for _, p := range out.LessonProgress {
		if p.IsCompleted {
			out.CompletedLessons++
		}
	}
	out.ProgressPercentage = ProgressPercentage(out.CompletedLessons, out.TotalLessons)
	return out, nil
}

func (s *ProgressService) GetAllProgress(ctx context.Context) ([]models.UserProgress, error) {
	rows := []models.UserProgress{}
	userID, ok := identity.UserID(ctx)
	if !ok {
		return rows, nil
	}
	if err := s.db.WithContext(ctx).Preload("Module").
		Where("user_id = ?", userID).
		Order("module_id asc").
		Find(&rows).Error; err != nil {
		return nil, apperr.Unexpected(err)
	}
	return rows, nil
}

// GetLessonProgress returns nil when the user has not touched the lesson.
func (s *ProgressService) GetLessonProgress(ctx context.Context, lessonID uint) (*models.UserLessonProgress, error) {
	userID, ok := identity.UserID(ctx)
	if !ok {
		return nil, nil
	}
	var row models.UserLessonProgress
	err := s.db.WithContext(ctx).Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Unexpected(err)
	}
	return &row, nil
}

func wrapUnexpected(err error) error {
	if err == nil {
		return nil
	}
	return apperr.Unexpected(err)
}
