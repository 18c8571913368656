package models

import "time"

type UserLessonProgress struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_user_lesson" json:"user_id"`
	LessonID     uint       `gorm:"not null;uniqueIndex:idx_user_lesson;index" json:"lesson_id"`
	IsCompleted  bool       `gorm:"not null;default:false" json:"is_completed"`
	LastPosition int        `gorm:"not null;default:0" json:"last_position"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (UserLessonProgress) TableName() string {
	return "user_lesson_progress"
}

// UserProgress is the module-level roll-up. Completed holds iff
// ProgressPercentage is 100; CompletedAt records the first time it did.
type UserProgress struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	UserID             uint            `gorm:"not null;uniqueIndex:idx_user_module" json:"user_id"`
	ModuleID           uint            `gorm:"not null;uniqueIndex:idx_user_module" json:"module_id"`
	ProgressPercentage int             `gorm:"not null;default:0" json:"progress_percentage"`
	Completed          bool            `gorm:"not null;default:false" json:"completed"`
	CompletedAt        *time.Time      `json:"completed_at"`
	LastAccessed       time.Time       `json:"last_accessed"`
	Module             *LearningModule `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
