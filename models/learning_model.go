package models

import "time"

type LearningModule struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Language    string    `gorm:"size:50;not null" json:"language"`
	Difficulty  string    `gorm:"size:20;not null;default:'beginner'" json:"difficulty"`
	OrderIndex  int       `gorm:"not null;default:0;index" json:"order_index"`
	Lessons     []Lesson  `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Lesson struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ModuleID    uint            `gorm:"not null;index" json:"module_id"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	OrderIndex  int             `gorm:"not null;default:0" json:"order_index"`
	Module      *LearningModule `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
}

type LearningContent struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	LessonID     uint   `gorm:"not null;index" json:"lesson_id"`
	ContentType  string `gorm:"size:20;not null" json:"content_type"`
	Content      string `gorm:"type:text;not null" json:"content"`
	ContentOrder int    `gorm:"not null;default:0" json:"content_order"`
}

func (LearningContent) TableName() string {
	return "learning_content"
}
