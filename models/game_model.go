package models

import "time"

type Game struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IconName    string `gorm:"size:50" json:"icon_name"`
}

// GameScore is append-only: one row per attempt.
type GameScore struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	GameID   uint      `gorm:"not null;index" json:"game_id"`
	Score    int       `gorm:"not null" json:"score"`
	PlayedAt time.Time `gorm:"not null;index" json:"played_at"`

	Game *Game `gorm:"foreignKey:GameID" json:"game,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"-"`
}
