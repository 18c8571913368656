package services

import (
	"time"

	"github.com/anjiri1684/coded/models"
)

const EventAchievementUnlocked = "achievement_unlocked"

type Event struct {
	Type        string              `json:"type"`
	Achievement *models.Achievement `json:"achievement,omitempty"`
	At          time.Time           `json:"at"`
}

// Notifier delivers events to a user's live connections. Implementations must
// not block the caller.
type Notifier interface {
	Notify(userID uint, event Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(uint, Event) {}

func notifyAchievements(n Notifier, userID uint, unlocked []models.Achievement) {
	now := time.Now().UTC()
	for i := range unlocked {
		n.Notify(userID, Event{Type: EventAchievementUnlocked, Achievement: &unlocked[i], At: now})
	}
}
