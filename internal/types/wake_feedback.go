package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	FeelingTerrible  = "terrible"
	FeelingTired     = "tired"
	FeelingOkay      = "okay"
	FeelingGood      = "good"
	FeelingExcellent = "excellent"
)

// WakeFeedback is an append-only record of how the user felt after a wake
// event. Rows are never edited.
type WakeFeedback struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	AlarmID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"alarm_id"`
	Alarm     *SmartAlarm `gorm:"constraint:OnDelete:CASCADE;foreignKey:AlarmID;references:ID" json:"alarm,omitempty"`
	Feeling   string      `gorm:"column:feeling;not null" json:"feeling"`
	WokeAt    time.Time   `gorm:"column:woke_at;not null;index" json:"woke_at"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
}

func (WakeFeedback) TableName() string { return "wake_feedback" }

func ValidFeeling(f string) bool {
	switch f {
	case FeelingTerrible, FeelingTired, FeelingOkay, FeelingGood, FeelingExcellent:
		return true
	}
	return false
}
