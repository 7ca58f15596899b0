package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultLearningFactor     = 0.3
	DefaultSleepPatternWeight = 0.5
	DefaultMaxShiftMinutes    = 60

	MinLearningFactor = 0.2
	MaxLearningFactor = 0.4
)

type SmartAlarm struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Label              string         `gorm:"column:label;not null" json:"label"`
	WakeMinute         int            `gorm:"column:wake_minute;not null" json:"wake_minute"`
	LearningFactor     float64        `gorm:"column:learning_factor;not null;default:0.3" json:"learning_factor"`
	SleepPatternWeight float64        `gorm:"column:sleep_pattern_weight;not null;default:0.5" json:"sleep_pattern_weight"`
	RealTimeAdaptation bool           `gorm:"column:real_time_adaptation;not null;default:false" json:"real_time_adaptation"`
	DynamicWakeWindow  bool           `gorm:"column:dynamic_wake_window;not null;default:false" json:"dynamic_wake_window"`
	MaxShiftMinutes    int            `gorm:"column:max_shift_minutes;not null;default:60" json:"max_shift_minutes"`
	IsEnabled          bool           `gorm:"column:is_enabled;not null;default:true" json:"is_enabled"`
	CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SmartAlarm) TableName() string { return "smart_alarm" }

// ClampTuning forces the learning parameters back into their documented
// ranges. Out-of-range values are never persisted.
func (a *SmartAlarm) ClampTuning() {
	if a.LearningFactor < MinLearningFactor {
		a.LearningFactor = MinLearningFactor
	}
	if a.LearningFactor > MaxLearningFactor {
		a.LearningFactor = MaxLearningFactor
	}
	if a.SleepPatternWeight < 0 {
		a.SleepPatternWeight = 0
	}
	if a.SleepPatternWeight > 1 {
		a.SleepPatternWeight = 1
	}
	if a.MaxShiftMinutes <= 0 {
		a.MaxShiftMinutes = DefaultMaxShiftMinutes
	}
}

// HasCustomTuning reports whether the user moved both learning parameters
// off their defaults. The configuration validator rewards tuned alarms.
func (a *SmartAlarm) HasCustomTuning() bool {
	return a.LearningFactor != DefaultLearningFactor && a.SleepPatternWeight != DefaultSleepPatternWeight
}
