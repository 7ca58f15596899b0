package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConditionBinding attaches a condition definition to one alarm. The
// binding owns the mutable per-alarm state: the learned effectiveness score
// and the adjustment magnitudes, which start as copies of the definition's
// values and are damped independently by the optimizer.
type ConditionBinding struct {
	ID                 uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	AlarmID            uuid.UUID            `gorm:"type:uuid;not null;index:idx_alarm_definition,unique" json:"alarm_id"`
	Alarm              *SmartAlarm          `gorm:"constraint:OnDelete:CASCADE;foreignKey:AlarmID;references:ID" json:"alarm,omitempty"`
	DefinitionID       uuid.UUID            `gorm:"type:uuid;not null;index:idx_alarm_definition,unique" json:"definition_id"`
	Definition         *ConditionDefinition `gorm:"foreignKey:DefinitionID;references:ID" json:"definition,omitempty"`
	IsEnabled          bool                 `gorm:"column:is_enabled;not null;default:true" json:"is_enabled"`
	EffectivenessScore float64              `gorm:"column:effectiveness_score;not null;default:0.5" json:"effectiveness_score"`
	TimeMinutes        int                  `gorm:"column:time_minutes;not null" json:"time_minutes"`
	MaxAdjustment      int                  `gorm:"column:max_adjustment;not null" json:"max_adjustment"`
	CreatedAt          time.Time            `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time            `gorm:"not null" json:"updated_at"`
	DeletedAt          gorm.DeletedAt       `gorm:"index" json:"deleted_at,omitempty"`
}

func (ConditionBinding) TableName() string { return "condition_binding" }
