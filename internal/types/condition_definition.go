package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ConditionTypeWeather   = "weather"
	ConditionTypeCalendar  = "calendar"
	ConditionTypeSleepDebt = "sleep_debt"
	ConditionTypeExercise  = "exercise"
	ConditionTypeCustom    = "custom"
)

const (
	OperatorContains    = "contains"
	OperatorGreaterThan = "greater_than"
	OperatorLessThan    = "less_than"
	OperatorEquals      = "equals"
)

// ConditionDefinition is an immutable condition template. Editing is
// replace-only: a changed definition is written as a new row and rebindings
// point at the new id.
type ConditionDefinition struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Key           string         `gorm:"column:key;not null;uniqueIndex" json:"key"`
	Type          string         `gorm:"column:type;not null;index" json:"type"`
	Operator      string         `gorm:"column:operator;not null" json:"operator"`
	Value         datatypes.JSON `gorm:"type:jsonb;column:value;not null" json:"value"`
	TimeMinutes   int            `gorm:"column:time_minutes;not null" json:"time_minutes"`
	MaxAdjustment int            `gorm:"column:max_adjustment;not null" json:"max_adjustment"`
	Reason        string         `gorm:"column:reason;not null" json:"reason"`
	Priority      int            `gorm:"column:priority;not null;default:0" json:"priority"`
	BuiltIn       bool           `gorm:"column:built_in;not null;default:false" json:"built_in"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ConditionDefinition) TableName() string { return "condition_definition" }
