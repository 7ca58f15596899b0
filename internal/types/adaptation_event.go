package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AdaptationEvent is the append-only audit trail of every automatic change
// to an alarm's bindings or learning parameters. Rows are never edited.
type AdaptationEvent struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AlarmID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"alarm_id"`
	BindingID *uuid.UUID     `gorm:"type:uuid;index" json:"binding_id,omitempty"`
	Change    string         `gorm:"column:change;not null" json:"change"`
	Detail    datatypes.JSON `gorm:"type:jsonb;column:detail" json:"detail,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
}

func (AdaptationEvent) TableName() string { return "adaptation_event" }
