package repos

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repos_test.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&types.ConditionDefinition{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return gdb
}

func TestConditionDefinitionRepo_RoundTrip(t *testing.T) {
	repo := NewConditionDefinitionRepo(openTestDB(t), logger.NewNop())
	ctx := context.Background()

	def := &types.ConditionDefinition{
		Key:           "weather_storm",
		Type:          types.ConditionTypeWeather,
		Operator:      types.OperatorContains,
		Value:         datatypes.JSON(`"storm|hail"`),
		TimeMinutes:   -25,
		MaxAdjustment: 40,
		Reason:        "storms slow everything down",
		Priority:      7,
		BuiltIn:       true,
	}
	created, err := repo.Create(ctx, nil, def)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("create left a nil id")
	}

	got, err := repo.GetByID(ctx, nil, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatalf("definition not found after create")
	}
	if got.ID != created.ID ||
		got.Key != def.Key ||
		got.Type != def.Type ||
		got.Operator != def.Operator ||
		got.TimeMinutes != def.TimeMinutes ||
		got.MaxAdjustment != def.MaxAdjustment ||
		got.Reason != def.Reason ||
		got.Priority != def.Priority ||
		got.BuiltIn != def.BuiltIn {
		t.Fatalf("stored definition diverged: %+v vs %+v", got, def)
	}
	if !bytes.Equal([]byte(got.Value), []byte(def.Value)) {
		t.Fatalf("value did not survive storage: %s vs %s", got.Value, def.Value)
	}

	byKey, err := repo.GetByKey(ctx, nil, "weather_storm")
	if err != nil {
		t.Fatalf("get by key: %v", err)
	}
	if byKey == nil || byKey.ID != created.ID {
		t.Fatalf("lookup by key missed the stored row")
	}
}

func TestConditionDefinitionRepo_SoftDeleteHidesRow(t *testing.T) {
	repo := NewConditionDefinitionRepo(openTestDB(t), logger.NewNop())
	ctx := context.Background()

	created, err := repo.Create(ctx, nil, &types.ConditionDefinition{
		Key:      "calendar_early",
		Type:     types.ConditionTypeCalendar,
		Operator: types.OperatorContains,
		Value:    datatypes.JSON(`"early"`),
		Reason:   "early meetings",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.SoftDeleteByID(ctx, nil, created.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	got, err := repo.GetByID(ctx, nil, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("soft-deleted definition still visible: %+v", got)
	}
}
