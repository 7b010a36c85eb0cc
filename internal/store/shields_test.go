package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"aetherops.io/arcanum/internal/domain"
	apperrors "aetherops.io/arcanum/internal/pkg/errors"
)

func TestCreateShield_Defaults(t *testing.T) {
	s := newTestStore(t)
	freezeClock(s, storeNow)
	ctx := context.Background()

	created, err := s.CreateShield(ctx, domain.ShieldCreate{ShieldName: "Aegis Prime"})
	require.NoError(t, err)

	got, err := s.GetShield(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ShieldStatusOptimal, got.Status)
	require.True(t, got.IntegrityPercentage.Equal(decimal.NewFromInt(100)))
	require.True(t, got.EnergyLevel.Equal(decimal.NewFromInt(100)))
	require.True(t, got.PowerConsumption.Equal(decimal.NewFromInt(25)))
	require.True(t, got.ProtectionRadiusKm.Equal(decimal.NewFromInt(10)))
	require.True(t, got.UptimeHours.IsZero())
	require.Nil(t, got.LastBreachAttempt)
	require.Equal(t, storeNow, got.StatusUpdatedAt)
}

func TestUpdateShield_UptimeMonotonic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateShield(ctx, domain.ShieldCreate{ShieldName: "Steady"})
	require.NoError(t, err)

	up, err := s.UpdateShield(ctx, created.ID, domain.ShieldPatch{
		UptimeHours: domain.Set(decimal.RequireFromString("72.5")),
	})
	require.NoError(t, err)
	require.True(t, up.UptimeHours.Equal(decimal.RequireFromString("72.5")))

	// Moving backwards is rejected and the record stays intact.
	_, err = s.UpdateShield(ctx, created.ID, domain.ShieldPatch{
		UptimeHours: domain.Set(decimal.RequireFromString("10")),
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, "uptime_hours", appErr.FieldErrors[0].Field)
	require.Equal(t, "monotonic_non_decreasing", appErr.FieldErrors[0].Constraint)

	got, err := s.GetShield(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, got.UptimeHours.Equal(decimal.RequireFromString("72.5")))

	// Equal uptime is allowed.
	_, err = s.UpdateShield(ctx, created.ID, domain.ShieldPatch{
		UptimeHours: domain.Set(decimal.RequireFromString("72.5")),
	})
	require.NoError(t, err)
}

func TestUpdateShield_StatusUpdatedAtImmutable(t *testing.T) {
	s := newTestStore(t)
	freezeClock(s, storeNow)
	ctx := context.Background()

	created, err := s.CreateShield(ctx, domain.ShieldCreate{ShieldName: "Stamped"})
	require.NoError(t, err)

	freezeClock(s, storeNow.Add(time.Hour))
	updated, err := s.UpdateShield(ctx, created.ID, domain.ShieldPatch{
		Status: domain.Set(domain.ShieldStatusDegraded),
	})
	require.NoError(t, err)
	require.Equal(t, domain.ShieldStatusDegraded, updated.Status)
	require.Equal(t, storeNow, updated.StatusUpdatedAt,
		"status_updated_at is stamped once at creation")
}

func TestRecordBreachAttempt(t *testing.T) {
	s := newTestStore(t)
	freezeClock(s, storeNow)
	ctx := context.Background()

	created, err := s.CreateShield(ctx, domain.ShieldCreate{ShieldName: "Tested"})
	require.NoError(t, err)
	require.Nil(t, created.LastBreachAttempt)

	breachAt := storeNow.Add(30 * time.Minute)
	freezeClock(s, breachAt)

	got, err := s.RecordBreachAttempt(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastBreachAttempt)
	require.Equal(t, breachAt, *got.LastBreachAttempt)

	_, err = s.RecordBreachAttempt(ctx, 999)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteShield_CascadesModules(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	shield, err := s.CreateShield(ctx, domain.ShieldCreate{ShieldName: "Doomed"})
	require.NoError(t, err)
	module, err := s.CreateHealingModule(ctx, domain.HealingModuleCreate{
		ShieldID:   shield.ID,
		ModuleName: "Nanite Weave",
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteShield(ctx, shield.ID))

	_, err = s.GetHealingModule(ctx, module.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateHealingModule_Defaults(t *testing.T) {
	s := newTestStore(t)
	freezeClock(s, storeNow)
	ctx := context.Background()

	shield, err := s.CreateShield(ctx, domain.ShieldCreate{ShieldName: "Host"})
	require.NoError(t, err)

	created, err := s.CreateHealingModule(ctx, domain.HealingModuleCreate{
		ShieldID:   shield.ID,
		ModuleName: "Lattice Mender",
	})
	require.NoError(t, err)

	got, err := s.GetHealingModule(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, got.IsOperational)
	require.True(t, got.HealingRate.Equal(decimal.NewFromInt(10)))
	require.True(t, got.EnergyEfficiency.Equal(decimal.NewFromInt(85)))
	require.NotNil(t, got.TargetSystems)
	require.Empty(t, got.TargetSystems)
	require.Zero(t, got.TotalHealings)
	require.Nil(t, got.LastActivation)
	require.Equal(t, storeNow, got.CreatedAt)
}

func TestCreateHealingModule_DanglingShield(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateHealingModule(context.Background(), domain.HealingModuleCreate{
		ShieldID:   999,
		ModuleName: "Orphan",
	})
	require.ErrorIs(t, err, apperrors.ErrReference)
}

func TestRecordActivation_IncrementsCounter(t *testing.T) {
	s := newTestStore(t)
	freezeClock(s, storeNow)
	ctx := context.Background()

	shield, err := s.CreateShield(ctx, domain.ShieldCreate{ShieldName: "Host"})
	require.NoError(t, err)
	module, err := s.CreateHealingModule(ctx, domain.HealingModuleCreate{
		ShieldID:   shield.ID,
		ModuleName: "Pulse Mender",
	})
	require.NoError(t, err)

	first := storeNow.Add(time.Minute)
	freezeClock(s, first)
	got, err := s.RecordActivation(ctx, module.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.TotalHealings)
	require.Equal(t, first, *got.LastActivation)

	second := first.Add(time.Minute)
	freezeClock(s, second)
	got, err = s.RecordActivation(ctx, module.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.TotalHealings)
	require.Equal(t, second, *got.LastActivation)

	_, err = s.RecordActivation(ctx, 999)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateHealingModule_CounterUntouchable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	shield, err := s.CreateShield(ctx, domain.ShieldCreate{ShieldName: "Host"})
	require.NoError(t, err)
	module, err := s.CreateHealingModule(ctx, domain.HealingModuleCreate{
		ShieldID:   shield.ID,
		ModuleName: "Field Mender",
	})
	require.NoError(t, err)
	_, err = s.RecordActivation(ctx, module.ID)
	require.NoError(t, err)

	updated, err := s.UpdateHealingModule(ctx, module.ID, domain.HealingModulePatch{
		ModuleName:    domain.Set("Field Mender Mk II"),
		TargetSystems: domain.Set([]string{"hull", "lattice"}),
	})
	require.NoError(t, err)
	require.Equal(t, "Field Mender Mk II", updated.ModuleName)
	require.Equal(t, []string{"hull", "lattice"}, updated.TargetSystems)
	require.Equal(t, 1, updated.TotalHealings, "patching never touches the counter")
	require.NotNil(t, updated.LastActivation)
}

func TestListShieldModules(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	shield, err := s.CreateShield(ctx, domain.ShieldCreate{ShieldName: "Host"})
	require.NoError(t, err)
	for _, name := range []string{"alpha", "beta"} {
		_, err := s.CreateHealingModule(ctx, domain.HealingModuleCreate{
			ShieldID:   shield.ID,
			ModuleName: name,
		})
		require.NoError(t, err)
	}

	modules, err := s.ListShieldModules(ctx, shield.ID)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	require.Equal(t, "alpha", modules[0].ModuleName)
	require.Equal(t, "beta", modules[1].ModuleName)

	_, err = s.ListShieldModules(ctx, 999)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
