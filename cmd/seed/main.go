// Package main provides data seeding for the Arcanum operations tracker.
//
// Bootstraps a small demo dataset: foundational glyphs, the Solar Cleansing
// protocol with its ordered steps, one tracked mission with a log trail, a
// resonance reading, and a shield with healing modules. Intended for local
// development against a fresh database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"aetherops.io/arcanum/internal/config"
	"aetherops.io/arcanum/internal/domain"
	"aetherops.io/arcanum/internal/pkg/logger"
	"aetherops.io/arcanum/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	s, err := store.Open(cfg.Store, logger.L())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	logger.Info("Starting data seeding...")

	glyphs, err := seedGlyphs(ctx, s)
	if err != nil {
		return fmt.Errorf("seed glyphs: %w", err)
	}

	protocol, err := seedSolarCleansing(ctx, s, glyphs)
	if err != nil {
		return fmt.Errorf("seed protocol: %w", err)
	}

	if err := seedMission(ctx, s, protocol); err != nil {
		return fmt.Errorf("seed mission: %w", err)
	}

	if err := seedResonance(ctx, s); err != nil {
		return fmt.Errorf("seed resonance: %w", err)
	}

	if err := seedShield(ctx, s); err != nil {
		return fmt.Errorf("seed shield: %w", err)
	}

	logger.Info("Data seeding completed successfully")
	return nil
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// seedGlyphs creates the foundational glyph set and returns it keyed by name.
func seedGlyphs(ctx context.Context, s *store.Store) (map[string]*domain.Glyph, error) {
	protection := domain.GlyphCategoryProtection
	healing := domain.GlyphCategoryHealing
	energy := domain.GlyphCategoryEnergy

	seeds := []domain.GlyphCreate{
		{
			Name: "Solar Ward", Symbol: "ᛊ", Category: &protection,
			PowerLevel:  decPtr("82.5"),
			Description: strPtr("Primary warding mark, attuned to dawn light"),
			Properties:  domain.Attrs{"alignment": "solar", "school": "warding"},
		},
		{
			Name: "Verdant Pulse", Symbol: "ᛒ", Category: &healing,
			PowerLevel:  decPtr("64"),
			Description: strPtr("Restorative mark drawn from living growth"),
			Properties:  domain.Attrs{"alignment": "verdant", "school": "mending"},
		},
		{
			Name: "Ember Core", Symbol: "ᚲ", Category: &energy,
			PowerLevel:  decPtr("91.3"),
			Description: strPtr("High-yield energy focus, handle with care"),
			Properties:  domain.Attrs{"alignment": "ember", "volatile": true},
		},
	}

	out := make(map[string]*domain.Glyph, len(seeds))
	for _, in := range seeds {
		g, err := s.CreateGlyph(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("create glyph %s: %w", in.Name, err)
		}
		logger.Info("Seeded glyph", zap.String("name", g.Name), zap.Int64("id", g.ID))
		out[g.Name] = g
	}
	return out, nil
}

// seedSolarCleansing creates the Solar Cleansing protocol and its three
// ordered steps.
func seedSolarCleansing(ctx context.Context, s *store.Store, glyphs map[string]*domain.Glyph) (*domain.TransformationProtocol, error) {
	duration := 45
	p, err := s.CreateProtocol(ctx, domain.ProtocolCreate{
		Name:            "Solar Cleansing",
		Description:     strPtr("Full-spectrum purification performed at first light"),
		DurationMinutes: &duration,
		EnergyCost:      decPtr("22.5"),
		SuccessRate:     decPtr("91.3"),
		Requirements:    []string{"dawn light", "clear intent", "purified water"},
		Effects:         domain.Attrs{"aura": "brightened", "fatigue": "reduced"},
	})
	if err != nil {
		return nil, fmt.Errorf("create protocol: %w", err)
	}
	logger.Info("Seeded protocol", zap.String("name", p.Name), zap.Int64("id", p.ID))

	shortStep := 120
	steps := []domain.StepCreate{
		{
			ProtocolID: p.ID, StepOrder: 1,
			GlyphID:         &glyphs["Solar Ward"].ID,
			Instruction:     "Face the dawn and trace the Solar Ward over still water",
			DurationSeconds: &shortStep,
		},
		{
			ProtocolID: p.ID, StepOrder: 2,
			GlyphID:     &glyphs["Ember Core"].ID,
			Instruction: "Channel sunlight through the Ember Core until it hums",
			Parameters:  domain.Attrs{"intensity": "rising", "hold": true},
		},
		{
			ProtocolID: p.ID, StepOrder: 3,
			Instruction: "Release the gathered light outward in a single breath",
		},
	}
	for _, in := range steps {
		st, err := s.CreateStep(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("create step %d: %w", in.StepOrder, err)
		}
		logger.Info("Seeded step", zap.Int64("protocol_id", p.ID), zap.Int("order", st.StepOrder))
	}
	return p, nil
}

// seedMission creates one tracked mission driven by the protocol, with a
// short log trail.
func seedMission(ctx context.Context, s *store.Store, protocol *domain.TransformationProtocol) error {
	high := domain.MissionPriorityHigh
	m, err := s.CreateMission(ctx, domain.MissionCreate{
		Title:          "Cleanse the Eastern Spring",
		Description:    strPtr("The spring feeding the eastern fields has soured"),
		Priority:       &high,
		ProtocolID:     &protocol.ID,
		AssignedEntity: strPtr("Lyra"),
		TargetLocation: strPtr("Eastern Spring, Veladorn March"),
		Objectives: []string{
			"scout the spring at first light",
			"perform the Solar Cleansing",
			"confirm the water runs clear",
		},
	})
	if err != nil {
		return fmt.Errorf("create mission: %w", err)
	}
	logger.Info("Seeded mission", zap.String("title", m.Title), zap.Int64("id", m.ID))

	entries := []domain.LogEntryCreate{
		{
			MissionID: m.ID,
			EntryType: strPtr("milestone"),
			Message:   "Departed at dawn, reached the spring without incident",
		},
		{
			MissionID:     m.ID,
			Message:       "First pass of the cleansing complete, water clearing",
			ProgressDelta: decPtr("40"),
			Metadata:      domain.Attrs{"weather": "clear", "observers": "none"},
		},
	}
	for _, in := range entries {
		if _, err := s.AppendLogEntry(ctx, in); err != nil {
			return fmt.Errorf("append log entry: %w", err)
		}
	}
	return nil
}

// seedResonance records one baseline reading for the assigned entity.
func seedResonance(ctx context.Context, s *store.Store) error {
	state := domain.EmotionalStateResonant
	r, err := s.RecordResonance(ctx, domain.ResonanceCreate{
		EntityName:     "Lyra",
		CurrentState:   &state,
		ResonanceLevel: decPtr("68.5"),
		HarmonyIndex:   decPtr("74"),
		Spectrum: domain.Spectrum{
			"resolve": decimal.RequireFromString("81"),
			"calm":    decimal.RequireFromString("62.5"),
			"doubt":   decimal.RequireFromString("18"),
		},
		Notes: strPtr("Baseline reading before the spring cleansing"),
	})
	if err != nil {
		return fmt.Errorf("record resonance: %w", err)
	}
	logger.Info("Seeded resonance", zap.String("entity", r.EntityName), zap.Int64("id", r.ID))
	return nil
}

// seedShield registers one shield with two healing modules.
func seedShield(ctx context.Context, s *store.Store) error {
	q, err := s.CreateShield(ctx, domain.ShieldCreate{
		ShieldName:         "Veladorn Aegis",
		ProtectionRadiusKm: decPtr("14.5"),
		Configuration:      domain.Attrs{"mode": "perimeter", "harmonic": "7th"},
	})
	if err != nil {
		return fmt.Errorf("create shield: %w", err)
	}
	logger.Info("Seeded shield", zap.String("name", q.ShieldName), zap.Int64("id", q.ID))

	modules := []domain.HealingModuleCreate{
		{
			ShieldID:      q.ID,
			ModuleName:    "Lattice Mender",
			HealingRate:   decPtr("12.5"),
			TargetSystems: []string{"lattice", "outer weave"},
		},
		{
			ShieldID:         q.ID,
			ModuleName:       "Core Stabilizer",
			EnergyEfficiency: decPtr("92"),
			TargetSystems:    []string{"core", "harmonic anchor"},
		},
	}
	for _, in := range modules {
		h, err := s.CreateHealingModule(ctx, in)
		if err != nil {
			return fmt.Errorf("create healing module %s: %w", in.ModuleName, err)
		}
		logger.Info("Seeded healing module", zap.String("name", h.ModuleName), zap.Int64("id", h.ID))
	}
	return nil
}
