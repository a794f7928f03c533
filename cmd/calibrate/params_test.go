package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/pong/config"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestDefaultsInsideBounds(t *testing.T) {
	pv := NewParamVector()
	for _, spec := range pv.Specs {
		if spec.Default < spec.Min || spec.Default > spec.Max {
			t.Errorf("%s default %v outside [%v, %v]", spec.Name, spec.Default, spec.Min, spec.Max)
		}
	}
}

func TestClamp(t *testing.T) {
	pv := NewParamVector()
	got := pv.Clamp([]float64{-10, 1000, 0.2, 5})
	want := []float64{0, 400, 0.2, 1.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestApplyToConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	if err := pv.ApplyToConfig(cfg, []float64{30, 250, 0.9, 0.8}); err != nil {
		t.Fatalf("ApplyToConfig: %v", err)
	}
	if cfg.AI.ErrorMargin != 30 || cfg.AI.SpeedFactor != 0.8 {
		t.Errorf("unexpected AI config %+v", cfg.AI)
	}
	if cfg.AI.MissChance != 0.5 {
		t.Errorf("miss chance should clamp to 0.5, got %v", cfg.AI.MissChance)
	}
	if cfg.Derived.ReactionTime != 250*time.Millisecond {
		t.Errorf("derived reaction time not refreshed: %v", cfg.Derived.ReactionTime)
	}

	got := pv.ExtractFromConfig(cfg)
	want := []float64{30, 250, 0.5, 0.8}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: extracted %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}
