package store

import (
	"context"
	"testing"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	settings, err := s.LoadSettings(context.Background())
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}

	want := DefaultSettings()
	if settings != want {
		t.Errorf("expected defaults %+v, got %+v", want, settings)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveTheme(ctx, "light"); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	if err := s.SaveLayout(ctx, "grid"); err != nil {
		t.Fatalf("save layout: %v", err)
	}
	if err := s.SaveShuffle(ctx, true); err != nil {
		t.Fatalf("save shuffle: %v", err)
	}
	if err := s.SaveRepeatMode(ctx, "one"); err != nil {
		t.Fatalf("save repeat: %v", err)
	}
	if err := s.SaveLastPlayed(ctx, 42); err != nil {
		t.Fatalf("save last played: %v", err)
	}

	settings, err := s.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}

	if settings.Theme != "light" || settings.Layout != "grid" {
		t.Errorf("theme/layout round-trip failed: %+v", settings)
	}
	if !settings.Shuffle {
		t.Error("expected shuffle true")
	}
	if settings.RepeatMode != "one" {
		t.Errorf("expected repeat one, got %q", settings.RepeatMode)
	}
	if settings.LastPlayedSongID != 42 {
		t.Errorf("expected last played 42, got %d", settings.LastPlayedSongID)
	}

	// Each write wins over the previous value
	if err := s.SaveShuffle(ctx, false); err != nil {
		t.Fatalf("save shuffle: %v", err)
	}
	settings, _ = s.LoadSettings(ctx)
	if settings.Shuffle {
		t.Error("expected shuffle false after second write")
	}
}

func TestLoadSettingsIgnoresMalformedValues(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.setSetting(ctx, settingLastPlayed, "not-a-number")
	s.setSetting(ctx, settingRepeat, "bogus")
	s.setSetting(ctx, settingTheme, "purple")

	settings, err := s.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}

	want := DefaultSettings()
	if settings != want {
		t.Errorf("malformed values should fall back to defaults, got %+v", settings)
	}
}
