package ui

import "testing"

func TestSetTheme(t *testing.T) {
	orig := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(orig) })

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"unknown", "dark"},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		if got := GetCurrentTheme().Name; got != tt.want {
			t.Errorf("SetTheme(%q) selected %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestInitThemeNoColor(t *testing.T) {
	orig := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(orig) })

	InitTheme(true)
	if ColorRed() != "" || ColorReset() != "" {
		t.Error("no-color theme should emit no escape sequences")
	}
	if CurrentPalette() != NoColorPalette {
		t.Error("no-color theme should use the no-color palette")
	}
}

func TestInitThemeRespectsNO_COLOR(t *testing.T) {
	orig := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(orig) })

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("NO_COLOR set, got theme %q", GetCurrentTheme().Name)
	}
}

func TestColorsFollowTheme(t *testing.T) {
	orig := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(orig) })

	SetCurrentTheme(DarkTheme)
	if ColorGreen() != DarkTheme.Success {
		t.Errorf("ColorGreen() = %q, want %q", ColorGreen(), DarkTheme.Success)
	}
	SetCurrentTheme(LightTheme)
	if ColorGreen() != LightTheme.Success {
		t.Errorf("ColorGreen() = %q, want %q", ColorGreen(), LightTheme.Success)
	}
}
