package ui

import "testing"

func TestThemeByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"", "dark"},
		{"solarized", "dark"},
	}

	for _, tt := range tests {
		if got := ThemeByName(tt.name); got.Name != tt.want {
			t.Errorf("ThemeByName(%q).Name = %q, want %q", tt.name, got.Name, tt.want)
		}
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	start := ThemeByName("dark")
	next := NextTheme(start)
	if next.Name != "light" {
		t.Fatalf("NextTheme(dark) = %q, want light", next.Name)
	}
	if back := NextTheme(next); back.Name != "dark" {
		t.Fatalf("NextTheme(light) = %q, want dark", back.Name)
	}
}
