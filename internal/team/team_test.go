package team

import "testing"

func TestSlug(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"Almond-Bancroft", "almond-bancroft"},
		{"Almond Bancroft High School", "almond-bancroft"},
		{"ALMOND-BANCROFT H.S.", "almond-bancroft"},
		{"Sheboygan Area Lutheran HS", "sheboygan-area-lutheran"},
		{"St. Mary's Springs", "st-mary-s-springs"},
		{"  Elcho  ", "elcho"},
		{"", "unknown"},
		{"---", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			result := Slug(tt.raw)
			if result != tt.expected {
				t.Errorf("Slug(%q) = %q, expected %q", tt.raw, result, tt.expected)
			}
		})
	}
}

func TestCanonicalID_Idempotent(t *testing.T) {
	names := []string{
		"Almond-Bancroft",
		"Lincoln High School",
		"St. Mary's Springs",
		"Elcho",
	}

	for _, name := range names {
		first := CanonicalID("wiaa", name)
		second := CanonicalID("wiaa", name)
		if first != second {
			t.Errorf("CanonicalID(%q) not deterministic: %q != %q", name, first, second)
		}

		// Re-slugging a produced slug must not change it.
		reslugged := Slug(Slug(name))
		if reslugged != Slug(name) {
			t.Errorf("Slug not idempotent for %q: %q != %q", name, reslugged, Slug(name))
		}
	}
}

func TestCanonicalID_NamespaceSeparation(t *testing.T) {
	wiaa := CanonicalID("wiaa", "Lincoln")
	ihsaa := CanonicalID("ihsaa", "Lincoln")
	if wiaa == ihsaa {
		t.Errorf("expected different namespaces to produce different IDs, both = %q", wiaa)
	}
}

func TestCanonicalID_VariantsCollapse(t *testing.T) {
	variants := []string{
		"Almond-Bancroft",
		"Almond Bancroft",
		"Almond-Bancroft High School",
		"almond-bancroft hs",
	}

	want := CanonicalID("wiaa", variants[0])
	for _, v := range variants[1:] {
		if got := CanonicalID("wiaa", v); got != want {
			t.Errorf("CanonicalID(%q) = %q, expected %q", v, got, want)
		}
	}
}
