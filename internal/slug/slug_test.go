package slug

import "testing"

// TestGenerate covers Latin titles, Russian titles, punctuation and edge
// cases.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Latin ---
		{name: "simple two words", input: "Hello World", want: "hello-world"},
		{name: "product title", input: "Steel Sheet 3 mm", want: "steel-sheet-3-mm"},
		{name: "punctuation removed", input: "Pipes, Fittings & Valves!", want: "pipes-fittings-valves"},
		{name: "standard number", input: "GOST 19903-2015", want: "gost-19903-2015"},
		{name: "dotted dimensions", input: "Round bar Ø 12.5", want: "round-bar-125"},
		{name: "diacritics stripped", input: "Café Résumé Noël", want: "cafe-resume-noel"},
		{name: "german umlauts", input: "Über die Brücke", want: "uber-die-brucke"},

		// --- Cyrillic ---
		{name: "russian title", input: "Лист стальной 3 мм", want: "list-stalnoi-3-mm"},
		{name: "soft and hard signs dropped", input: "Объём и сталь", want: "obem-i-stal"},
		{name: "multi-letter mappings", input: "Щит, жесть и чугун", want: "shchit-zhest-i-chugun"},
		{name: "yo and ya", input: "Ёлка Ямал", want: "elka-iamal"},
		{name: "mixed scripts", input: "Труба ВГП DN 50", want: "truba-vgp-dn-50"},
		{name: "company name", input: "О компании", want: "o-kompanii"},

		// --- Whitespace ---
		{name: "leading and trailing spaces", input: "  hello world  ", want: "hello-world"},
		{name: "tabs become hyphens", input: "hello\tworld", want: "hello-world"},
		{name: "newlines become hyphens", input: "hello\nworld", want: "hello-world"},

		// --- Hyphens ---
		{name: "multiple hyphens", input: "hello---world", want: "hello-world"},
		{name: "hyphens and spaces mixed", input: "  --hello -- world--  ", want: "hello-world"},

		// --- Edge cases ---
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "     ", want: ""},
		{name: "only special characters", input: "!@#$%^&*()", want: ""},
		{name: "chinese stripped", input: "钢板", want: ""},
		{name: "date-like", input: "2026-02-25", want: "2026-02-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that an existing slug is left alone.
func TestGenerate_Idempotent(t *testing.T) {
	for _, s := range []string{"hello-world", "list-stalnoi-3-mm", "a", "123"} {
		t.Run(s, func(t *testing.T) {
			if got := Generate(s); got != s {
				t.Errorf("Generate(%q) = %q, want %q", s, got, s)
			}
		})
	}
}

// TestGenerate_ConsistentCase verifies that upper- and lowercase Cyrillic
// produce the same slug.
func TestGenerate_ConsistentCase(t *testing.T) {
	for _, input := range []string{"ЛИСТ СТАЛЬНОЙ", "Лист Стальной", "лист стальной"} {
		t.Run(input, func(t *testing.T) {
			if got := Generate(input); got != "list-stalnoi" {
				t.Errorf("Generate(%q) = %q, want %q", input, got, "list-stalnoi")
			}
		})
	}
}

func TestTransliterate(t *testing.T) {
	if got := Transliterate("сталь-steel"); got != "stal-steel" {
		t.Errorf("Transliterate: got %q", got)
	}
}
