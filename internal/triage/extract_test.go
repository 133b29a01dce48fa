package triage

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "TAC de tórax", "TAC de tórax"},
		{"strips BOM", "\ufeffTAC de tórax", "TAC de tórax"},
		{"converts CRLF", "línea uno\r\nlínea dos", "línea uno\nlínea dos"},
		{"trims whitespace", "  informe  \n", "informe"},
		{"empty", "", ""},
		{"all together", "\ufeff  Hallazgos: algo\r\nOpinión: nada \r\n", "Hallazgos: algo\nOpinión: nada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFindingsExcerpt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"captures heading to end",
			"TOMOGRAFÍA DE TÓRAX\nHallazgos: Consolidaciones bibasales.\nOpinión: Sospecha de neumonía.",
			"Hallazgos: Consolidaciones bibasales. Opinión: Sospecha de neumonía.",
		},
		{
			"case insensitive",
			"informe\nHALLAZGOS: algo",
			"HALLAZGOS: algo",
		},
		{
			"collapses whitespace runs",
			"Hallazgos:   varios\n\n\thallazgos   dispersos",
			"Hallazgos: varios hallazgos dispersos",
		},
		{"no heading", "informe sin secciones", ""},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FindingsExcerpt(tt.in); got != tt.want {
				t.Errorf("FindingsExcerpt(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOpinionExcerpt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"captures remainder after heading",
			"Hallazgos: algo\nOpinión: Sospecha de hemorragia intraparenquimatosa.",
			"Sospecha de hemorragia intraparenquimatosa.",
		},
		{
			"accepts colon or dash separators",
			"Opinión - hallazgo crítico",
			"hallazgo crítico",
		},
		{
			"unaccented heading",
			"Opinion: sin alteraciones",
			"sin alteraciones",
		},
		{"no heading", "Hallazgos: algo", OpinionPlaceholder},
		{"empty remainder", "Opinión:", OpinionPlaceholder},
		{"empty input", "", OpinionPlaceholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := OpinionExcerpt(tt.in); got != tt.want {
				t.Errorf("OpinionExcerpt(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// The two extractions are independent: both run over the normalized
// original, not over each other's output.
func TestExtractions_Independent(t *testing.T) {
	t.Parallel()

	normalized := Normalize("Opinión: primero\nHallazgos: después de la opinión")

	if got := FindingsExcerpt(normalized); got != "Hallazgos: después de la opinión" {
		t.Errorf("FindingsExcerpt = %q", got)
	}
	if got := OpinionExcerpt(normalized); got != "primero Hallazgos: después de la opinión" {
		t.Errorf("OpinionExcerpt = %q", got)
	}
}
