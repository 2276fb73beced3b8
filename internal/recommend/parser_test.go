package recommend

import (
	"testing"
)

func TestParseStrictJSON(t *testing.T) {
	raw := `[{"title":"Gymnopédie No.1","artist":"Satie"},{"title":"Rêverie","artist":"Debussy"}]`

	result := Parse(raw)

	if result.Source != ParseStrict {
		t.Fatalf("expected strict source, got %s", result.Source)
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(result.Candidates))
	}
	if result.Candidates[0].Title != "Gymnopédie No.1" || result.Candidates[0].Artist != "Satie" {
		t.Errorf("first candidate mangled: %+v", result.Candidates[0])
	}
	if result.Candidates[1].Title != "Rêverie" || result.Candidates[1].Artist != "Debussy" {
		t.Errorf("second candidate mangled: %+v", result.Candidates[1])
	}
}

func TestParseStrictJSONWithSurroundingWhitespace(t *testing.T) {
	raw := "\n  [{\"title\":\"Holocene\",\"artist\":\"Bon Iver\"}]  \n"

	result := Parse(raw)

	if result.Source != ParseStrict {
		t.Fatalf("expected strict source, got %s", result.Source)
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(result.Candidates))
	}
}

func TestParseHeuristicLines(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []Candidate
	}{
		{
			name: "plain lines",
			raw:  "Clair de Lune - Debussy\nGymnopédie No.1 - Satie",
			expected: []Candidate{
				{Title: "Clair de Lune", Artist: "Debussy"},
				{Title: "Gymnopédie No.1", Artist: "Satie"},
			},
		},
		{
			name: "numbered list markers stripped",
			raw:  "1. Weightless - Marconi Union\n2. Avril 14th - Aphex Twin",
			expected: []Candidate{
				{Title: "Weightless", Artist: "Marconi Union"},
				{Title: "Avril 14th", Artist: "Aphex Twin"},
			},
		},
		{
			name: "dash and star markers stripped",
			raw:  "- Holocene - Bon Iver\n* Re:Stacks - Bon Iver",
			expected: []Candidate{
				{Title: "Holocene", Artist: "Bon Iver"},
				{Title: "Re:Stacks", Artist: "Bon Iver"},
			},
		},
		{
			name: "unusable lines contribute nothing",
			raw:  "Here are some songs:\nNightswimming - R.E.M.\n - \njust a title -",
			expected: []Candidate{
				{Title: "Nightswimming", Artist: "R.E.M."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.raw)

			if result.Source != ParseHeuristic {
				t.Fatalf("expected heuristic source, got %s", result.Source)
			}
			if len(result.Candidates) != len(tt.expected) {
				t.Fatalf("expected %d candidates, got %d: %+v", len(tt.expected), len(result.Candidates), result.Candidates)
			}
			for i, want := range tt.expected {
				if result.Candidates[i] != want {
					t.Errorf("candidate %d: expected %+v, got %+v", i, want, result.Candidates[i])
				}
			}
		})
	}
}

func TestParseEmptyOutput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty string", raw: ""},
		{name: "no song list", raw: "not a song list"},
		{name: "whitespace only", raw: "   \n\n  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.raw)

			if result.Source != ParseEmpty {
				t.Errorf("expected empty source, got %s", result.Source)
			}
			if len(result.Candidates) != 0 {
				t.Errorf("expected no candidates, got %+v", result.Candidates)
			}
		})
	}
}
