package recommend

import "testing"

func TestBlocked(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		blocked bool
	}{
		{name: "clean title", text: "Clair de Lune", blocked: false},
		{name: "denylisted term", text: "fuck", blocked: true},
		{name: "mixed case", text: "FuCk this song", blocked: true},
		{name: "embedded substring", text: "absofuckinglutely", blocked: true},
		{name: "empty string", text: "", blocked: false},
		{name: "artist with similar letters", text: "Chumbawamba", blocked: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Blocked(tt.text); got != tt.blocked {
				t.Errorf("Blocked(%q) = %v, want %v", tt.text, got, tt.blocked)
			}
		})
	}
}
