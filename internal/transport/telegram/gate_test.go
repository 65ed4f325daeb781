package telegram

import "testing"

func TestGate_Allowed(t *testing.T) {
	g := NewGate(42)

	tests := []struct {
		name   string
		userID int64
		want   bool
	}{
		{"owner", 42, true},
		{"stranger", 1337, false},
		{"zero", 0, false},
		{"negative", -42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Allowed(tt.userID); got != tt.want {
				t.Errorf("Allowed(%d) = %v, want %v", tt.userID, got, tt.want)
			}
		})
	}
}
