package domain

import "testing"

func TestLiteralKey(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"chat", "_chat"},
		{"pomme de terre", "_pomme_de_terre"},
		{"être", "_être"},
	}
	for _, tt := range tests {
		if got := LiteralKey(tt.title); got != tt.want {
			t.Errorf("LiteralKey(%q): got %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestEntryKey(t *testing.T) {
	key := EntryKey("_chat", ClassNoun, 1)
	if key != "_chat_nou1" {
		t.Errorf("EntryKey: got %q, want %q", key, "_chat_nou1")
	}
	key = EntryKey("_chat", ClassVerb, 2)
	if key != "_chat_ver2" {
		t.Errorf("EntryKey: got %q, want %q", key, "_chat_ver2")
	}
}

func TestSenseKey(t *testing.T) {
	if got := SenseKey("_chat_nou1", 3); got != "_chat_nou1.3" {
		t.Errorf("SenseKey: got %q, want %q", got, "_chat_nou1.3")
	}
}

func TestNewIDDeterministic(t *testing.T) {
	a := NewID("_chat_nou1")
	b := NewID("_chat_nou1")
	if a != b {
		t.Errorf("NewID not deterministic: %s vs %s", a, b)
	}
	c := NewID("_chat_nou2")
	if a == c {
		t.Error("NewID collision for distinct keys")
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Étymologie", "etymologie"},
		{"  Synonymes  ", "synonymes"},
		{"Dérivés", "derives"},
		{"quasi-synonymes", "quasi-synonymes"},
		{"voir  aussi", "voir aussi"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTitle(tt.in); got != tt.want {
			t.Errorf("NormalizeTitle(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
