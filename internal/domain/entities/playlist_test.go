package entities

import "testing"

func TestNewSentinel(t *testing.T) {
	entry := NewSentinel(42, "Chill")

	if entry.OwnerID != 42 || entry.PlaylistName != "Chill" {
		t.Errorf("Sentinel scoped to (%d, %q), want (42, Chill)", entry.OwnerID, entry.PlaylistName)
	}
	if !entry.IsSentinel() {
		t.Error("Expected NewSentinel to produce a sentinel entry")
	}
}

func TestIsSentinel(t *testing.T) {
	tests := []struct {
		name     string
		entry    PlaylistEntry
		expected bool
	}{
		{"empty title and url", PlaylistEntry{}, true},
		{"real song", PlaylistEntry{SongTitle: "One", SongURL: "https://example/1"}, false},
		{"title only", PlaylistEntry{SongTitle: "One"}, false},
		{"url only", PlaylistEntry{SongURL: "https://example/1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.IsSentinel(); got != tt.expected {
				t.Errorf("IsSentinel = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	entry := PlaylistEntry{SongTitle: "One", SongURL: "https://example/1"}
	if got := entry.Display(); got != "- One (https://example/1)" {
		t.Errorf("Display = %q", got)
	}
}
