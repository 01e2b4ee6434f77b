package entities

import (
	"fmt"
	"time"
)

// PlaylistEntry is one persisted row of a user's playlist. The identity
// key is (OwnerID, PlaylistName, SongURL); a row with empty title and
// URL is the sentinel that makes an empty playlist representable under
// that composite key.
type PlaylistEntry struct {
	OwnerID      int64
	PlaylistName string
	SongTitle    string
	SongURL      string
	AddedAt      time.Time
}

// NewSentinel returns the placeholder entry inserted at playlist
// creation time.
func NewSentinel(ownerID int64, playlistName string) PlaylistEntry {
	return PlaylistEntry{
		OwnerID:      ownerID,
		PlaylistName: playlistName,
	}
}

// IsSentinel reports whether this is the empty-playlist placeholder row
func (e PlaylistEntry) IsSentinel() bool {
	return e.SongTitle == "" && e.SongURL == ""
}

// Display renders the entry as a single reply line
func (e PlaylistEntry) Display() string {
	return fmt.Sprintf("- %s (%s)", e.SongTitle, e.SongURL)
}
