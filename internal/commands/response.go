package commands

import (
	"fmt"
	"strings"

	"github.com/awnkhoury1/awnzzbot/internal/domain/entities"
)

// Reply text. Plain strings; Telegram private chats don't need markup.
const (
	bareUsageText   = "Please send a YouTube link or song name."
	downloadingText = "Downloading... Please wait."

	usageCreateText = "Usage: /create_playlist <name>"
	usageAddText    = "Usage: /add_to_playlist <playlist_name> <song_link_or_name>"
	usageViewText   = "Usage: /view_playlist <name>"
	usageDeleteText = "Usage: /delete_playlist <name>"

	unknownCommandText = "Unknown command. Send /start to see what I can do."
	genericFailureText = "Something went wrong. Please try again later."

	welcomeText = "Welcome! Send a YouTube link or song name to download audio.\n" +
		"Commands:\n" +
		"/create_playlist <name>\n" +
		"/add_to_playlist <playlist_name> <song_link_or_name>\n" +
		"/view_playlist <name>\n" +
		"/delete_playlist <name>\n" +
		"/my_playlists"
)

// formatPlaylist renders a playlist's entries as a reply message
func formatPlaylist(name string, songs []entities.PlaylistEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Playlist '%s':", name)
	for _, song := range songs {
		sb.WriteString("\n")
		sb.WriteString(song.Display())
	}
	return sb.String()
}

// formatNames renders the caller's playlist names as a reply message
func formatNames(names []string) string {
	var sb strings.Builder
	sb.WriteString("Your playlists:")
	for _, name := range names {
		fmt.Fprintf(&sb, "\n- %s", name)
	}
	return sb.String()
}
