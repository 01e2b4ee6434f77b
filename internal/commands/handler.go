package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/awnkhoury1/awnzzbot/internal/domain/entities"
	apperrors "github.com/awnkhoury1/awnzzbot/internal/errors"
	"github.com/awnkhoury1/awnzzbot/internal/metrics"
	"github.com/awnkhoury1/awnzzbot/internal/services/resolver"
	"github.com/awnkhoury1/awnzzbot/internal/validation"
	"github.com/awnkhoury1/awnzzbot/pkg/logger"
)

// Transport is the chat platform seen from the router: a way to answer
// the user with text or with an audio file.
type Transport interface {
	SendText(chatID int64, text string) error
	SendAudio(chatID int64, filePath, title string) error
}

// Resolver turns a URL or free-text query into a local audio artifact
type Resolver interface {
	Resolve(ctx context.Context, query string, ownerID int64) (*resolver.Track, error)
}

// PlaylistStore is the persistence surface the router needs
type PlaylistStore interface {
	Create(ctx context.Context, ownerID int64, name string) error
	Add(ctx context.Context, ownerID int64, name, title, url string) error
	Songs(ctx context.Context, ownerID int64, name string) ([]entities.PlaylistEntry, error)
	Delete(ctx context.Context, ownerID int64, name string) (int64, error)
	Names(ctx context.Context, ownerID int64) ([]string, error)
}

// Message is one inbound chat message, already split into command and
// arguments by the transport layer. Command is empty for bare text.
type Message struct {
	ChatID  int64
	OwnerID int64
	Command string
	Args    []string
	Text    string
}

// Handler routes inbound messages to the resolver and the playlist
// store and maps every outcome to at least one reply.
type Handler struct {
	transport Transport
	resolver  Resolver
	playlists PlaylistStore
	logger    *logger.Logger
}

// NewHandler creates a message router
func NewHandler(transport Transport, res Resolver, playlists PlaylistStore, log *logger.Logger) *Handler {
	return &Handler{
		transport: transport,
		resolver:  res,
		playlists: playlists,
		logger:    log,
	}
}

// HandleMessage processes one message to completion. A panic in any
// branch is recovered here so one bad message never takes down the
// update loop, and the user still gets a reply.
func (h *Handler) HandleMessage(ctx context.Context, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			metrics.HandlerPanicsTotal.Inc()
			h.logger.WithOwner(msg.OwnerID).WithField("panic", r).Error("Recovered from panic in message handler")
			h.reply(msg, genericFailureText)
		}
	}()

	kind := "text"
	if msg.Command != "" {
		kind = "command"
	}
	metrics.UpdatesTotal.WithLabelValues(kind).Inc()

	h.logger.WithOwner(msg.OwnerID).WithField("command", msg.Command).Debug("Message received")

	switch msg.Command {
	case "":
		h.handleFetch(ctx, msg)
	case "start":
		h.reply(msg, welcomeText)
	case "create_playlist":
		h.handleCreate(ctx, msg)
	case "add_to_playlist":
		h.handleAdd(ctx, msg)
	case "view_playlist":
		h.handleView(ctx, msg)
	case "delete_playlist":
		h.handleDelete(ctx, msg)
	case "my_playlists":
		h.handleNames(ctx, msg)
	default:
		h.reply(msg, unknownCommandText)
	}
}

// handleFetch is the bare-text branch: resolve and deliver the audio,
// then release the artifact. The deferred Remove runs even when
// delivery fails.
func (h *Handler) handleFetch(ctx context.Context, msg Message) {
	text := validation.SanitizeInput(msg.Text)
	if text == "" {
		h.reply(msg, bareUsageText)
		return
	}

	h.reply(msg, downloadingText)

	track, err := h.resolver.Resolve(ctx, text, msg.OwnerID)
	if err != nil {
		h.reply(msg, "Failed to download: "+apperrors.GetUserMessage(err))
		return
	}
	defer h.removeTrack(msg.OwnerID, track)

	if err := h.transport.SendAudio(msg.ChatID, track.FilePath, track.Title); err != nil {
		h.logger.WithOwner(msg.OwnerID).WithError(err).Error("Failed to deliver audio")
		h.reply(msg, "Failed to send the audio. Please try again.")
	}
}

func (h *Handler) handleCreate(ctx context.Context, msg Message) {
	if len(msg.Args) == 0 {
		h.reply(msg, usageCreateText)
		return
	}

	name := strings.Join(msg.Args, " ")
	if err := validation.ValidatePlaylistName(name); err != nil {
		h.reply(msg, apperrors.GetUserMessage(err))
		return
	}

	if err := h.playlists.Create(ctx, msg.OwnerID, name); err != nil {
		if errors.Is(err, apperrors.ErrPlaylistExists) {
			h.reply(msg, fmt.Sprintf("Playlist '%s' already exists.", name))
			return
		}
		h.reply(msg, apperrors.GetUserMessage(err))
		return
	}

	h.reply(msg, fmt.Sprintf("Playlist '%s' created.", name))
}

// handleAdd resolves first, so a failed fetch writes no row. The
// artifact is released by the deferred Remove whether or not the store
// write succeeds; only title and URL are persisted.
func (h *Handler) handleAdd(ctx context.Context, msg Message) {
	if len(msg.Args) < 2 {
		h.reply(msg, usageAddText)
		return
	}

	name := msg.Args[0]
	if err := validation.ValidatePlaylistName(name); err != nil {
		h.reply(msg, apperrors.GetUserMessage(err))
		return
	}
	query := strings.Join(msg.Args[1:], " ")

	h.reply(msg, downloadingText)

	track, err := h.resolver.Resolve(ctx, query, msg.OwnerID)
	if err != nil {
		h.reply(msg, "Failed to add: "+apperrors.GetUserMessage(err))
		return
	}
	defer h.removeTrack(msg.OwnerID, track)

	if err := h.playlists.Add(ctx, msg.OwnerID, name, track.Title, track.SourceURL); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			h.reply(msg, fmt.Sprintf("'%s' is already in '%s'.", track.Title, name))
			return
		}
		h.reply(msg, apperrors.GetUserMessage(err))
		return
	}

	h.reply(msg, fmt.Sprintf("Added '%s' to '%s'.", track.Title, name))
}

func (h *Handler) handleView(ctx context.Context, msg Message) {
	if len(msg.Args) == 0 {
		h.reply(msg, usageViewText)
		return
	}

	name := strings.Join(msg.Args, " ")
	songs, err := h.playlists.Songs(ctx, msg.OwnerID, name)
	if err != nil {
		h.reply(msg, apperrors.GetUserMessage(err))
		return
	}

	if len(songs) == 0 {
		h.reply(msg, fmt.Sprintf("No songs in '%s'.", name))
		return
	}

	h.reply(msg, formatPlaylist(name, songs))
}

func (h *Handler) handleDelete(ctx context.Context, msg Message) {
	if len(msg.Args) == 0 {
		h.reply(msg, usageDeleteText)
		return
	}

	name := strings.Join(msg.Args, " ")
	removed, err := h.playlists.Delete(ctx, msg.OwnerID, name)
	if err != nil {
		h.reply(msg, apperrors.GetUserMessage(err))
		return
	}

	h.logger.WithOwner(msg.OwnerID).WithFields(map[string]interface{}{
		"playlist": name,
		"removed":  removed,
	}).Debug("Delete handled")

	h.reply(msg, fmt.Sprintf("Playlist '%s' deleted.", name))
}

func (h *Handler) handleNames(ctx context.Context, msg Message) {
	names, err := h.playlists.Names(ctx, msg.OwnerID)
	if err != nil {
		h.reply(msg, apperrors.GetUserMessage(err))
		return
	}

	if len(names) == 0 {
		h.reply(msg, "You have no playlists yet. Use /create_playlist <name> to make one.")
		return
	}

	h.reply(msg, formatNames(names))
}

// reply sends a text response, logging delivery failures; the send
// itself is best-effort.
func (h *Handler) reply(msg Message, text string) {
	if err := h.transport.SendText(msg.ChatID, text); err != nil {
		h.logger.WithOwner(msg.OwnerID).WithError(err).Error("Failed to send reply")
	}
}

func (h *Handler) removeTrack(ownerID int64, track *resolver.Track) {
	if err := track.Remove(); err != nil {
		h.logger.WithOwner(ownerID).WithError(err).Warn("Failed to remove temp audio file")
	}
}
