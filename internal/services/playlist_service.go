package services

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/awnkhoury1/awnzzbot/internal/database"
	"github.com/awnkhoury1/awnzzbot/internal/domain/entities"
	"github.com/awnkhoury1/awnzzbot/internal/errors"
	"github.com/awnkhoury1/awnzzbot/internal/metrics"
	"github.com/awnkhoury1/awnzzbot/pkg/logger"
)

// uniqueViolation is the Postgres error code for a primary-key or
// unique-constraint conflict.
const uniqueViolation = "23505"

// PlaylistService is the playlist store. All operations are scoped to a
// single owner and rely on single-statement row-level atomicity; no
// operation spans a multi-statement transaction.
type PlaylistService struct {
	db     *database.DB
	logger *logger.Logger
}

// NewPlaylistService creates a playlist service over the database
func NewPlaylistService(db *database.DB, log *logger.Logger) *PlaylistService {
	return &PlaylistService{
		db:     db,
		logger: log,
	}
}

// Create creates an empty playlist by inserting its sentinel row.
// Returns ErrPlaylistExists when any row for (owner, name) already
// exists, including a sentinel from a prior create.
func (s *PlaylistService) Create(ctx context.Context, ownerID int64, name string) error {
	exists, err := s.db.Queries.PlaylistExists(ctx, database.PlaylistExistsParams{
		OwnerID:      ownerID,
		PlaylistName: name,
	})
	if err != nil {
		metrics.StoreQueriesTotal.WithLabelValues("create", "error").Inc()
		return s.storageError("check playlist", err)
	}
	if exists {
		metrics.StoreQueriesTotal.WithLabelValues("create", "conflict").Inc()
		return errors.ErrPlaylistExists
	}

	sentinel := entities.NewSentinel(ownerID, name)
	err = s.db.Queries.InsertPlaylistRow(ctx, database.InsertPlaylistRowParams{
		OwnerID:      sentinel.OwnerID,
		PlaylistName: sentinel.PlaylistName,
		SongTitle:    sentinel.SongTitle,
		SongURL:      sentinel.SongURL,
	})
	if err != nil {
		// A concurrent create can slip between the existence check and
		// the insert; the primary key turns that race into a conflict,
		// not corruption.
		if isUniqueViolation(err) {
			metrics.StoreQueriesTotal.WithLabelValues("create", "conflict").Inc()
			return errors.ErrPlaylistExists
		}
		metrics.StoreQueriesTotal.WithLabelValues("create", "error").Inc()
		return s.storageError("create playlist", err)
	}

	metrics.StoreQueriesTotal.WithLabelValues("create", "ok").Inc()
	s.logger.WithOwner(ownerID).WithField("playlist", name).Info("Playlist created")
	return nil
}

// Add inserts a song row. The playlist need not exist beforehand: an
// add without a prior create implicitly establishes it. Returns
// ErrDuplicateEntry when (owner, name, url) is already present.
func (s *PlaylistService) Add(ctx context.Context, ownerID int64, name, title, url string) error {
	err := s.db.Queries.InsertPlaylistRow(ctx, database.InsertPlaylistRowParams{
		OwnerID:      ownerID,
		PlaylistName: name,
		SongTitle:    title,
		SongURL:      url,
	})
	if err != nil {
		if isUniqueViolation(err) {
			metrics.StoreQueriesTotal.WithLabelValues("add", "conflict").Inc()
			return errors.ErrDuplicateEntry
		}
		metrics.StoreQueriesTotal.WithLabelValues("add", "error").Inc()
		return s.storageError("add entry", err)
	}

	metrics.StoreQueriesTotal.WithLabelValues("add", "ok").Inc()
	s.logger.WithOwner(ownerID).WithFields(map[string]interface{}{
		"playlist": name,
		"song":     title,
	}).Info("Song added to playlist")
	return nil
}

// Songs returns the real entries of a playlist, sentinel excluded. An
// empty playlist and a missing playlist both yield an empty slice.
func (s *PlaylistService) Songs(ctx context.Context, ownerID int64, name string) ([]entities.PlaylistEntry, error) {
	rows, err := s.db.Queries.ListPlaylistSongs(ctx, database.ListPlaylistSongsParams{
		OwnerID:      ownerID,
		PlaylistName: name,
	})
	if err != nil {
		metrics.StoreQueriesTotal.WithLabelValues("list", "error").Inc()
		return nil, s.storageError("list entries", err)
	}

	metrics.StoreQueriesTotal.WithLabelValues("list", "ok").Inc()
	songs := make([]entities.PlaylistEntry, 0, len(rows))
	for _, r := range rows {
		songs = append(songs, entities.PlaylistEntry{
			OwnerID:      r.OwnerID,
			PlaylistName: r.PlaylistName,
			SongTitle:    r.SongTitle,
			SongURL:      r.SongURL,
			AddedAt:      r.AddedAt,
		})
	}
	return songs, nil
}

// Delete removes a playlist and all its entries, returning the number
// of rows removed. Deleting a nonexistent playlist is a no-op, not an
// error.
func (s *PlaylistService) Delete(ctx context.Context, ownerID int64, name string) (int64, error) {
	removed, err := s.db.Queries.DeletePlaylist(ctx, database.DeletePlaylistParams{
		OwnerID:      ownerID,
		PlaylistName: name,
	})
	if err != nil {
		metrics.StoreQueriesTotal.WithLabelValues("delete", "error").Inc()
		return 0, s.storageError("delete playlist", err)
	}

	metrics.StoreQueriesTotal.WithLabelValues("delete", "ok").Inc()
	s.logger.WithOwner(ownerID).WithFields(map[string]interface{}{
		"playlist": name,
		"removed":  removed,
	}).Info("Playlist deleted")
	return removed, nil
}

// Names returns the distinct playlist names an owner has
func (s *PlaylistService) Names(ctx context.Context, ownerID int64) ([]string, error) {
	names, err := s.db.Queries.ListPlaylistNames(ctx, ownerID)
	if err != nil {
		metrics.StoreQueriesTotal.WithLabelValues("names", "error").Inc()
		return nil, s.storageError("list playlists", err)
	}
	metrics.StoreQueriesTotal.WithLabelValues("names", "ok").Inc()
	return names, nil
}

// storageError logs an unexpected storage fault and wraps it so the
// router can map it to a generic reply.
func (s *PlaylistService) storageError(op string, err error) error {
	s.logger.WithError(err).WithField("operation", op).Error("Storage operation failed")
	return fmt.Errorf("%w: %s: %v", errors.ErrStorage, op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
