package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries is the hand-written query layer over the playlists table.
// Every method takes a context and is a single statement; the table's
// composite primary key (owner_id, playlist_name, song_url) gives
// row-level atomicity, so no multi-statement transactions are needed.
type Queries struct {
	pool *pgxpool.Pool
}

// New creates a Queries instance bound to a pool
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

// PlaylistRow is a raw row from the playlists table
type PlaylistRow struct {
	OwnerID      int64
	PlaylistName string
	SongTitle    string
	SongURL      string
	AddedAt      time.Time
}

const insertPlaylistRow = `
INSERT INTO playlists (owner_id, playlist_name, song_title, song_url)
VALUES ($1, $2, $3, $4)
`

// InsertPlaylistRowParams holds the identity tuple plus display title
type InsertPlaylistRowParams struct {
	OwnerID      int64
	PlaylistName string
	SongTitle    string
	SongURL      string
}

// InsertPlaylistRow inserts one row. A duplicate (owner, name, url)
// tuple surfaces as a unique-violation error from the driver.
func (q *Queries) InsertPlaylistRow(ctx context.Context, arg InsertPlaylistRowParams) error {
	_, err := q.pool.Exec(ctx, insertPlaylistRow,
		arg.OwnerID, arg.PlaylistName, arg.SongTitle, arg.SongURL)
	return err
}

const listPlaylistSongs = `
SELECT owner_id, playlist_name, song_title, song_url, added_at
FROM playlists
WHERE owner_id = $1 AND playlist_name = $2 AND song_title <> ''
ORDER BY song_title
`

// ListPlaylistSongsParams scopes a listing to one owner's playlist
type ListPlaylistSongsParams struct {
	OwnerID      int64
	PlaylistName string
}

// ListPlaylistSongs returns the real entries of a playlist. The sentinel
// row (empty song_title) is excluded; an absent playlist yields an empty
// slice, not an error.
func (q *Queries) ListPlaylistSongs(ctx context.Context, arg ListPlaylistSongsParams) ([]PlaylistRow, error) {
	rows, err := q.pool.Query(ctx, listPlaylistSongs, arg.OwnerID, arg.PlaylistName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []PlaylistRow
	for rows.Next() {
		var r PlaylistRow
		if err := rows.Scan(&r.OwnerID, &r.PlaylistName, &r.SongTitle, &r.SongURL, &r.AddedAt); err != nil {
			return nil, err
		}
		songs = append(songs, r)
	}
	return songs, rows.Err()
}

const playlistExists = `
SELECT EXISTS (
    SELECT 1 FROM playlists WHERE owner_id = $1 AND playlist_name = $2
)
`

// PlaylistExistsParams identifies a playlist within an owner's scope
type PlaylistExistsParams struct {
	OwnerID      int64
	PlaylistName string
}

// PlaylistExists reports whether any row (sentinel included) matches
// (owner, name).
func (q *Queries) PlaylistExists(ctx context.Context, arg PlaylistExistsParams) (bool, error) {
	var exists bool
	err := q.pool.QueryRow(ctx, playlistExists, arg.OwnerID, arg.PlaylistName).Scan(&exists)
	return exists, err
}

const deletePlaylist = `
DELETE FROM playlists WHERE owner_id = $1 AND playlist_name = $2
`

// DeletePlaylistParams identifies the playlist to destroy
type DeletePlaylistParams struct {
	OwnerID      int64
	PlaylistName string
}

// DeletePlaylist removes every row of a playlist, sentinel included,
// and returns how many rows went away. Zero for a nonexistent playlist.
func (q *Queries) DeletePlaylist(ctx context.Context, arg DeletePlaylistParams) (int64, error) {
	tag, err := q.pool.Exec(ctx, deletePlaylist, arg.OwnerID, arg.PlaylistName)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const listPlaylistNames = `
SELECT DISTINCT playlist_name FROM playlists WHERE owner_id = $1
ORDER BY playlist_name
`

// ListPlaylistNames returns the distinct playlist names an owner has
func (q *Queries) ListPlaylistNames(ctx context.Context, ownerID int64) ([]string, error) {
	rows, err := q.pool.Query(ctx, listPlaylistNames, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
