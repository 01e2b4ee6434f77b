package services

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/awnkhoury1/awnzzbot/internal/database"
	apperrors "github.com/awnkhoury1/awnzzbot/internal/errors"
	"github.com/awnkhoury1/awnzzbot/pkg/logger"
)

var ownerSeq atomic.Int64

// setupService connects to the database named by TEST_DATABASE_URL and
// returns a service plus a fresh owner ID, so tests never see each
// other's rows.
func setupService(t *testing.T) (*PlaylistService, int64) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database integration test")
	}

	log := logger.New(logger.Config{Level: "error"})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, dsn, log)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.RunMigrations(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	owner := time.Now().UnixNano() + ownerSeq.Add(1)
	return NewPlaylistService(db, log), owner
}

func uniqueName(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func TestCreatePlaylistTwice(t *testing.T) {
	svc, owner := setupService(t)
	ctx := context.Background()
	name := uniqueName("chill")

	if err := svc.Create(ctx, owner, name); err != nil {
		t.Fatalf("First create failed: %v", err)
	}
	if err := svc.Create(ctx, owner, name); !errors.Is(err, apperrors.ErrPlaylistExists) {
		t.Errorf("Second create: got %v, want ErrPlaylistExists", err)
	}
}

func TestFreshPlaylistListsEmpty(t *testing.T) {
	svc, owner := setupService(t)
	ctx := context.Background()
	name := uniqueName("empty")

	if err := svc.Create(ctx, owner, name); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	songs, err := svc.Songs(ctx, owner, name)
	if err != nil {
		t.Fatalf("Songs failed: %v", err)
	}
	// the placeholder row that keeps an empty playlist alive must never
	// surface as a song
	if len(songs) != 0 {
		t.Errorf("Fresh playlist listed %d songs, want 0", len(songs))
	}

	names, err := svc.Names(ctx, owner)
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	if len(names) != 1 || names[0] != name {
		t.Errorf("Names = %v, want just the fresh playlist", names)
	}
}

func TestAddAndListSongs(t *testing.T) {
	svc, owner := setupService(t)
	ctx := context.Background()
	name := uniqueName("mix")

	if err := svc.Create(ctx, owner, name); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// inserted out of title order on purpose
	if err := svc.Add(ctx, owner, name, "Zebra", "https://example/zebra"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := svc.Add(ctx, owner, name, "Alpha", "https://example/alpha"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	songs, err := svc.Songs(ctx, owner, name)
	if err != nil {
		t.Fatalf("Songs failed: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("Listed %d songs, want 2", len(songs))
	}
	if songs[0].SongTitle != "Alpha" || songs[1].SongTitle != "Zebra" {
		t.Errorf("Songs not ordered by title: %v, %v", songs[0].SongTitle, songs[1].SongTitle)
	}
	for _, song := range songs {
		if song.SongTitle == "" {
			t.Error("Listing surfaced an empty-title row")
		}
	}
}

func TestAddDuplicateSong(t *testing.T) {
	svc, owner := setupService(t)
	ctx := context.Background()
	name := uniqueName("dup")

	if err := svc.Add(ctx, owner, name, "Song", "https://example/song"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	err := svc.Add(ctx, owner, name, "Song (retitled)", "https://example/song")
	if !errors.Is(err, apperrors.ErrDuplicateEntry) {
		t.Errorf("Duplicate URL: got %v, want ErrDuplicateEntry", err)
	}

	// same URL in a different playlist is fine
	other := uniqueName("other")
	if err := svc.Add(ctx, owner, other, "Song", "https://example/song"); err != nil {
		t.Errorf("Same URL in another playlist: %v", err)
	}
}

func TestAddWithoutCreateEstablishesPlaylist(t *testing.T) {
	svc, owner := setupService(t)
	ctx := context.Background()
	name := uniqueName("implicit")

	if err := svc.Add(ctx, owner, name, "Song", "https://example/song"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	names, err := svc.Names(ctx, owner)
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	if len(names) != 1 || names[0] != name {
		t.Errorf("Names = %v, want the implicitly created playlist", names)
	}
}

func TestDeletePlaylistRemovesAllRows(t *testing.T) {
	svc, owner := setupService(t)
	ctx := context.Background()
	name := uniqueName("gone")

	if err := svc.Create(ctx, owner, name); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Add(ctx, owner, name, "Song", "https://example/song"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// sentinel plus one song
	removed, err := svc.Delete(ctx, owner, name)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Removed %d rows, want 2", removed)
	}

	names, err := svc.Names(ctx, owner)
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Names = %v after delete, want none", names)
	}

	// delete is idempotent
	removed, err = svc.Delete(ctx, owner, name)
	if err != nil {
		t.Errorf("Second delete errored: %v", err)
	}
	if removed != 0 {
		t.Errorf("Second delete removed %d rows, want 0", removed)
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	svc, owner := setupService(t)
	other := owner + 1
	ctx := context.Background()
	name := uniqueName("shared-name")

	if err := svc.Create(ctx, owner, name); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Add(ctx, owner, name, "Song", "https://example/song"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// the other owner can claim the same name
	if err := svc.Create(ctx, other, name); err != nil {
		t.Errorf("Create under another owner failed: %v", err)
	}

	songs, err := svc.Songs(ctx, other, name)
	if err != nil {
		t.Fatalf("Songs failed: %v", err)
	}
	if len(songs) != 0 {
		t.Errorf("Other owner sees %d songs, want 0", len(songs))
	}

	// deleting the other owner's playlist leaves the first intact
	if _, err := svc.Delete(ctx, other, name); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	songs, err = svc.Songs(ctx, owner, name)
	if err != nil {
		t.Fatalf("Songs failed: %v", err)
	}
	if len(songs) != 1 {
		t.Errorf("Original owner lost rows: %d songs, want 1", len(songs))
	}
}
