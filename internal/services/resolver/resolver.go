package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/awnkhoury1/awnzzbot/internal/errors"
	"github.com/awnkhoury1/awnzzbot/internal/metrics"
	"github.com/awnkhoury1/awnzzbot/internal/utils"
	"github.com/awnkhoury1/awnzzbot/internal/validation"
	"github.com/awnkhoury1/awnzzbot/pkg/logger"
)

// Track is a resolved audio artifact. SourceURL is the authoritative
// page URL reported by the fetcher, not a guess derived from the query.
// The caller owns FilePath and must call Remove when done with it.
type Track struct {
	Title     string
	SourceURL string
	FilePath  string
}

// Remove releases the artifact. The file lives alone in its per-request
// directory, so removing the directory releases everything.
func (t *Track) Remove() error {
	if t.FilePath == "" {
		return nil
	}
	return os.RemoveAll(filepath.Dir(t.FilePath))
}

// Config holds resolver settings
type Config struct {
	TempDir   string
	YtDlpPath string // empty means look up yt-dlp in PATH
	CacheLen  int
	CacheTTL  time.Duration
}

// Service resolves URLs and free-text queries into local MP3 artifacts
// by driving the yt-dlp binary.
type Service struct {
	ytDlpPath   string
	tempDir     string
	searchCache *utils.TTLCache[string] // search query -> canonical URL
	logger      *logger.Logger
}

// NewService creates a resolver. Fails fast when yt-dlp is not
// available.
func NewService(cfg Config, log *logger.Logger) (*Service, error) {
	ytDlpPath := cfg.YtDlpPath
	if ytDlpPath == "" {
		var err error
		ytDlpPath, err = exec.LookPath("yt-dlp")
		if err != nil {
			return nil, fmt.Errorf("yt-dlp not found in PATH: %w", err)
		}
	}

	if err := os.MkdirAll(cfg.TempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	log.WithField("ytdlp_path", ytDlpPath).Info("Resolver initialized")

	return &Service{
		ytDlpPath:   ytDlpPath,
		tempDir:     cfg.TempDir,
		searchCache: utils.NewTTLCache[string](cfg.CacheLen, cfg.CacheTTL),
		logger:      log,
	}, nil
}

// ytInfo is the slice of yt-dlp's --dump-json output we care about
type ytInfo struct {
	Title              string `json:"title"`
	WebpageURL         string `json:"webpage_url"`
	RequestedDownloads []struct {
		Filepath string `json:"filepath"`
	} `json:"requested_downloads"`
}

// Resolve turns a URL or free-text query into a downloaded, transcoded
// MP3 plus title and source URL. Artifacts land in an owner-and-request
// namespaced directory so concurrent resolutions never collide. On
// success the returned Track (and its file) belongs to the caller.
func (s *Service) Resolve(ctx context.Context, query string, ownerID int64) (*Track, error) {
	if err := validation.ValidateQuery(query); err != nil {
		return nil, err
	}
	query = validation.SanitizeInput(query)

	mode := "url"
	target := query
	searched := false
	if !validation.HasURLScheme(query) {
		mode = "search"
		if cached, ok := s.searchCache.Get(query); ok {
			// Re-fetching a known URL is much faster than re-running
			// the search.
			metrics.SearchCacheHits.Inc()
			target = cached
		} else {
			metrics.SearchCacheMisses.Inc()
			target = "ytsearch1:" + query
			searched = true
		}
	}

	outDir := filepath.Join(s.tempDir, s.requestDir(ownerID))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	start := time.Now()
	info, err := s.fetch(ctx, target, outDir)
	metrics.ResolutionDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if err != nil {
		os.RemoveAll(outDir)
		metrics.ResolutionsTotal.WithLabelValues(mode, "error").Inc()
		return nil, err
	}

	filePath, err := locateArtifact(info, outDir)
	if err != nil {
		os.RemoveAll(outDir)
		metrics.ResolutionsTotal.WithLabelValues(mode, "error").Inc()
		return nil, err
	}

	title := info.Title
	if title == "" {
		title = "Unknown"
	}

	sourceURL := info.WebpageURL
	if sourceURL == "" {
		if mode == "url" {
			sourceURL = query
		} else {
			os.RemoveAll(outDir)
			metrics.ResolutionsTotal.WithLabelValues(mode, "error").Inc()
			return nil, fmt.Errorf("%w: could not determine source URL", errors.ErrResolveFailed)
		}
	}

	if searched {
		s.searchCache.Set(query, sourceURL)
	}

	metrics.ResolutionsTotal.WithLabelValues(mode, "ok").Inc()
	s.logger.WithOwner(ownerID).WithFields(map[string]interface{}{
		"title": title,
		"mode":  mode,
	}).Info("Resolved track")

	return &Track{
		Title:     title,
		SourceURL: sourceURL,
		FilePath:  filePath,
	}, nil
}

// CacheStats returns search-cache hit/miss counters
func (s *Service) CacheStats() (hits, misses uint64) {
	return s.searchCache.Stats()
}

// requestDir names a per-request output directory. The owner prefix
// keeps one user's artifacts out of every other handler's path; the
// random suffix separates concurrent requests from the same owner.
func (s *Service) requestDir(ownerID int64) string {
	return fmt.Sprintf("%d_%s", ownerID, uuid.NewString())
}

// fetch runs yt-dlp, downloading and transcoding into outDir while
// dumping metadata JSON on stdout.
func (s *Service) fetch(ctx context.Context, target, outDir string) (*ytInfo, error) {
	args := []string{
		"--dump-json", "--no-simulate",
		"--no-playlist",
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--quiet", "--no-warnings",
		"--output", filepath.Join(outDir, "%(title)s.%(ext)s"),
		target,
	}

	cmd := exec.CommandContext(ctx, s.ytDlpPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cause := lastLine(stderr.String())
		if cause == "" {
			cause = err.Error()
		}
		s.logger.WithError(err).WithField("target", target).Error("yt-dlp fetch failed")
		return nil, fmt.Errorf("%w: %s", errors.ErrResolveFailed, cause)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no results", errors.ErrNoResults)
	}

	// Search targets may dump one JSON object per line; the first entry
	// is the best-ranked match.
	if idx := bytes.IndexByte(out, '\n'); idx > 0 {
		out = out[:idx]
	}

	var info ytInfo
	if err := json.Unmarshal(out, &info); err != nil {
		s.logger.WithError(err).Error("Failed to parse yt-dlp output")
		return nil, fmt.Errorf("%w: unreadable fetcher output", errors.ErrResolveFailed)
	}

	return &info, nil
}

// locateArtifact finds the transcoded file. yt-dlp reports the final
// post-processed path in requested_downloads; scanning the directory is
// the fallback for older output layouts.
func locateArtifact(info *ytInfo, outDir string) (string, error) {
	for _, d := range info.RequestedDownloads {
		if d.Filepath == "" {
			continue
		}
		if _, err := os.Stat(d.Filepath); err == nil {
			return d.Filepath, nil
		}
	}

	dirEntries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("%w: output directory unreadable", errors.ErrResolveFailed)
	}
	for _, entry := range dirEntries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".mp3") {
			return filepath.Join(outDir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("%w: no audio produced", errors.ErrResolveFailed)
}

// lastLine returns the last non-empty line of s; yt-dlp prints its
// ERROR summary there.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
