package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/dadrock/internal/models"
	"github.com/desertthunder/dadrock/internal/shared"
)

const videoColumns = `id, sequence, song, artist, youtube_url, thumbnail, created_at`

// VideoRepository implements [models.VideoStore] on SQLite.
//
// The youtube_url column carries a UNIQUE index, so concurrent writers racing on the same
// URL see [shared.ErrAlreadyExists] instead of creating a duplicate.
type VideoRepository struct {
	db *sql.DB
}

// NewVideoRepository creates a new VideoRepository with the given database connection
func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a new [models.Video] with generated ID and sequence.
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	if video.ID() == "" {
		video.SetID(shared.GenerateID())
	}

	if err := video.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := NextSequence(ctx, tx, "videos")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `
		INSERT INTO videos (` + videoColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		video.ID(),
		sequence,
		video.Song(),
		video.Artist(),
		video.YouTubeURL(),
		video.Thumbnail(),
		video.CreatedAt(),
	)
	if shared.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", shared.ErrAlreadyExists, video.YouTubeURL())
	}
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit video insert: %w", err)
	}

	video.SetSequence(sequence)
	return nil
}

// Update applies a partial edit to the video with the given ID and returns the stored result.
func (r *VideoRepository) Update(ctx context.Context, id string, update models.VideoUpdate) (*models.Video, error) {
	if update.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", shared.ErrInvalidInput)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	video, err := r.scanOne(tx.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	update.Apply(video)
	if err := video.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE videos
		SET song = ?, artist = ?, youtube_url = ?, thumbnail = ?
		WHERE id = ?
	`

	_, err = tx.ExecContext(ctx, query, video.Song(), video.Artist(), video.YouTubeURL(), video.Thumbnail(), id)
	if shared.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: %s", shared.ErrAlreadyExists, video.YouTubeURL())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit video update: %w", err)
	}
	return video, nil
}

// Delete removes the video with the given ID.
func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Get retrieves a video by ID.
func (r *VideoRepository) Get(ctx context.Context, id string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindByURL retrieves a video by its exact canonical URL.
func (r *VideoRepository) FindByURL(ctx context.Context, url string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE youtube_url = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, url))
}

// ExistsByURL reports whether a video with the exact canonical URL is stored.
func (r *VideoRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM videos WHERE youtube_url = ?)", url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check video existence: %w", err)
	}
	return exists, nil
}

// List returns one page of videos matching q in insertion order, and the total match count.
func (r *VideoRepository) List(ctx context.Context, q models.VideoQuery) ([]*models.Video, int, error) {
	where := ""
	args := []any{}

	if q.Search != "" {
		pattern := likePattern(q.Search)
		switch q.SearchType {
		case models.SearchSong:
			where = ` WHERE song LIKE ? ESCAPE '\'`
			args = append(args, pattern)
		case models.SearchArtist:
			where = ` WHERE artist LIKE ? ESCAPE '\'`
			args = append(args, pattern)
		default:
			where = ` WHERE (song LIKE ? ESCAPE '\' OR artist LIKE ? ESCAPE '\')`
			args = append(args, pattern, pattern)
		}
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	skip := max(q.Skip, 0)

	query := `SELECT ` + videoColumns + ` FROM videos` + where + ` ORDER BY sequence ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, skip)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	videos := []*models.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, 0, err
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}

	return videos, total, nil
}

// Stats counts stored videos and distinct artists.
func (r *VideoRepository) Stats(ctx context.Context) (*models.CatalogStats, error) {
	var stats models.CatalogStats
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COUNT(DISTINCT artist) FROM videos`).Scan(&stats.TotalVideos, &stats.TotalArtists)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return &stats, nil
}

// scanOne scans a single [sql.Row] into a [models.Video]
func (r *VideoRepository) scanOne(row *sql.Row) (*models.Video, error) {
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	return video, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(s scanner) (*models.Video, error) {
	var (
		id         string
		sequence   int
		song       string
		artist     string
		youtubeURL string
		thumbnail  string
		createdAt  time.Time
	)

	err := s.Scan(&id, &sequence, &song, &artist, &youtubeURL, &thumbnail, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}

	video := models.NewVideo(song, artist, youtubeURL, thumbnail)
	video.SetID(id)
	video.SetSequence(sequence)
	video.SetCreatedAt(createdAt)
	return video, nil
}
