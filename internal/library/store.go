package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"stylus/internal/config"
)

// Store manages library persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the library database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Paths.DatabasePath
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

const trackColumns = `id, path, title, artist, album, genre, label, year, bpm,
    musical_key, isrc, catalog_number, artwork_url, catalog_id,
    duration_seconds, created_at, updated_at`

// AddTrack inserts a new track row and returns the stored record.
func (s *Store) AddTrack(ctx context.Context, track *Track) (*Track, error) {
	if track == nil {
		return nil, errors.New("track is nil")
	}
	if strings.TrimSpace(track.Path) == "" {
		return nil, errors.New("track path is empty")
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO tracks (
            path, title, artist, album, genre, label, year, bpm,
            musical_key, isrc, catalog_number, artwork_url, catalog_id,
            duration_seconds, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		track.Path,
		nullableString(track.Title),
		nullableString(track.Artist),
		nullableString(track.Album),
		nullableString(track.Genre),
		nullableString(track.Label),
		nullableInt64(int64(track.Year)),
		nullableFloat64(track.BPM),
		nullableString(track.Key),
		nullableString(track.ISRC),
		nullableString(track.CatalogNumber),
		nullableString(track.ArtworkURL),
		nullableInt64(track.CatalogID),
		nullableFloat64(track.DurationSeconds),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert track: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetTrack(ctx, id)
}

// GetTrack fetches a track by id. Returns (nil, nil) when no row exists.
func (s *Store) GetTrack(ctx context.Context, id int64) (*Track, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+trackColumns+` FROM tracks WHERE id = ?`, id)
	track, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get track %d: %w", id, err)
	}
	return track, nil
}

// FindByPath fetches a track by file path. Returns (nil, nil) when no row
// exists, letting scans decide between insert and refresh.
func (s *Store) FindByPath(ctx context.Context, path string) (*Track, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+trackColumns+` FROM tracks WHERE path = ?`, path)
	track, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find track by path: %w", err)
	}
	return track, nil
}

// List returns tracks matching the filter ordered by artist then title.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]*Track, error) {
	normalized, ok := ParseListFilter(string(filter))
	if !ok {
		return nil, fmt.Errorf("unknown list filter %q", filter)
	}

	query := `SELECT ` + trackColumns + ` FROM tracks`
	switch normalized {
	case FilterAll:
	case FilterLinked:
		query += ` WHERE catalog_id IS NOT NULL AND catalog_id != 0`
	case FilterUnlinked:
		query += ` WHERE catalog_id IS NULL OR catalog_id = 0`
	case FilterMissingBPM:
		query += ` WHERE bpm IS NULL OR bpm = 0`
	}
	query += ` ORDER BY artist COLLATE NOCASE, title COLLATE NOCASE, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*Track
	for rows.Next() {
		track, scanErr := scanTrack(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan track: %w", scanErr)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	return tracks, nil
}

// UpdateTrack rewrites every metadata column from the given record. Used by
// scans to refresh rows from the file on disk.
func (s *Store) UpdateTrack(ctx context.Context, track *Track) error {
	if track == nil || track.ID == 0 {
		return errors.New("track missing id")
	}

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE tracks SET
            path = ?, title = ?, artist = ?, album = ?, genre = ?, label = ?,
            year = ?, bpm = ?, musical_key = ?, isrc = ?, catalog_number = ?,
            artwork_url = ?, catalog_id = ?, duration_seconds = ?, updated_at = ?
        WHERE id = ?`,
		track.Path,
		nullableString(track.Title),
		nullableString(track.Artist),
		nullableString(track.Album),
		nullableString(track.Genre),
		nullableString(track.Label),
		nullableInt64(int64(track.Year)),
		nullableFloat64(track.BPM),
		nullableString(track.Key),
		nullableString(track.ISRC),
		nullableString(track.CatalogNumber),
		nullableString(track.ArtworkURL),
		nullableInt64(track.CatalogID),
		nullableFloat64(track.DurationSeconds),
		time.Now().UTC().Format(time.RFC3339Nano),
		track.ID,
	)
	if err != nil {
		return fmt.Errorf("update track %d: %w", track.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update track %d: no row", track.ID)
	}
	return nil
}

// UpdateTrackTags applies a partial tag update and records the catalog link.
// Only columns the patch sets are touched; catalog_id and updated_at are
// always written.
func (s *Store) UpdateTrackTags(ctx context.Context, id int64, patch TagPatch, catalogID int64) error {
	if id == 0 {
		return errors.New("track missing id")
	}

	assignments := make([]string, 0, 13)
	args := make([]any, 0, 14)

	if patch.Title != nil {
		assignments = append(assignments, "title = ?")
		args = append(args, nullableString(*patch.Title))
	}
	if patch.Artist != nil {
		assignments = append(assignments, "artist = ?")
		args = append(args, nullableString(*patch.Artist))
	}
	if patch.Album != nil {
		assignments = append(assignments, "album = ?")
		args = append(args, nullableString(*patch.Album))
	}
	if patch.Genre != nil {
		assignments = append(assignments, "genre = ?")
		args = append(args, nullableString(*patch.Genre))
	}
	if patch.Label != nil {
		assignments = append(assignments, "label = ?")
		args = append(args, nullableString(*patch.Label))
	}
	if patch.Year != nil {
		assignments = append(assignments, "year = ?")
		args = append(args, nullableInt64(int64(*patch.Year)))
	}
	if patch.BPM != nil {
		assignments = append(assignments, "bpm = ?")
		args = append(args, nullableFloat64(*patch.BPM))
	}
	if patch.Key != nil {
		assignments = append(assignments, "musical_key = ?")
		args = append(args, nullableString(*patch.Key))
	}
	if patch.ISRC != nil {
		assignments = append(assignments, "isrc = ?")
		args = append(args, nullableString(*patch.ISRC))
	}
	if patch.CatalogNumber != nil {
		assignments = append(assignments, "catalog_number = ?")
		args = append(args, nullableString(*patch.CatalogNumber))
	}
	if patch.ArtworkURL != nil {
		assignments = append(assignments, "artwork_url = ?")
		args = append(args, nullableString(*patch.ArtworkURL))
	}

	assignments = append(assignments, "catalog_id = ?", "updated_at = ?")
	args = append(args, nullableInt64(catalogID), time.Now().UTC().Format(time.RFC3339Nano))
	args = append(args, id)

	query := "UPDATE tracks SET " + strings.Join(assignments, ", ") + " WHERE id = ?"
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update track tags %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update track tags %d: no row", id)
	}
	return nil
}

// Stats returns aggregate library counts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	row := s.db.QueryRowContext(ctx, `
        SELECT
            COUNT(1),
            COALESCE(SUM(CASE WHEN catalog_id IS NOT NULL AND catalog_id != 0 THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN bpm IS NULL OR bpm = 0 THEN 1 ELSE 0 END), 0)
        FROM tracks`)
	if err := row.Scan(&stats.Total, &stats.Linked, &stats.MissingBPM); err != nil {
		return Stats{}, fmt.Errorf("library stats: %w", err)
	}
	return stats, nil
}

// Health runs connectivity and integrity probes against the database.
func (s *Store) Health(ctx context.Context) DatabaseHealth {
	health := DatabaseHealth{DBPath: s.path}

	if _, err := os.Stat(s.path); err == nil {
		health.DatabaseExists = true
	} else if !os.IsNotExist(err) {
		health.Error = fmt.Sprintf("stat database: %v", err)
		return health
	}

	if err := s.db.PingContext(ctx); err != nil {
		health.Error = fmt.Sprintf("ping database: %v", err)
		return health
	}
	health.DatabaseReadable = true

	var tableCount int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='tracks'",
	).Scan(&tableCount); err != nil {
		health.Error = fmt.Sprintf("check tracks table: %v", err)
		return health
	}
	health.TableExists = tableCount > 0
	if !health.TableExists {
		health.Error = "tracks table missing"
		return health
	}

	var integrity string
	if err := s.db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&integrity); err != nil {
		health.Error = fmt.Sprintf("integrity check: %v", err)
		return health
	}
	health.IntegrityCheck = integrity == "ok"
	if !health.IntegrityCheck {
		health.Error = fmt.Sprintf("integrity check: %s", integrity)
		return health
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM tracks").Scan(&health.TotalTracks); err != nil {
		health.Error = fmt.Sprintf("count tracks: %v", err)
	}
	return health
}

func scanTrack(scanner interface{ Scan(dest ...any) error }) (*Track, error) {
	var (
		track         Track
		title         sql.NullString
		artist        sql.NullString
		album         sql.NullString
		genre         sql.NullString
		label         sql.NullString
		year          sql.NullInt64
		bpm           sql.NullFloat64
		musicalKey    sql.NullString
		isrc          sql.NullString
		catalogNumber sql.NullString
		artworkURL    sql.NullString
		catalogID     sql.NullInt64
		duration      sql.NullFloat64
		createdAt     string
		updatedAt     string
	)

	if err := scanner.Scan(
		&track.ID,
		&track.Path,
		&title,
		&artist,
		&album,
		&genre,
		&label,
		&year,
		&bpm,
		&musicalKey,
		&isrc,
		&catalogNumber,
		&artworkURL,
		&catalogID,
		&duration,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	track.Title = title.String
	track.Artist = artist.String
	track.Album = album.String
	track.Genre = genre.String
	track.Label = label.String
	track.Year = int(year.Int64)
	track.BPM = bpm.Float64
	track.Key = musicalKey.String
	track.ISRC = isrc.String
	track.CatalogNumber = catalogNumber.String
	track.ArtworkURL = artworkURL.String
	track.CatalogID = catalogID.Int64
	track.DurationSeconds = duration.Float64
	track.CreatedAt = parseTimeString(createdAt)
	track.UpdatedAt = parseTimeString(updatedAt)

	return &track, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableInt64(value int64) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullableFloat64(value float64) any {
	if value == 0 {
		return nil
	}
	return value
}

func parseTimeString(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed
	}
	if parsed, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
		return parsed
	}
	return time.Time{}
}
