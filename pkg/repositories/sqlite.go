package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cbodonnell/snake/pkg/repositories/models"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if err := migrate(ctx, db, migrations); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func migrate(ctx context.Context, db *sql.DB, migrations string) error {
	files, err := readMigrations(migrations)
	if err != nil {
		return err
	}

	for _, m := range files {
		if _, err := db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("failed to execute migration %s: %v", m.path, err)
		}
	}

	return nil
}

type migration struct {
	path string
	sql  string
}

// readMigrations returns the .sql files of a directory in name order.
func readMigrations(migrations string) ([]migration, error) {
	dir, err := os.ReadDir(migrations)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}
	sort.Slice(dir, func(i, j int) bool { return dir[i].Name() < dir[j].Name() })

	files := make([]migration, 0, len(dir))
	for _, entry := range dir {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}

		migrationPath := filepath.Join(migrations, entry.Name())
		b, err := os.ReadFile(migrationPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}
		files = append(files, migration{path: migrationPath, sql: string(b)})
	}

	return files, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveGameResult(ctx context.Context, result *models.GameResult) error {
	q := `
	INSERT OR REPLACE INTO game_results (session_id, grid_size, score, length, ticks, ended_at)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, result.SessionID, result.GridSize, result.Score, result.Length, result.Ticks, result.EndedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert game result: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) GetGameResult(ctx context.Context, sessionID string) (*models.GameResult, error) {
	q := `
	SELECT session_id, grid_size, score, length, ticks, ended_at FROM game_results WHERE session_id = ?;
	`
	result, err := scanGameResult(r.db.QueryRowContext(ctx, q, sessionID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan game result: %v", err)
	}

	return result, nil
}

func (r *SQLiteRepository) ListTopScores(ctx context.Context, limit int) ([]*models.GameResult, error) {
	q := `
	SELECT session_id, grid_size, score, length, ticks, ended_at FROM game_results
	ORDER BY score DESC, ended_at ASC
	LIMIT ?;
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %v", err)
	}
	defer rows.Close()

	results := make([]*models.GameResult, 0)
	for rows.Next() {
		result, err := scanGameResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game result: %v", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game results: %v", err)
	}

	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGameResult(row scanner) (*models.GameResult, error) {
	result := &models.GameResult{}
	var endedAt int64
	if err := row.Scan(&result.SessionID, &result.GridSize, &result.Score, &result.Length, &result.Ticks, &endedAt); err != nil {
		return nil, err
	}
	result.EndedAt = time.UnixMilli(endedAt).UTC()
	return result, nil
}
