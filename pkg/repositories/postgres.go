package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	// pgx.Conn is not safe for concurrent use
	lock sync.Mutex
	conn *pgx.Conn
}

// NewPostgresRepository connects to the database and applies the migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (Repository, error) {
	conn, err := connectDb(ctx, connStr)
	if err != nil {
		return nil, err
	}

	files, err := readMigrations(migrations)
	if err != nil {
		conn.Close(ctx)
		return nil, err
	}
	for _, m := range files {
		// without arguments pgx uses the simple protocol, which allows several statements
		if _, err := conn.Exec(ctx, m.sql); err != nil {
			conn.Close(ctx)
			return nil, fmt.Errorf("failed to execute migration %s: %v", m.path, err)
		}
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func connectDb(ctx context.Context, connStr string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("unable to query database: %v", err)
	}

	log.Info("Connected to %s as %s", database, username)

	return conn, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveGameResult(ctx context.Context, result *models.GameResult) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	q := `
	INSERT INTO game_results (session_id, grid_size, score, length, ticks, ended_at) VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (session_id) DO UPDATE SET grid_size = $2, score = $3, length = $4, ticks = $5, ended_at = $6;
	`
	_, err := r.conn.Exec(ctx, q, result.SessionID, result.GridSize, result.Score, result.Length, result.Ticks, result.EndedAt)
	if err != nil {
		return fmt.Errorf("failed to insert game result: %v", err)
	}

	return nil
}

func (r *PostgresRepository) GetGameResult(ctx context.Context, sessionID string) (*models.GameResult, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	q := `
	SELECT session_id, grid_size, score, length, ticks, ended_at FROM game_results WHERE session_id = $1;
	`
	result := &models.GameResult{}
	err := r.conn.QueryRow(ctx, q, sessionID).Scan(&result.SessionID, &result.GridSize, &result.Score, &result.Length, &result.Ticks, &result.EndedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan game result: %v", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListTopScores(ctx context.Context, limit int) ([]*models.GameResult, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	q := `
	SELECT session_id, grid_size, score, length, ticks, ended_at FROM game_results
	ORDER BY score DESC, ended_at ASC
	LIMIT $1;
	`
	rows, err := r.conn.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %v", err)
	}
	defer rows.Close()

	results := make([]*models.GameResult, 0)
	for rows.Next() {
		result := &models.GameResult{}
		if err := rows.Scan(&result.SessionID, &result.GridSize, &result.Score, &result.Length, &result.Ticks, &result.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game result: %v", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game results: %v", err)
	}

	return results, nil
}
