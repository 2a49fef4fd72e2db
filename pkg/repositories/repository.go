package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/cbodonnell/snake/pkg/repositories/models"
)

type Repository interface {
	Close(ctx context.Context) error
	SaveGameResult(ctx context.Context, result *models.GameResult) error
	GetGameResult(ctx context.Context, sessionID string) (*models.GameResult, error)
	ListTopScores(ctx context.Context, limit int) ([]*models.GameResult, error)
}

type ErrNotFound struct {
}

func (e *ErrNotFound) Error() string {
	return "not found"
}

func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}

// NewRepository picks the backing store from the scheme of the database url.
// migrations is the directory of .sql files for that store.
// sqlite://<path> opens a local file, postgres:// and postgresql:// connect to a server.
func NewRepository(ctx context.Context, databaseURL string, migrations string) (Repository, error) {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return NewSQLiteRepository(ctx, strings.TrimPrefix(databaseURL, "sqlite://"), migrations)
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return NewPostgresRepository(ctx, databaseURL, migrations)
	default:
		return nil, fmt.Errorf("unsupported database url: %s", databaseURL)
	}
}
