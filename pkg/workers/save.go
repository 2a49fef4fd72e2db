package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/repositories"
	"github.com/cbodonnell/snake/pkg/repositories/models"
)

// saveFlushTimeout bounds the writes of pending results after the worker is stopped
const saveFlushTimeout = 5 * time.Second

type SaveGameResultWorker struct {
	repository         repositories.Repository
	saveGameResultChan <-chan SaveGameResultRequest
}

type NewSaveGameResultWorkerOptions struct {
	Repository         repositories.Repository
	SaveGameResultChan <-chan SaveGameResultRequest
}

type SaveGameResultRequest struct {
	Result *models.GameResult
}

// NewSaveGameResultWorker creates a new SaveGameResultWorker.
// The worker records the results of finished games sent by the sessions.
func NewSaveGameResultWorker(opts NewSaveGameResultWorkerOptions) *SaveGameResultWorker {
	return &SaveGameResultWorker{
		repository:         opts.Repository,
		saveGameResultChan: opts.SaveGameResultChan,
	}
}

func (w *SaveGameResultWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.flush()
			return
		case saveRequest := <-w.saveGameResultChan:
			w.saveGameResult(ctx, saveRequest)
		}
	}
}

// flush saves the requests that were already buffered when the worker was stopped.
func (w *SaveGameResultWorker) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), saveFlushTimeout)
	defer cancel()

	for {
		select {
		case saveRequest := <-w.saveGameResultChan:
			w.saveGameResult(ctx, saveRequest)
		default:
			return
		}
	}
}

func (w *SaveGameResultWorker) saveGameResult(ctx context.Context, saveRequest SaveGameResultRequest) {
	if saveRequest.Result == nil {
		log.Warn("Received save request without a result")
		return
	}

	if err := w.repository.SaveGameResult(ctx, saveRequest.Result); err != nil {
		log.Error("Failed to save game result for session %s: %v", saveRequest.Result.SessionID, err)
		return
	}
	log.Debug("Saved game result for session %s with score %d", saveRequest.Result.SessionID, saveRequest.Result.Score)
}
