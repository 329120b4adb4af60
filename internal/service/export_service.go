package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/identity"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
)

var ErrExportDisabled = errors.New("history export is not configured")

// HistoryExport is the document written to object storage.
type HistoryExport struct {
	ExportedAt time.Time              `json:"exportedAt"`
	UserID     string                 `json:"userId,omitempty"`
	Workouts   []domain.WorkoutDetail `json:"workouts"`
}

// ExportResult tells the caller where the export landed.
type ExportResult struct {
	ObjectKey   string    `json:"objectKey"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Workouts    int       `json:"workouts"`
}

type ExportService interface {
	ExportHistory(ctx context.Context) (*ExportResult, error)
}

type exportService struct {
	history  repository.WorkoutHistoryRepository
	files    storage.FileStorage
	identity identity.Provider
	expiry   time.Duration
	logger   *log.Logger
}

// NewExportService creates an ExportService. A nil files storage disables
// exports; a nil logger writes to stderr.
func NewExportService(history repository.WorkoutHistoryRepository, files storage.FileStorage, ident identity.Provider, logger *log.Logger) ExportService {
	if logger == nil {
		logger = log.New(os.Stderr, "[export] ", log.LstdFlags)
	}
	if ident == nil {
		ident = identity.FromContext{}
	}
	return &exportService{
		history:  history,
		files:    files,
		identity: ident,
		expiry:   storage.DefaultPresignedURLExpiry,
		logger:   logger,
	}
}

// ExportHistory uploads the full workout history as JSON and returns a
// temporary download link.
func (s *exportService) ExportHistory(ctx context.Context) (*ExportResult, error) {
	if s.files == nil {
		return nil, ErrExportDisabled
	}

	entries, err := s.history.GetWorkoutHistory(ctx)
	if err != nil {
		return nil, err
	}
	doc := HistoryExport{ExportedAt: time.Now().UTC(), Workouts: make([]domain.WorkoutDetail, 0, len(entries))}
	for _, e := range entries {
		detail, err := s.history.GetWorkoutDetail(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("load workout %d: %w", e.ID, err)
		}
		doc.Workouts = append(doc.Workouts, *detail)
	}

	owner := "local"
	if userID, ok := s.identity.CurrentUserID(ctx); ok {
		owner = userID
		doc.UserID = userID
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s-%s.json", owner, doc.ExportedAt.Format("20060102T150405Z"), uuid.NewString())
	if err := s.files.PutObject(ctx, key, "application/json", body); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, key, s.expiry)
	if err != nil {
		// An export nobody can download is just clutter in the bucket.
		if delErr := s.files.DeleteObject(ctx, key); delErr != nil {
			s.logger.Printf("WARN: Failed to remove unreachable export %s: %v", key, delErr)
		}
		return nil, fmt.Errorf("presign export: %w", err)
	}

	s.logger.Printf("INFO: Exported %d workouts to %s", len(doc.Workouts), key)
	return &ExportResult{
		ObjectKey:   key,
		DownloadURL: url,
		ExpiresAt:   time.Now().UTC().Add(s.expiry),
		Workouts:    len(doc.Workouts),
	}, nil
}
