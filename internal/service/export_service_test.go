package service

import (
	"alcyxob/fitness-tracker/internal/identity"
	"alcyxob/fitness-tracker/internal/repository/sqlite"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestExportHistoryDisabled(t *testing.T) {
	svc := NewExportService(sqlite.NewHistoryRepository(newStore(t)), nil, nil, discard)
	if _, err := svc.ExportHistory(context.Background()); !errors.Is(err, ErrExportDisabled) {
		t.Fatalf("expected ErrExportDisabled, got %v", err)
	}
}

func TestExportHistory(t *testing.T) {
	store := newStore(t)
	repo := sqlite.NewHistoryRepository(store)
	ctx := context.Background()
	for _, name := range []string{"Peito", "Costas"} {
		if _, err := repo.RecordCompletedWorkout(ctx, name, 900, benchSession()); err != nil {
			t.Fatalf("RecordCompletedWorkout: %v", err)
		}
	}

	files := &fakeFiles{}
	svc := NewExportService(repo, files, identity.Static("u1"), discard)

	res, err := svc.ExportHistory(ctx)
	if err != nil {
		t.Fatalf("ExportHistory: %v", err)
	}
	if res.Workouts != 2 {
		t.Errorf("expected 2 workouts, got %d", res.Workouts)
	}
	if !strings.HasPrefix(res.ObjectKey, "exports/u1/") || !strings.HasSuffix(res.ObjectKey, ".json") {
		t.Errorf("unexpected object key %q", res.ObjectKey)
	}
	if !strings.Contains(res.DownloadURL, res.ObjectKey) {
		t.Errorf("download url %q does not point at %q", res.DownloadURL, res.ObjectKey)
	}

	var doc HistoryExport
	if err := json.Unmarshal(files.objects[res.ObjectKey], &doc); err != nil {
		t.Fatalf("uploaded body is not JSON: %v", err)
	}
	if doc.UserID != "u1" || len(doc.Workouts) != 2 {
		t.Fatalf("unexpected export document %+v", doc)
	}
	if got := doc.Workouts[0].Exercises[0].Sets; len(got) != 2 {
		t.Fatalf("expected sets in export, got %+v", got)
	}
}

func TestExportHistoryWithoutUser(t *testing.T) {
	files := &fakeFiles{}
	svc := NewExportService(sqlite.NewHistoryRepository(newStore(t)), files, identity.Static(""), discard)

	res, err := svc.ExportHistory(context.Background())
	if err != nil {
		t.Fatalf("ExportHistory: %v", err)
	}
	if !strings.HasPrefix(res.ObjectKey, "exports/local/") || res.Workouts != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestExportHistoryUploadFailure(t *testing.T) {
	files := &fakeFiles{putErr: errors.New("access denied")}
	svc := NewExportService(sqlite.NewHistoryRepository(newStore(t)), files, nil, discard)

	if _, err := svc.ExportHistory(context.Background()); err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Fatalf("expected upload error, got %v", err)
	}
}

func TestExportHistoryPresignFailureRemovesObject(t *testing.T) {
	files := &fakeFiles{presignErr: errors.New("signer unavailable")}
	svc := NewExportService(sqlite.NewHistoryRepository(newStore(t)), files, nil, discard)

	if _, err := svc.ExportHistory(context.Background()); err == nil {
		t.Fatal("expected presign error")
	}
	if len(files.objects) != 0 {
		t.Fatalf("expected the upload to be removed, found %d objects", len(files.objects))
	}
}
