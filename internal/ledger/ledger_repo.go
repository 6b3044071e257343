package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	ledgererrors "leaveline/internal/ledger/errors"
	"leaveline/internal/shared/apperror"
)

type Repository interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
}

// fileRepository keeps the whole ledger as one JSON document on disk.
// Every Save replaces the full snapshot; there is no partial write.
type fileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) Repository {
	return &fileRepository{path: path}
}

func wrapUnavailable(err error) error {
	return apperror.Wrap(err,
		ledgererrors.ErrLedgerUnavailable.Code,
		ledgererrors.ErrLedgerUnavailable.Message,
		ledgererrors.ErrLedgerUnavailable.HTTPStatus,
	)
}

func (r *fileRepository) Load(_ context.Context) (Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, nil
		}
		return nil, wrapUnavailable(err)
	}

	if len(raw) == 0 {
		return Document{}, nil
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		// A half-written snapshot must surface as a recoverable fatal,
		// never be silently reset to an empty ledger.
		return nil, apperror.Wrap(err,
			ledgererrors.ErrLedgerCorrupt.Code,
			ledgererrors.ErrLedgerCorrupt.Message,
			ledgererrors.ErrLedgerCorrupt.HTTPStatus,
		)
	}
	return doc, nil
}

func (r *fileRepository) Save(_ context.Context, doc Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return wrapUnavailable(err)
	}

	// Write-then-rename keeps the previous snapshot intact if the
	// process dies mid-write.
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".ledger-*.json")
	if err != nil {
		return wrapUnavailable(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return wrapUnavailable(err)
	}
	if err := tmp.Close(); err != nil {
		return wrapUnavailable(err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return wrapUnavailable(err)
	}
	return nil
}
