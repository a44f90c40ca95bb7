package app

import (
	"fmt"

	"github.com/aanand-mishra/student-crud/internal/config"
	"github.com/aanand-mishra/student-crud/internal/storage"
	"github.com/aanand-mishra/student-crud/internal/storage/memory"
	"github.com/aanand-mishra/student-crud/internal/storage/sqlite"
)

// NewStore opens the backend named in cfg and, when cfg.Storage.Seed is
// set, loads the demo students into it if it is still empty.
func NewStore(cfg config.Storage) (storage.Storage, error) {
	var store storage.Storage

	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		store = db
	case config.BackendMemory, "":
		store = memory.New()
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}

	if !cfg.Seed {
		return store, nil
	}

	existing, err := store.GetStudents()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("seed: list students: %w", err)
	}
	if len(existing) > 0 {
		return store, nil
	}

	if err := storage.Seed(store, storage.SeedStudents()); err != nil {
		store.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}
	return store, nil
}
