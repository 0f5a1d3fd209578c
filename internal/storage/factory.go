package storage

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sift/internal/common"
	"github.com/ternarybob/sift/internal/interfaces"
	"github.com/ternarybob/sift/internal/storage/badger"
)

// NewStorageManager creates the storage manager for the configured backend.
// Badger is the only backend; the factory keeps the swap point explicit.
func NewStorageManager(logger arbor.ILogger, config *common.Config) (interfaces.StorageManager, error) {
	manager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to create badger storage manager: %w", err)
	}
	return manager, nil
}
