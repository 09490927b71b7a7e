// Package localstore persists whole JSON-encoded collections under fixed
// keys. Every Save overwrites the full blob for its key; there is no
// incremental write path.
package localstore

import (
	"log"
	"os"
)

// Keys for the persisted collections. Names kept stable with the stored
// blob format so existing data directories keep working across versions.
const (
	KeyRecords  = "brigif_data_v3"
	KeyUnits    = "brigif_units_v3"
	KeyNotifs   = "brigif_notifs_v3"
	KeyLampiran = "brigif_lampiran_v3"
	KeyTheme    = "app_theme"
)

// Store is a key to JSON-blob store.
type Store interface {
	// Load returns the blob for key; ok is false when the key has never
	// been written.
	Load(key string) (data []byte, ok bool, err error)
	// Save overwrites the blob for key.
	Save(key string, data []byte) error
}

// Open picks the backend from the environment: Postgres when DB_DSN is
// set, otherwise JSON files under DATA_DIR (default "data").
func Open() Store {
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		s, err := OpenGorm(dsn)
		if err != nil {
			log.Fatalf("failed to connect postgres storage: %v", err)
		}
		return s
	}
	dir := os.Getenv("DATA_DIR")
	if dir == "" {
		dir = "data"
	}
	s, err := OpenFile(dir)
	if err != nil {
		log.Fatalf("failed to open data dir %s: %v", dir, err)
	}
	return s
}
