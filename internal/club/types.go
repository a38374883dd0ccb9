package club

import (
	"database/sql"
	"sync"

	"github.com/mauv0809/pingpong-ladder/internal/cache"
)

// store handles all database operations for the ladder.
type store struct {
	db    *sql.DB
	mu    sync.RWMutex
	cache *cache.Store
}

// Cache keys.
const (
	keyAllPlayers = "players:all"
	keyAllMatches = "matches:all"
)
