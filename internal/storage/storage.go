package storage

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	prefixGame     = "game/"
)

// UserPreferences stores settings chosen on the start page.
type UserPreferences struct {
	SoundEnabled bool      `json:"sound_enabled"`
	Volume       float64   `json:"volume"`
	LastMode     string    `json:"last_mode"`
	LastHost     string    `json:"last_host"`
	LastPort     int       `json:"last_port"`
	LastPlayed   time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		SoundEnabled: true,
		Volume:       0.5,
		LastMode:     "local",
		LastHost:     "127.0.0.1",
		LastPort:     8000,
		LastPlayed:   time.Now(),
	}
}

// GameStats counts finished sessions.
type GameStats struct {
	GamesPlayed   int            `json:"games_played"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Errors        int            `json:"errors"`
	Abandoned     int            `json:"abandoned"`
	GamesByMode   map[string]int `json:"games_by_mode"`
	TotalMoves    int            `json:"total_moves"`
	LongestGame   int            `json:"longest_game"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		GamesByMode: make(map[string]int),
	}
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the application data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens a database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// OpenInMemory opens a database that is never written to disk.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	_, err := s.getJSON(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	_, err := s.getJSON(keyStats, stats)
	if stats.GamesByMode == nil {
		stats.GamesByMode = make(map[string]int)
	}
	return stats, err
}

// RecordGame updates statistics with a finished game.
func (s *Storage) RecordGame(rec GameRecord) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.GamesByMode[rec.Mode]++
	stats.TotalMoves += len(rec.Entries)
	if len(rec.Entries) > stats.LongestGame {
		stats.LongestGame = len(rec.Entries)
	}
	if !rec.EndedAt.IsZero() && rec.EndedAt.After(rec.StartedAt) {
		stats.TotalPlayTime += rec.EndedAt.Sub(rec.StartedAt)
	}

	switch rec.Result {
	case ResultWhiteWins:
		stats.WhiteWins++
	case ResultBlackWins:
		stats.BlackWins++
	case ResultError:
		stats.Errors++
	default:
		stats.Abandoned++
	}

	return s.SaveStats(stats)
}

// WhiteWinRate returns the share of decided games White won, 0-100.
func (s *GameStats) WhiteWinRate() float64 {
	decided := s.WhiteWins + s.BlackWins
	if decided == 0 {
		return 0
	}
	return float64(s.WhiteWins) / float64(decided) * 100
}

func (s *Storage) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON decodes key into v. found is false when the key is absent, in
// which case v is left untouched.
func (s *Storage) getJSON(key string, v any) (found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}
