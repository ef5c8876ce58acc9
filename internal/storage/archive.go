package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/hailam/simplechess/internal/movelog"
)

// Result values stored in a GameRecord.
const (
	ResultNone      = "none"
	ResultWhiteWins = "white_wins"
	ResultBlackWins = "black_wins"
	ResultError     = "error"
)

// ErrGameNotFound is returned when no game with the requested ID is archived.
var ErrGameNotFound = errors.New("storage: game not found")

// GameRecord is one finished session.
type GameRecord struct {
	ID        string          `json:"id"`
	Mode      string          `json:"mode"`
	Result    string          `json:"result"`
	Start     string          `json:"start"`
	Entries   []movelog.Entry `json:"entries"`
	StartedAt time.Time       `json:"started_at"`
	EndedAt   time.Time       `json:"ended_at"`
}

// NewGameRecord returns a record with a fresh ID starting now.
func NewGameRecord(mode, start string) GameRecord {
	return GameRecord{
		ID:        uuid.NewString(),
		Mode:      mode,
		Result:    ResultNone,
		Start:     start,
		StartedAt: time.Now(),
	}
}

// Archive keeps finished games.
type Archive interface {
	Save(ctx context.Context, rec GameRecord) error
	Load(ctx context.Context, id string) (GameRecord, error)
	List(ctx context.Context) ([]GameRecord, error)
}

// SaveGame stores rec and folds it into the statistics.
func (s *Storage) SaveGame(rec GameRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := s.putJSON(prefixGame+rec.ID, rec); err != nil {
		return err
	}
	return s.RecordGame(rec)
}

// LoadGame returns the archived game with the given ID.
func (s *Storage) LoadGame(id string) (GameRecord, error) {
	var rec GameRecord
	found, err := s.getJSON(prefixGame+id, &rec)
	if err != nil {
		return GameRecord{}, err
	}
	if !found {
		return GameRecord{}, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return rec, nil
}

// ListGames returns every archived game, most recent first.
func (s *Storage) ListGames() ([]GameRecord, error) {
	var games []GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixGame)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec GameRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			games = append(games, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortRecent(games)
	return games, nil
}

// Local adapts s to the Archive interface.
func (s *Storage) Local() Archive {
	return localArchive{s}
}

type localArchive struct {
	s *Storage
}

func (a localArchive) Save(_ context.Context, rec GameRecord) error {
	return a.s.SaveGame(rec)
}

func (a localArchive) Load(_ context.Context, id string) (GameRecord, error) {
	return a.s.LoadGame(id)
}

func (a localArchive) List(context.Context) ([]GameRecord, error) {
	return a.s.ListGames()
}

func sortRecent(games []GameRecord) {
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].StartedAt.After(games[j].StartedAt)
	})
}
