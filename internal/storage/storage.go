package storage

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/keshon/datastore"
)

const (
	commandHistoryLimit = 20
	soundListLimit      = 25
	defaultMaxSounds    = 100
)

// Storage persists per-guild data: the sound library and a short command
// history. One record per guild, keyed by guild ID. The mutex serializes
// the read-modify-write cycles on guild records.
type Storage struct {
	ds        *datastore.DataStore
	maxSounds int
	mu        sync.Mutex
	now       func() time.Time
}

// CommandHistoryRecord logs one executed command.
type CommandHistoryRecord struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	GuildName   string    `json:"guild_name"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Command     string    `json:"command"`
	Datetime    time.Time `json:"datetime"`
}

// Record is everything stored for one guild.
type Record struct {
	Sounds              []SoundRecord          `json:"sounds"`
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
}

// New opens (or creates) the storage file. maxSounds bounds each guild's
// sound library; zero or negative uses the default.
func New(filePath string, maxSounds int) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	if maxSounds <= 0 {
		maxSounds = defaultMaxSounds
	}
	return &Storage{ds: ds, maxSounds: maxSounds, now: time.Now}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// getOrCreateGuildRecord fetches the guild record, creating an empty one
// on first access. Persisted values come back as generic JSON maps, so
// round-trip through JSON to get typed data.
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	data, exists := s.ds.Get(guildID)
	if !exists {
		newRecord := &Record{}
		s.ds.Add(guildID, newRecord)
		return newRecord, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling data: %w", err)
	}

	var record Record
	if err := json.Unmarshal(jsonData, &record); err != nil {
		return nil, fmt.Errorf("error unmarshalling to *Record: %w", err)
	}

	if len(record.CommandsHistoryList) > commandHistoryLimit {
		record.CommandsHistoryList = record.CommandsHistoryList[len(record.CommandsHistoryList)-commandHistoryLimit:]
	}

	return &record, nil
}

// AppendCommandToHistory appends a command history record for a guild.
func (s *Storage) AppendCommandToHistory(guildID string, command CommandHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.CommandsHistoryList = append(record.CommandsHistoryList, command)
	s.ds.Add(guildID, record)
	return nil
}

// FetchCommandHistory returns the guild's recent command history.
func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistoryList, nil
}
