package storage

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicateSound is returned by AddSound when the guild already has a
// sound with the same source URL.
var ErrDuplicateSound = errors.New("sound already exists for this guild")

// SoundRecord is one entry in a guild's sound library.
type SoundRecord struct {
	ID        string    `json:"id"`
	SourceURL string    `json:"source_url"`
	Title     string    `json:"title"`
	PageURL   string    `json:"page_url"`
	AddedAt   time.Time `json:"added_at"`
}

// AddSound stores a new sound for the guild. Duplicate source URLs return
// ErrDuplicateSound. When the library is full the oldest sound is evicted.
func (s *Storage) AddSound(guildID, sourceURL, title, pageURL string) (*SoundRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}

	for _, snd := range record.Sounds {
		if snd.SourceURL == sourceURL {
			return nil, ErrDuplicateSound
		}
	}

	sound := SoundRecord{
		ID:        uuid.NewString(),
		SourceURL: sourceURL,
		Title:     title,
		PageURL:   pageURL,
		AddedAt:   s.now(),
	}
	record.Sounds = append(record.Sounds, sound)

	// Evict oldest on overflow. Sounds are appended in order, so the
	// front of the slice is the oldest.
	if len(record.Sounds) > s.maxSounds {
		record.Sounds = record.Sounds[len(record.Sounds)-s.maxSounds:]
	}

	s.ds.Add(guildID, record)
	return &sound, nil
}

// ListSounds returns the guild's sounds most-recent-first, bounded to the
// list limit.
func (s *Storage) ListSounds(guildID string) ([]SoundRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}

	sounds := record.Sounds
	out := make([]SoundRecord, 0, len(sounds))
	for i := len(sounds) - 1; i >= 0 && len(out) < soundListLimit; i-- {
		out = append(out, sounds[i])
	}
	return out, nil
}

// FindSound looks a sound up by ID or case-insensitive title.
func (s *Storage) FindSound(guildID, nameOrID string) (*SoundRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}

	for i := range record.Sounds {
		if record.Sounds[i].ID == nameOrID {
			return &record.Sounds[i], nil
		}
	}
	for i := range record.Sounds {
		if strings.EqualFold(record.Sounds[i].Title, nameOrID) {
			return &record.Sounds[i], nil
		}
	}
	return nil, nil
}

// RemoveSound deletes a sound by ID. Reports whether a sound was removed.
func (s *Storage) RemoveSound(guildID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return false, err
	}

	for i, snd := range record.Sounds {
		if snd.ID == id {
			record.Sounds = append(record.Sounds[:i], record.Sounds[i+1:]...)
			s.ds.Add(guildID, record)
			return true, nil
		}
	}
	return false, nil
}

// CountSounds returns how many sounds the guild has stored.
func (s *Storage) CountSounds(guildID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return 0, err
	}
	return len(record.Sounds), nil
}
