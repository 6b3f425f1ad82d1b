package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestStorage(t *testing.T, maxSounds int) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "sounds.json"), maxSounds)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndFindSound(t *testing.T) {
	s := newTestStorage(t, 0)

	added, err := s.AddSound("g1", "https://cdn.example.com/a.mp3", "Airhorn", "https://example.com/a")
	if err != nil {
		t.Fatalf("AddSound: %v", err)
	}
	if added.ID == "" {
		t.Error("added sound has no ID")
	}

	byID, err := s.FindSound("g1", added.ID)
	if err != nil {
		t.Fatalf("FindSound by ID: %v", err)
	}
	if byID == nil || byID.SourceURL != "https://cdn.example.com/a.mp3" {
		t.Errorf("FindSound by ID = %+v", byID)
	}

	byTitle, err := s.FindSound("g1", "airhorn")
	if err != nil {
		t.Fatalf("FindSound by title: %v", err)
	}
	if byTitle == nil || byTitle.ID != added.ID {
		t.Error("title lookup should be case-insensitive")
	}
}

func TestFindSoundAbsent(t *testing.T) {
	s := newTestStorage(t, 0)

	got, err := s.FindSound("g1", "nothing")
	if err != nil {
		t.Fatalf("FindSound: %v", err)
	}
	if got != nil {
		t.Errorf("FindSound = %+v, want nil", got)
	}
}

func TestAddSoundDuplicate(t *testing.T) {
	s := newTestStorage(t, 0)

	if _, err := s.AddSound("g1", "url", "First", "page"); err != nil {
		t.Fatalf("AddSound: %v", err)
	}
	_, err := s.AddSound("g1", "url", "Second", "page")
	if !errors.Is(err, ErrDuplicateSound) {
		t.Errorf("err = %v, want ErrDuplicateSound", err)
	}

	// Same URL in another guild is fine.
	if _, err := s.AddSound("g2", "url", "First", "page"); err != nil {
		t.Errorf("AddSound in other guild: %v", err)
	}
}

func TestAddSoundEvictsOldest(t *testing.T) {
	s := newTestStorage(t, 2)

	if _, err := s.AddSound("g1", "url-1", "One", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddSound("g1", "url-2", "Two", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddSound("g1", "url-3", "Three", ""); err != nil {
		t.Fatal(err)
	}

	count, err := s.CountSounds("g1")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	oldest, err := s.FindSound("g1", "One")
	if err != nil {
		t.Fatal(err)
	}
	if oldest != nil {
		t.Error("oldest sound should have been evicted")
	}
}

func TestAddSoundConcurrent(t *testing.T) {
	s := newTestStorage(t, 0)

	const adds = 20
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.AddSound("g1", fmt.Sprintf("url-%d", i), fmt.Sprintf("Sound %d", i), ""); err != nil {
				t.Errorf("AddSound #%d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	count, err := s.CountSounds("g1")
	if err != nil {
		t.Fatal(err)
	}
	if count != adds {
		t.Errorf("count = %d, want %d (concurrent adds must not drop records)", count, adds)
	}
}

func TestListSoundsMostRecentFirst(t *testing.T) {
	s := newTestStorage(t, 0)

	base := time.Now()
	for i, title := range []string{"One", "Two", "Three"} {
		stamp := base.Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return stamp }
		if _, err := s.AddSound("g1", "url-"+title, title, ""); err != nil {
			t.Fatal(err)
		}
	}

	sounds, err := s.ListSounds("g1")
	if err != nil {
		t.Fatalf("ListSounds: %v", err)
	}
	if len(sounds) != 3 {
		t.Fatalf("len = %d, want 3", len(sounds))
	}
	if sounds[0].Title != "Three" || sounds[2].Title != "One" {
		t.Errorf("order = [%s %s %s], want most-recent-first", sounds[0].Title, sounds[1].Title, sounds[2].Title)
	}
}

func TestRemoveSound(t *testing.T) {
	s := newTestStorage(t, 0)

	added, err := s.AddSound("g1", "url", "Airhorn", "")
	if err != nil {
		t.Fatal(err)
	}

	removed, err := s.RemoveSound("g1", added.ID)
	if err != nil {
		t.Fatalf("RemoveSound: %v", err)
	}
	if !removed {
		t.Error("RemoveSound = false, want true")
	}

	removed, err = s.RemoveSound("g1", added.ID)
	if err != nil {
		t.Fatal(err)
	}
	if removed {
		t.Error("second RemoveSound = true, want false")
	}

	count, _ := s.CountSounds("g1")
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestCommandHistory(t *testing.T) {
	s := newTestStorage(t, 0)

	for i := 0; i < commandHistoryLimit+5; i++ {
		err := s.AppendCommandToHistory("g1", CommandHistoryRecord{
			Command:  "play",
			Username: "tester",
			Datetime: time.Now(),
		})
		if err != nil {
			t.Fatalf("AppendCommandToHistory: %v", err)
		}
	}

	history, err := s.FetchCommandHistory("g1")
	if err != nil {
		t.Fatalf("FetchCommandHistory: %v", err)
	}
	if len(history) > commandHistoryLimit {
		t.Errorf("history length = %d, want at most %d", len(history), commandHistoryLimit)
	}
}
