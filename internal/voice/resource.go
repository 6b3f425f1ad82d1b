package voice

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TempResource is a byte-backed file owned by exactly one playback
// operation. The name combines a timestamp and a UUID so concurrent
// playbacks can never collide.
type TempResource struct {
	path string
	once sync.Once
}

func newTempResource(dir string, data []byte) (*TempResource, error) {
	name := fmt.Sprintf("sound-%d-%s.audio", time.Now().UnixNano(), uuid.NewString())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}
	return &TempResource{path: path}, nil
}

func (r *TempResource) Path() string { return r.path }

// Remove deletes the backing file. Safe to call more than once; the file is
// deleted exactly once.
func (r *TempResource) Remove() {
	r.once.Do(func() {
		if err := os.Remove(r.path); err != nil {
			log.Warn().Str("path", r.path).Err(err).Msg("Failed to remove temporary audio file")
		}
	})
}
