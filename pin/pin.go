// Package pin persists videos the user pinned together with their cycle timing.
package pin

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tubecycle/tubecycle/filesystem"
	"github.com/tubecycle/tubecycle/log"
	"github.com/tubecycle/tubecycle/timer"
	"github.com/tubecycle/tubecycle/where"
	"golang.org/x/exp/slices"
)

// PinnedVideo is a video saved with the timing it should play with.
type PinnedVideo struct {
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	PlaySeconds  float64   `json:"play_seconds"`
	PauseSeconds float64   `json:"pause_seconds"`
	PinnedAt     time.Time `json:"pinned_at"`
}

// Config converts the saved timing back to a timer config.
func (p *PinnedVideo) Config() timer.Config {
	return timer.FromSeconds(p.PlaySeconds, p.PauseSeconds)
}

func (p *PinnedVideo) String() string {
	return fmt.Sprintf("%s (%gs / %gs)", p.Title, p.PlaySeconds, p.PauseSeconds)
}

var (
	mu     sync.Mutex
	once   sync.Once
	cacher *gache.Cache[map[string]*PinnedVideo]
)

func store() *gache.Cache[map[string]*PinnedVideo] {
	once.Do(func() {
		cacher = gache.New[map[string]*PinnedVideo](
			&gache.Options{
				Path:       where.Pins(),
				FileSystem: &filesystem.GacheFs{},
			},
		)
	})
	return cacher
}

func load() (map[string]*PinnedVideo, error) {
	cached, expired, err := store().Get()
	if err != nil {
		return nil, fmt.Errorf("load pins: %w", err)
	}
	if expired || cached == nil {
		return make(map[string]*PinnedVideo), nil
	}
	return cached, nil
}

func save(pins map[string]*PinnedVideo) error {
	if err := store().Set(pins); err != nil {
		return fmt.Errorf("save pins: %w", err)
	}
	return nil
}

// List returns every pin, oldest first.
func List() ([]*PinnedVideo, error) {
	mu.Lock()
	defer mu.Unlock()

	pins, err := load()
	if err != nil {
		return nil, err
	}

	list := lo.Values(pins)
	slices.SortFunc(list, func(a, b *PinnedVideo) int {
		if c := a.PinnedAt.Compare(b.PinnedAt); c != 0 {
			return c
		}
		return strings.Compare(a.VideoID, b.VideoID)
	})
	return list, nil
}

func Find(id string) (mo.Option[*PinnedVideo], error) {
	mu.Lock()
	defer mu.Unlock()

	pins, err := load()
	if err != nil {
		return mo.None[*PinnedVideo](), err
	}

	if p, ok := pins[id]; ok {
		return mo.Some(p), nil
	}
	return mo.None[*PinnedVideo](), nil
}

// Pin saves v. An existing pin for the same video keeps its PinnedAt.
func Pin(v PinnedVideo) error {
	if v.VideoID == "" {
		return fmt.Errorf("pin: empty video id")
	}
	if err := v.Config().Validate(); err != nil {
		return fmt.Errorf("pin %s: %w", v.VideoID, err)
	}

	mu.Lock()
	defer mu.Unlock()

	pins, err := load()
	if err != nil {
		return err
	}

	if existing, ok := pins[v.VideoID]; ok {
		v.PinnedAt = existing.PinnedAt
	} else if v.PinnedAt.IsZero() {
		v.PinnedAt = time.Now()
	}

	pins[v.VideoID] = &v
	log.Infof("pinned %s (%s)", v.VideoID, v.Title)
	return save(pins)
}

// UpdateTiming replaces the saved timing of a pinned video. Reports whether the video was pinned.
func UpdateTiming(id string, cfg timer.Config) (bool, error) {
	if err := cfg.Validate(); err != nil {
		return false, err
	}

	mu.Lock()
	defer mu.Unlock()

	pins, err := load()
	if err != nil {
		return false, err
	}

	p, ok := pins[id]
	if !ok {
		return false, nil
	}

	p.PlaySeconds = cfg.PlaySeconds()
	p.PauseSeconds = cfg.PauseSeconds()
	return true, save(pins)
}

// Unpin removes a pin. Unknown ids are ignored.
func Unpin(id string) error {
	mu.Lock()
	defer mu.Unlock()

	pins, err := load()
	if err != nil {
		return err
	}

	if _, ok := pins[id]; !ok {
		return nil
	}

	delete(pins, id)
	log.Infof("unpinned %s", id)
	return save(pins)
}

// Clear removes every pin.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	return save(make(map[string]*PinnedVideo))
}
