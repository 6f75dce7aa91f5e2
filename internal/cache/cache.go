// Package cache stores JSON documents on disk with a time-to-live, keyed by a hash of their request.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/tubecycle/tubecycle/filesystem"
	"github.com/tubecycle/tubecycle/log"
	"github.com/tubecycle/tubecycle/where"
)

// MaxAge bounds how long any entry survives garbage collection.
const MaxAge = 7 * 24 * time.Hour

// Key derives a deterministic identifier from the request parts.
func Key(parts ...string) string {
	sanitized := strings.ToLower(strings.Join(parts, "\x1f"))
	hash := sha256.Sum256([]byte(sanitized))
	return hex.EncodeToString(hash[:])
}

func path(key string) string {
	return filepath.Join(where.Searches(), key+".json")
}

// Read decodes the entry into target if it exists and is younger than ttl.
func Read(key string, ttl time.Duration, target any) bool {
	if ttl <= 0 {
		return false
	}

	afs := filesystem.API()
	p := path(key)

	info, err := afs.Stat(p)
	if err != nil || time.Since(info.ModTime()) > ttl {
		return false
	}

	data, err := afs.ReadFile(p)
	if err != nil {
		return false
	}

	if err := json.Unmarshal(data, target); err != nil {
		log.Warnf("cache: corrupt entry %s: %v", key, err)
		_ = afs.Remove(p)
		return false
	}
	return true
}

// Write stores data under key, swapping a temporary file into place.
func Write(key string, data any) error {
	afs := filesystem.API()
	p := path(key)
	tmp := p + ".tmp"

	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if err := afs.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}

	return afs.Rename(tmp, p)
}

// CollectGarbage removes entries older than MaxAge in the background.
func CollectGarbage() {
	go func() {
		removed := Prune(MaxAge)
		if removed > 0 {
			log.Infof("cache: removed %d stale entries", removed)
		}
	}()
}

// Prune synchronously removes entries older than age and reports how many were removed.
func Prune(age time.Duration) int {
	afs := filesystem.API()
	var removed int

	_ = afs.Walk(where.Searches(), func(p string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if time.Since(info.ModTime()) > age {
			if afs.Remove(p) == nil {
				removed++
			}
		}
		return nil
	})

	return removed
}

// Size reports the total bytes held by the cache directory.
func Size() int64 {
	var total int64
	_ = filesystem.API().Walk(where.Searches(), func(_ string, info fs.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total
}
