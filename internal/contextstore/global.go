package contextstore

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/context-store/internal/records"
)

// StoreGlobal upserts key in the cross-project cache.
func (s *Service) StoreGlobal(key, value string) (string, error) {
	g, _ := s.store.LoadGlobal()
	g.GlobalCache[key] = records.GlobalCacheEntry{
		Value:    value,
		StoredAt: records.Now(),
	}
	if err := s.store.SaveGlobal(g); err != nil {
		return "", saveErr("global cache", err)
	}
	return fmt.Sprintf("Stored '%s' in global cache (available everywhere)", key), nil
}

// GetGlobal returns one global value, or a listing when key is empty.
func (s *Service) GetGlobal(key string) string {
	g, _ := s.store.LoadGlobal()
	if key != "" {
		if e, ok := g.GlobalCache[key]; ok {
			return e.Value
		}
		return "Global key not found: " + key
	}
	if len(g.GlobalCache) == 0 {
		return "No global cache"
	}

	lines := make([]string, 0, len(g.GlobalCache))
	for _, k := range sortedKeys(g.GlobalCache) {
		lines = append(lines, fmt.Sprintf("[%s]: %s", k, Truncate(g.GlobalCache[k].Value, ListValueChars)))
	}
	return strings.Join(lines, "\n")
}
