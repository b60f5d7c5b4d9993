package contextstore

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/context-store/internal/records"
)

// StorePriorityContent upserts a priority entry. Priority entries are never
// removed and the tier is not capped.
func (s *Service) StorePriorityContent(id, content, description string) (string, error) {
	pc, _ := s.store.LoadPriority()
	size := CharCount(content)
	pc[id] = records.PriorityEntry{
		Content:     content,
		Description: description,
		Priority:    PriorityLevel,
		StoredAt:    records.Now(),
		SizeChars:   size,
	}
	if err := s.store.SavePriority(pc); err != nil {
		return "", saveErr("priority content", err)
	}
	return fmt.Sprintf("Stored priority '%s' (%s chars) - NEVER deleted", id, formatChars(size)), nil
}

// GetPriorityContent returns one entry's content, or a listing when id is
// empty.
func (s *Service) GetPriorityContent(id string) string {
	pc, _ := s.store.LoadPriority()
	if id != "" {
		if e, ok := pc[id]; ok {
			return e.Content
		}
		return "Not found: " + id
	}
	if len(pc) == 0 {
		return "No priority content"
	}

	lines := make([]string, 0, len(pc))
	for _, k := range sortedKeys(pc) {
		e := pc[k]
		lines = append(lines, fmt.Sprintf("- %s: %s (%s chars)", k, e.Description, formatChars(e.SizeChars)))
	}
	return strings.Join(lines, "\n")
}

// MatchPriority returns the ids of priority entries whose id or description
// contains any of terms, ignoring case. Empty terms are ignored.
func (s *Service) MatchPriority(terms ...string) ([]string, records.PriorityContent) {
	pc, _ := s.store.LoadPriority()

	var lowered []string
	for _, t := range terms {
		if t != "" {
			lowered = append(lowered, strings.ToLower(t))
		}
	}

	var ids []string
	for _, k := range sortedKeys(pc) {
		key := strings.ToLower(k)
		desc := strings.ToLower(pc[k].Description)
		for _, t := range lowered {
			if strings.Contains(key, t) || strings.Contains(desc, t) {
				ids = append(ids, k)
				break
			}
		}
	}
	return ids, pc
}
