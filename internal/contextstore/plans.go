package contextstore

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/context-store/internal/records"
)

// CachePlan stores a plan document, replacing any plan with the same name.
func (s *Service) CachePlan(name, content string) (string, error) {
	plans, _ := s.store.LoadPlans()
	size := CharCount(content)
	plans[name] = records.PlanEntry{
		Content:   content,
		CachedAt:  records.Now(),
		SizeChars: size,
	}
	if err := s.store.SavePlans(plans); err != nil {
		return "", saveErr("plan cache", err)
	}
	return fmt.Sprintf("Cached plan '%s' (%s chars)", name, formatChars(size)), nil
}

// GetCachedPlan returns a plan's content.
func (s *Service) GetCachedPlan(name string) string {
	plans, _ := s.store.LoadPlans()
	if p, ok := plans[name]; ok {
		return p.Content
	}
	return "Plan not found: " + name
}

// ListCachedPlans lists plan names with their sizes.
func (s *Service) ListCachedPlans() string {
	plans, _ := s.store.LoadPlans()
	if len(plans) == 0 {
		return "No cached plans"
	}

	lines := make([]string, 0, len(plans))
	for _, name := range sortedKeys(plans) {
		lines = append(lines, fmt.Sprintf("- %s: %s chars", name, formatChars(plans[name].SizeChars)))
	}
	return strings.Join(lines, "\n")
}
