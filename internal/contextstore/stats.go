package contextstore

import "fmt"

// Stats summarises the size of every tier.
type Stats struct {
	TrackedProjects  int
	ProjectRecords   int
	ProjectContext   int
	GlobalKeys       int
	SessionHistory   int
	CachedPlans      int
	PlanChars        int
	PriorityEntries  int
	PriorityChars    int
	CorruptRecords   int
	CurrentProjectID string
}

// Stats counts the entries of every tier. Counting loads do not modify
// any record.
func (s *Service) Stats() (*Stats, error) {
	ids, err := s.store.ListProjectIDs()
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	g, _ := s.store.LoadGlobal()
	p, _ := s.store.LoadProject(s.projectID)
	plans, _ := s.store.LoadPlans()
	pc, _ := s.store.LoadPriority()

	st := &Stats{
		TrackedProjects:  len(g.AllProjects),
		ProjectRecords:   len(ids),
		ProjectContext:   len(p.Context),
		GlobalKeys:       len(g.GlobalCache),
		SessionHistory:   len(g.SessionHistory),
		CachedPlans:      len(plans),
		PriorityEntries:  len(pc),
		CurrentProjectID: s.projectID,
	}
	for _, pl := range plans {
		st.PlanChars += pl.SizeChars
	}
	for _, e := range pc {
		st.PriorityChars += e.SizeChars
	}
	st.CorruptRecords = s.store.CorruptRecords()
	return st, nil
}
