package store

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/agenthub/core"
)

// InMemoryStore is a volatile core.Store implementation keeping all records
// in process-local maps. It is safe for concurrent access and best suited
// for tests or ephemeral demo bots. Returned maps and slices are defensive
// copies to prevent external mutation of internal state.
type InMemoryStore struct {
	mu          sync.RWMutex
	descriptors []core.AgentDescriptor
	users       map[string]core.UserConfiguration
	answers     map[string]core.QuestionnaireAnswers // userID + "\x00" + agentID
	records     []core.SessionRecord
	schedules   []core.Schedule
}

var _ core.Store = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:   make(map[string]core.UserConfiguration),
		answers: make(map[string]core.QuestionnaireAnswers),
	}
}

// SeedDescriptors replaces the descriptor catalog. Intended for test and
// demo wiring before registry load.
func (s *InMemoryStore) SeedDescriptors(descriptors ...core.AgentDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.descriptors = append([]core.AgentDescriptor(nil), descriptors...)
}

// SeedSchedules replaces the schedule table.
func (s *InMemoryStore) SeedSchedules(schedules ...core.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = append([]core.Schedule(nil), schedules...)
}

// ListAgentDescriptors implements core.DescriptorLister.
func (s *InMemoryStore) ListAgentDescriptors(_ context.Context) ([]core.AgentDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.AgentDescriptor, len(s.descriptors))
	copy(out, s.descriptors)
	return out, nil
}

// GetUserConfiguration implements core.UserConfigurationStore.
func (s *InMemoryStore) GetUserConfiguration(_ context.Context, userID string) (core.UserConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.users[userID]
	if !ok {
		return core.UserConfiguration{}, core.ErrNotFound
	}
	return cfg, nil
}

// UpdateUserConfiguration implements core.UserConfigurationStore.
func (s *InMemoryStore) UpdateUserConfiguration(_ context.Context, userID string, cfg core.UserConfiguration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = cfg
	return nil
}

// GetQuestionnaireAnswers implements core.QuestionnaireStore.
func (s *InMemoryStore) GetQuestionnaireAnswers(_ context.Context, userID, agentID string) (core.QuestionnaireAnswers, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	qa, ok := s.answers[userID+"\x00"+agentID]
	if !ok {
		return core.QuestionnaireAnswers{Answers: map[string]any{}}, nil
	}
	return cloneAnswers(qa), nil
}

// SaveQuestionnaireAnswers implements core.QuestionnaireStore.
func (s *InMemoryStore) SaveQuestionnaireAnswers(_ context.Context, userID, agentID string, a core.QuestionnaireAnswers) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[userID+"\x00"+agentID] = cloneAnswers(a)
	return nil
}

// Append implements core.SessionStore.
func (s *InMemoryStore) Append(_ context.Context, rec core.SessionRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = core.NewID()
	}
	if rec.SessionKey == "" {
		rec.SessionKey = core.DefaultSessionKey(rec.UserID, rec.AgentID)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	s.records = append(s.records, rec)
	return rec.ID, nil
}

// Read implements core.SessionStore: most-recent-first with filters applied.
func (s *InMemoryStore) Read(_ context.Context, q core.SessionQuery) ([]core.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.SessionRecord
	for i := len(s.records) - 1; i >= 0; i-- {
		rec := s.records[i]
		if rec.UserID != q.UserID || rec.AgentID != q.AgentID {
			continue
		}
		if q.SessionKey != "" && rec.SessionKey != q.SessionKey {
			continue
		}
		if !q.IncludeTool && rec.Role == core.RoleTool {
			continue
		}
		out = append(out, rec)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// LastSessionKey implements core.SessionStore.
func (s *InMemoryStore) LastSessionKey(_ context.Context, userID, agentID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.records) - 1; i >= 0; i-- {
		rec := s.records[i]
		if rec.UserID == userID && rec.AgentID == agentID {
			return rec.SessionKey, nil
		}
	}
	return "", core.ErrNotFound
}

// ListSchedules implements core.ScheduleLister.
func (s *InMemoryStore) ListSchedules(_ context.Context) ([]core.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Schedule, len(s.schedules))
	copy(out, s.schedules)
	return out, nil
}

func cloneAnswers(a core.QuestionnaireAnswers) core.QuestionnaireAnswers {
	answers := make(map[string]any, len(a.Answers))
	for k, v := range a.Answers {
		answers[k] = v
	}
	return core.QuestionnaireAnswers{Answers: answers, Completed: a.Completed}
}
