package store

import (
	"time"

	"github.com/hupe1980/agenthub/core"
)

// SampleDescriptors returns the development agent catalog. It covers every
// constructor in the default agent table and carries Polish display names so
// localized switch notifications have something to show.
func SampleDescriptors() []core.AgentDescriptor {
	return []core.AgentDescriptor{
		{
			ID:       "agent-default",
			Name:     core.DefaultAgentName,
			Keywords: []string{"default", "chat"},
			DisplayName: map[string]string{
				"en": "Assistant",
				"pl": "Asystent",
			},
		},
		{
			ID:       "agent-configuration",
			Name:     core.ConfigurationAgentName,
			Keywords: []string{"configuration", "setup"},
			DisplayName: map[string]string{
				"en": "Setup",
				"pl": "Konfiguracja",
			},
		},
		{
			ID:       "agent-time",
			Name:     "time",
			Keywords: []string{"time", "clock"},
			DisplayName: map[string]string{
				"en": "Time",
				"pl": "Czas",
			},
		},
		{
			ID:       "agent-weather",
			Name:     "weather",
			Keywords: []string{"weather", "forecast"},
			DisplayName: map[string]string{
				"en": "Weather",
				"pl": "Pogoda",
			},
		},
	}
}

// SampleSchedules returns development schedule rows matching the sample
// catalog.
func SampleSchedules() []core.Schedule {
	return []core.Schedule{
		{
			ID:      "schedule-morning-weather",
			UserID:  "sample-user",
			AgentID: "agent-weather",
			At:      7 * time.Hour,
			Prompt:  "weather",
		},
	}
}

// NewSampleStore returns an in-memory store seeded with the sample catalog
// and schedules, ready for examples and tests.
func NewSampleStore() *InMemoryStore {
	st := NewInMemoryStore()
	st.SeedDescriptors(SampleDescriptors()...)
	st.SeedSchedules(SampleSchedules()...)
	return st
}
