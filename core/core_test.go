package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentDescriptorValidate(t *testing.T) {
	tests := []struct {
		name    string
		desc    AgentDescriptor
		wantErr bool
	}{
		{"valid", AgentDescriptor{ID: "1", Name: "weather", Keywords: []string{"weather"}}, false},
		{"empty id", AgentDescriptor{Name: "weather", Keywords: []string{"weather"}}, true},
		{"empty name", AgentDescriptor{ID: "1", Keywords: []string{"weather"}}, true},
		{"no keywords", AgentDescriptor{ID: "1", Name: "weather"}, true},
		{"blank keywords", AgentDescriptor{ID: "1", Name: "weather", Keywords: []string{"  ", ""}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAgentDescriptorDisplayNameFor(t *testing.T) {
	d := AgentDescriptor{Name: "weather", DisplayName: map[string]string{"pl": "Pogoda"}}
	assert.Equal(t, "Pogoda", d.DisplayNameFor("pl"))
	assert.Equal(t, "weather", d.DisplayNameFor("en"))
	assert.Equal(t, "weather", d.DisplayNameFor("de"))
}

func TestUserConfigurationComplete(t *testing.T) {
	loc := &Location{Name: "Paris", Lat: 48.85, Lon: 2.35}
	tests := []struct {
		name string
		cfg  UserConfiguration
		want bool
	}{
		{"complete", UserConfiguration{Language: "en", Location: loc}, true},
		{"no language", UserConfiguration{Location: loc}, false},
		{"bad language", UserConfiguration{Language: "english", Location: loc}, false},
		{"uppercase language", UserConfiguration{Language: "EN", Location: loc}, false},
		{"no location", UserConfiguration{Language: "en"}, false},
		{"unnamed location", UserConfiguration{Language: "en", Location: &Location{Lat: 1, Lon: 2}}, false},
		{"ungeocoded location", UserConfiguration{Language: "en", Location: &Location{Name: "Paris"}}, false},
		{"zero latitude only", UserConfiguration{Language: "en", Location: &Location{Name: "Libreville", Lat: 0, Lon: 9.45}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Complete())
		})
	}
}

func TestDefaultSessionKey(t *testing.T) {
	assert.Equal(t, "u1:a1", DefaultSessionKey("u1", "a1"))
}

func TestUnknownAgentError(t *testing.T) {
	err := &UnknownAgentError{Keyword: "nonsense"}
	assert.Equal(t, `unknown agent keyword "nonsense"`, err.Error())
}
