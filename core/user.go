package core

import "unicode"

// DefaultLanguage is used whenever a user has no configured (or an
// unrecognized) language.
const DefaultLanguage = "en"

// Location is a named geographic point attached to a user's configuration.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// UserConfiguration is the durable onboarding record owned by the persistent
// store. It is mutated only by the configuration agent through the store's
// update call; everything else treats it as read-only.
type UserConfiguration struct {
	Language string    `json:"language,omitempty"`
	Location *Location `json:"location,omitempty"`
}

// Complete reports whether the mandatory setup is finished: a valid
// two-letter language code plus a location with non-empty name and
// coordinates. The exact (0, 0) pair marks coordinates that were never
// geocoded and counts as missing. Any missing or malformed field makes the
// user incomplete.
func (c UserConfiguration) Complete() bool {
	if !ValidLanguageCode(c.Language) {
		return false
	}
	if c.Location == nil || c.Location.Name == "" {
		return false
	}
	if c.Location.Lat == 0 && c.Location.Lon == 0 {
		return false
	}
	return true
}

// ValidLanguageCode reports whether s looks like a two-letter ISO 639-1
// language code (two lowercase letters).
func ValidLanguageCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLower(r) || !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
