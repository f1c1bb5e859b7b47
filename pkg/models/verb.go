package models

import (
	"encoding/json"
	"strings"
)

// VerbEntry represents one strong verb card: infinitive on the front,
// preterite and past participle on the back
type VerbEntry struct {
	Infinitive     string `json:"infinitiv" db:"infinitive"`
	Preterite      string `json:"praeteritum" db:"preterite"`
	PastParticiple string `json:"partizipII" db:"past_participle"`
	Translation    string `json:"translation,omitempty" db:"translation"` // English gloss, optional
}

// Key returns the identity key of the entry
func (v VerbEntry) Key() string {
	return v.Infinitive
}

// IsComplete reports whether all three verb forms are present
func (v VerbEntry) IsComplete() bool {
	return strings.TrimSpace(v.Infinitive) != "" &&
		strings.TrimSpace(v.Preterite) != "" &&
		strings.TrimSpace(v.PastParticiple) != ""
}

// UnmarshalJSON accepts the translation either as a plain string or as an
// object keyed by language ({"en": "to go"})
func (v *VerbEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Infinitive     string          `json:"infinitiv"`
		Preterite      string          `json:"praeteritum"`
		PastParticiple string          `json:"partizipII"`
		Translation    json.RawMessage `json:"translation"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	v.Infinitive = raw.Infinitive
	v.Preterite = raw.Preterite
	v.PastParticiple = raw.PastParticiple
	v.Translation = ""

	if len(raw.Translation) == 0 {
		return nil
	}

	var plain string
	if err := json.Unmarshal(raw.Translation, &plain); err == nil {
		v.Translation = plain
		return nil
	}

	// Malformed translations are dropped, the card itself stays usable
	var byLang map[string]string
	if err := json.Unmarshal(raw.Translation, &byLang); err == nil {
		v.Translation = byLang["en"]
	}
	return nil
}
