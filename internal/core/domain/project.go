package domain

import "time"

// Project belongs to exactly one owner. Title and description edits are
// plain CRUD; only the language associations carry sharing semantics.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link,omitempty"`
	OwnerID     string    `json:"owner_id"`
	LanguageIDs []string  `json:"language_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasLanguage reports whether the project references the given language row.
func (p *Project) HasLanguage(languageID string) bool {
	for _, id := range p.LanguageIDs {
		if id == languageID {
			return true
		}
	}
	return false
}

// AttachLanguage adds a language reference, keeping the list duplicate-free.
func (p *Project) AttachLanguage(languageID string) {
	if !p.HasLanguage(languageID) {
		p.LanguageIDs = append(p.LanguageIDs, languageID)
	}
}

// DetachLanguage removes a language reference if present.
func (p *Project) DetachLanguage(languageID string) {
	kept := p.LanguageIDs[:0]
	for _, id := range p.LanguageIDs {
		if id != languageID {
			kept = append(kept, id)
		}
	}
	p.LanguageIDs = kept
}
