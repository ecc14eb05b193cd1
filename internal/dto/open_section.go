package dto

import "time"

// OpenSectionsStatus describes the currently loaded open-section snapshot.
type OpenSectionsStatus struct {
	AsOf   *time.Time `json:"asOf,omitempty"`
	Count  int        `json:"count"`
	Source string     `json:"source"`
	Stale  bool       `json:"stale"`
}

// OpenSectionLookup reports whether one section is open.
type OpenSectionLookup struct {
	SectionID string     `json:"sectionId"`
	Open      bool       `json:"open"`
	AsOf      *time.Time `json:"asOf,omitempty"`
}
