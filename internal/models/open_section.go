package models

import (
	"strings"
	"time"
)

// OpenSectionSnapshot is an immutable view of the registrar's open-section feed.
type OpenSectionSnapshot struct {
	AsOf       time.Time
	SectionIDs map[string]struct{}
}

// NewOpenSectionSnapshot builds a snapshot from the raw index list.
func NewOpenSectionSnapshot(asOf time.Time, ids []string) OpenSectionSnapshot {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return OpenSectionSnapshot{AsOf: asOf, SectionIDs: set}
}

// IsOpen looks up a section. Catalog ids of the form "09876-01" are checked by
// their registration index, the part before the first dash.
func (s OpenSectionSnapshot) IsOpen(sectionID string) bool {
	if len(s.SectionIDs) == 0 {
		return false
	}
	index := sectionID
	if i := strings.Index(sectionID, "-"); i >= 0 {
		index = sectionID[:i]
	}
	_, ok := s.SectionIDs[index]
	return ok
}

// Size returns the number of open sections.
func (s OpenSectionSnapshot) Size() int {
	return len(s.SectionIDs)
}

// IDs returns the open indexes in unspecified order.
func (s OpenSectionSnapshot) IDs() []string {
	ids := make([]string, 0, len(s.SectionIDs))
	for id := range s.SectionIDs {
		ids = append(ids, id)
	}
	return ids
}
