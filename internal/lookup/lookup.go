// Package lookup resolves foreign ids to display labels and filters
// already-fetched lists. Neither function talks to the network.
package lookup

import (
	"strings"

	"restaurant-admin/internal/domain"
)

// NotFound is shown when a reference points at a record that is not in the
// list, e.g. an order whose client was deleted.
const NotFound = "Não encontrado"

// Label returns labelField of the record whose idField equals id.
func Label(records []domain.Record, idField, labelField, id string) string {
	if id == "" {
		return NotFound
	}
	for _, r := range records {
		if r.ID(idField) == id {
			if l := r.String(labelField); l != "" {
				return l
			}
			return id
		}
	}
	return NotFound
}

// Filter keeps the records whose field contains query, ignoring case.
// An empty query keeps everything.
func Filter(records []domain.Record, field, query string) []domain.Record {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if q == "" || strings.Contains(strings.ToLower(r.String(field)), q) {
			out = append(out, r)
		}
	}
	return out
}
