package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultPageSize is the number of entries revealed per page.
const DefaultPageSize = 500

// FilterState is the result of filtering a catalog and paging through the matches.
// Visible is always a prefix of MatchedAll.
type FilterState struct {
	Query      string
	MatchedAll []Entry
	Visible    []Entry
}

// HasMore reports whether matches exist beyond the visible window.
func (s FilterState) HasMore() bool {
	return len(s.MatchedAll) > len(s.Visible)
}

// Filter selects the entries whose name or path contains query, ignoring case,
// and reveals the first page. An empty query matches every entry. Catalog order is kept.
func Filter(entries []Entry, query string, pageSize int) FilterState {
	query = strings.TrimSpace(query)
	state := FilterState{Query: query}

	if query == "" {
		state.MatchedAll = entries[:len(entries):len(entries)]
	} else {
		caser := cases.Fold()
		needle := foldString(caser, query)
		for _, entry := range entries {
			if strings.Contains(foldString(caser, entry.Name), needle) ||
				strings.Contains(foldString(caser, entry.Path), needle) {
				state.MatchedAll = append(state.MatchedAll, entry)
			}
		}
	}

	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	end := min(pageSize, len(state.MatchedAll))
	state.Visible = state.MatchedAll[:end:end]
	return state
}

// Extend reveals the next page of matches. The state is returned unchanged when
// nothing more is available.
func Extend(state FilterState, pageSize int) FilterState {
	if !state.HasMore() {
		return state
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	end := min(len(state.Visible)+pageSize, len(state.MatchedAll))
	state.Visible = state.MatchedAll[:end:end]
	return state
}

func foldString(caser cases.Caser, s string) string {
	return caser.String(norm.NFC.String(s))
}
