package cards

import (
	"sort"
	"strings"
)

// SortOrder selects a card list ordering.
type SortOrder string

const (
	SortByTitle   SortOrder = "title"
	SortByUpdated SortOrder = "updated"
	SortByCreated SortOrder = "created"
)

// ValidSortOrder reports whether s names a known ordering.
func ValidSortOrder(s string) bool {
	switch SortOrder(s) {
	case SortByTitle, SortByUpdated, SortByCreated:
		return true
	}
	return false
}

// SortCards orders cards in place. Favorites always sort ahead of the
// rest; within each group the requested order applies. Title comparison is
// case-insensitive with the card ID as a stable tiebreaker.
func SortCards(list []Card, order SortOrder) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Favorite != b.Favorite {
			return a.Favorite
		}
		switch order {
		case SortByUpdated:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.After(b.UpdatedAt)
			}
		case SortByCreated:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		at := strings.ToLower(a.Title)
		bt := strings.ToLower(b.Title)
		if at != bt {
			return at < bt
		}
		return a.ID < b.ID
	})
}

// SortFolders orders folders by case-insensitive name.
func SortFolders(list []Folder) {
	sort.Slice(list, func(i, j int) bool {
		a := strings.ToLower(list[i].Name)
		b := strings.ToLower(list[j].Name)
		if a != b {
			return a < b
		}
		return list[i].ID < list[j].ID
	})
}

// SortWorkspaces orders workspaces by case-insensitive name.
func SortWorkspaces(list []Workspace) {
	sort.Slice(list, func(i, j int) bool {
		a := strings.ToLower(list[i].Name)
		b := strings.ToLower(list[j].Name)
		if a != b {
			return a < b
		}
		return list[i].ID < list[j].ID
	})
}
