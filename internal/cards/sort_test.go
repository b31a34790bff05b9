package cards

import (
	"testing"
	"time"
)

func TestSortCardsByTitle(t *testing.T) {
	list := []Card{
		{ID: "3", Title: "zebra"},
		{ID: "1", Title: "Apple"},
		{ID: "2", Title: "mango"},
	}

	SortCards(list, SortByTitle)

	want := []string{"1", "2", "3"}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("Position %d: got %s, want %s", i, list[i].ID, id)
		}
	}
}

func TestSortCardsFavoritesFirst(t *testing.T) {
	list := []Card{
		{ID: "1", Title: "aaa"},
		{ID: "2", Title: "zzz", Favorite: true},
		{ID: "3", Title: "mmm"},
	}

	SortCards(list, SortByTitle)

	if list[0].ID != "2" {
		t.Errorf("Favorite should sort first, got %s", list[0].ID)
	}
	if list[1].ID != "1" || list[2].ID != "3" {
		t.Errorf("Non-favorites out of order: %s, %s", list[1].ID, list[2].ID)
	}
}

func TestSortCardsByUpdated(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	list := []Card{
		{ID: "old", Title: "old", UpdatedAt: base},
		{ID: "new", Title: "new", UpdatedAt: base.Add(time.Hour)},
	}

	SortCards(list, SortByUpdated)

	if list[0].ID != "new" {
		t.Errorf("Most recently updated should sort first, got %s", list[0].ID)
	}
}

func TestSortCardsStableTiebreak(t *testing.T) {
	list := []Card{
		{ID: "b", Title: "Same"},
		{ID: "a", Title: "same"},
	}

	SortCards(list, SortByTitle)

	if list[0].ID != "a" || list[1].ID != "b" {
		t.Errorf("Equal titles should tiebreak on ID: %s, %s", list[0].ID, list[1].ID)
	}
}

func TestSortFolders(t *testing.T) {
	list := []Folder{
		{ID: "1", Name: "Work"},
		{ID: "2", Name: "banking"},
		{ID: "3", Name: "Archive"},
	}

	SortFolders(list)

	want := []string{"Archive", "banking", "Work"}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("Position %d: got %s, want %s", i, list[i].Name, name)
		}
	}
}

func TestValidSortOrder(t *testing.T) {
	for _, s := range []string{"title", "updated", "created"} {
		if !ValidSortOrder(s) {
			t.Errorf("%q should be a valid sort order", s)
		}
	}
	if ValidSortOrder("size") {
		t.Error("\"size\" should not be a valid sort order")
	}
}
