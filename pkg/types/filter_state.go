package types

import (
	"fmt"
	"slices"
)

type SortKey string

const (
	SortByName    SortKey = "name"
	SortByCreated SortKey = "createdAt"
)

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", SortByName:
		return SortByName, nil
	case SortByCreated, "created":
		return SortByCreated, nil
	}
	return SortByName, fmt.Errorf("unknown sort key %q", s)
}

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "asc":
		return Ascending, nil
	case "desc":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort direction %q", s)
}

// FilterState is the ephemeral state of one catalog view. The zero value
// selects nothing, has no query and sorts by name ascending.
type FilterState struct {
	Instruments []int     `json:"instruments"`
	Genres      []int     `json:"genres"`
	Query       string    `json:"query"`
	Sort        SortKey   `json:"sort"`
	Direction   Direction `json:"direction"`
}

func (s FilterState) SortKey() SortKey {
	if s.Sort == "" {
		return SortByName
	}
	return s.Sort
}

// SelectSort flips the direction when key is already active, otherwise it
// switches to key ascending.
func (s *FilterState) SelectSort(key SortKey) {
	if s.SortKey() == key {
		if s.Direction == Ascending {
			s.Direction = Descending
		} else {
			s.Direction = Ascending
		}
		return
	}
	s.Sort = key
	s.Direction = Ascending
}

func toggle(ids []int, id int) []int {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(slices.Clone(ids), i, i+1)
	}
	return append(slices.Clone(ids), id)
}

func (s *FilterState) ToggleInstrument(id int) {
	s.Instruments = toggle(s.Instruments, id)
}

func (s *FilterState) ToggleGenre(id int) {
	s.Genres = toggle(s.Genres, id)
}

func (s FilterState) Clone() FilterState {
	s.Instruments = slices.Clone(s.Instruments)
	s.Genres = slices.Clone(s.Genres)
	return s
}

type FacetCount struct {
	Id    int    `json:"id"`
	Label string `json:"label"`
	Count int    `json:"count"`
}
