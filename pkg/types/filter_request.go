package types

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"
)

// FilterRequest is the query string form of a FilterState:
//
//	?ins=1&ins=2&gen=4&q=zet&sort=createdAt&dir=desc
type FilterRequest struct {
	Instruments []int  `schema:"ins"`
	Genres      []int  `schema:"gen"`
	Query       string `schema:"q"`
	Sort        string `schema:"sort"`
	Direction   string `schema:"dir"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func (r *FilterRequest) State() (FilterState, error) {
	key, keyErr := ParseSortKey(r.Sort)
	dir, dirErr := ParseDirection(r.Direction)
	return FilterState{
		Instruments: r.Instruments,
		Genres:      r.Genres,
		Query:       r.Query,
		Sort:        key,
		Direction:   dir,
	}, errors.Join(keyErr, dirErr)
}

func FilterStateFromQuery(query url.Values) (FilterState, error) {
	req := FilterRequest{}
	if err := decoder.Decode(&req, query); err != nil {
		return FilterState{Sort: SortByName}, err
	}
	return req.State()
}

func GetFilterStateFromRequest(r *http.Request) (FilterState, error) {
	return FilterStateFromQuery(r.URL.Query())
}
