package types

import (
	"strings"
	"time"
)

type Instrument struct {
	Id   int    `json:"id"`
	Name string `json:"instrument"`
}

type Genre struct {
	Id   int    `json:"id"`
	Name string `json:"genre"`
}

type GroupInstrument struct {
	InstrumentId int         `json:"instrumentId"`
	Instrument   *Instrument `json:"instrument,omitempty"`
}

// Id returns the referenced instrument, preferring the nested entry.
func (gi GroupInstrument) Id() int {
	if gi.Instrument != nil {
		return gi.Instrument.Id
	}
	return gi.InstrumentId
}

func (gi GroupInstrument) Label() string {
	if gi.Instrument == nil {
		return ""
	}
	return gi.Instrument.Name
}

type GroupGenre struct {
	GenreId int    `json:"genreId"`
	Genre   *Genre `json:"genre,omitempty"`
}

func (gg GroupGenre) Id() int {
	if gg.Genre != nil {
		return gg.Genre.Id
	}
	return gg.GenreId
}

func (gg GroupGenre) Label() string {
	if gg.Genre == nil {
		return ""
	}
	return gg.Genre.Name
}

type User struct {
	Id        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

// DisplayName renders a member the way group cards list them.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(strings.ToUpper(u.FirstName) + " " + u.LastName)
}

type UserGroup struct {
	GroupId int   `json:"groupId"`
	User    *User `json:"user,omitempty"`
}

type Reservation struct {
	Id        int       `json:"id"`
	GroupId   int       `json:"groupId"`
	UserId    int       `json:"userId"`
	AddressId int       `json:"addressId"`
	Date      time.Time `json:"date"`
	Duration  int       `json:"duration"`
	Status    string    `json:"status"`
}

type Address struct {
	Id       int    `json:"id,omitempty"`
	Name     string `json:"name"`
	Postcode string `json:"postcode"`
	City     string `json:"city"`
}

type Group struct {
	Id               int               `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	GroupInstruments []GroupInstrument `json:"groupInstruments"`
	GroupGenres      []GroupGenre      `json:"groupGenres"`
	UserGroups       []UserGroup       `json:"userGroups"`
	Reservations     []Reservation     `json:"reservations,omitempty"`
}

// InstrumentIds lists the referenced instrument ids in link order, duplicates included.
func (g *Group) InstrumentIds() []int {
	ids := make([]int, 0, len(g.GroupInstruments))
	for _, gi := range g.GroupInstruments {
		ids = append(ids, gi.Id())
	}
	return ids
}

func (g *Group) GenreIds() []int {
	ids := make([]int, 0, len(g.GroupGenres))
	for _, gg := range g.GroupGenres {
		ids = append(ids, gg.Id())
	}
	return ids
}

func (g *Group) Members() []string {
	ret := make([]string, 0, len(g.UserGroups))
	for _, ug := range g.UserGroups {
		if name := ug.User.DisplayName(); name != "" {
			ret = append(ret, name)
		}
	}
	return ret
}
