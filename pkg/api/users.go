package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/matst80/gig-finder/pkg/types"
)

type Profile struct {
	types.User
	ProfileImageUrl string              `json:"profileImageUrl,omitempty"`
	UserGroups      []types.UserGroup   `json:"userGroups"`
	Reservations    []types.Reservation `json:"reservations"`
}

type UpdateUserRequest struct {
	FirstName       string `json:"firstName" validate:"required,notblank"`
	LastName        string `json:"lastName" validate:"required,notblank"`
	Email           string `json:"email" validate:"required,email"`
	ProfileImageUrl string `json:"profileImageUrl,omitempty" validate:"omitempty,url"`
}

// Me returns the signed in user.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	if c.Token() == nil {
		return nil, ErrNoToken
	}
	ret := &Profile{}
	if err := c.do(ctx, http.MethodGet, "/v1/users/me", nil, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int, req UpdateUserRequest) (*Profile, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	ret := &Profile{}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/users/%d", id), req, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// MyGroups loads the detail of every group the signed in user belongs to.
func (c *Client) MyGroups(ctx context.Context) ([]types.Group, error) {
	me, err := c.Me(ctx)
	if err != nil {
		return nil, err
	}
	ret := make([]types.Group, 0, len(me.UserGroups))
	for _, ug := range me.UserGroups {
		g, err := c.GetGroup(ctx, ug.GroupId)
		if err != nil {
			return nil, err
		}
		ret = append(ret, *g)
	}
	return ret, nil
}
