package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/matst80/gig-finder/pkg/types"
)

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
	Instruments []int  `json:"instruments" validate:"min=1,max=3,dive,gt=0"`
	Genres      []int  `json:"genres" validate:"min=1,max=3,dive,gt=0"`
}

func (c *Client) FetchInstruments(ctx context.Context) ([]types.Instrument, error) {
	var ret []types.Instrument
	err := c.do(ctx, http.MethodGet, "/v1/instruments", nil, &ret)
	return ret, err
}

func (c *Client) FetchGenres(ctx context.Context) ([]types.Genre, error) {
	var ret []types.Genre
	err := c.do(ctx, http.MethodGet, "/v1/genres", nil, &ret)
	return ret, err
}

// FetchGroups returns every group with its instrument, genre and member links.
func (c *Client) FetchGroups(ctx context.Context) ([]types.Group, error) {
	var ret []types.Group
	err := c.do(ctx, http.MethodGet, "/v1/groups", nil, &ret)
	return ret, err
}

func (c *Client) GetGroup(ctx context.Context, id int) (*types.Group, error) {
	ret := &types.Group{}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/groups/%d", id), nil, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *Client) CreateGroup(ctx context.Context, req CreateGroupRequest) (*types.Group, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	ret := &types.Group{}
	if err := c.do(ctx, http.MethodPost, "/v1/groups", req, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
