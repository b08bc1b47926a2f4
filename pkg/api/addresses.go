package api

import (
	"context"
	"net/http"

	"github.com/matst80/gig-finder/pkg/types"
)

type CreateAddressRequest struct {
	Name     string `json:"name" validate:"required,notblank"`
	Postcode string `json:"postcode" validate:"required,notblank"`
	City     string `json:"city" validate:"required,notblank"`
}

type addressList struct {
	Addresses []types.Address `json:"addresses"`
}

func (c *Client) FetchAddresses(ctx context.Context) ([]types.Address, error) {
	res := addressList{}
	if err := c.do(ctx, http.MethodGet, "/v1/addresses", nil, &res); err != nil {
		return nil, err
	}
	if res.Addresses == nil {
		return []types.Address{}, nil
	}
	return res.Addresses, nil
}

func (c *Client) CreateAddress(ctx context.Context, req CreateAddressRequest) (*types.Address, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	ret := &types.Address{}
	if err := c.do(ctx, http.MethodPost, "/v1/addresses", req, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
