package api

import (
	"context"
	"net/http"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	FirstName            string `json:"firstName" validate:"required,notblank"`
	LastName             string `json:"lastName" validate:"required,notblank"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,password"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,eqfield=Password"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	res := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", req, res); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return res, ErrNoToken
	}
	c.SetToken(TokenFromString(res.Token))
	return res, nil
}

// Register creates an account. A token in the response signs the client in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	res := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/register", req, res); err != nil {
		return nil, err
	}
	if res.Token != "" {
		c.SetToken(TokenFromString(res.Token))
	}
	return res, nil
}

func (c *Client) Logout() {
	c.SetToken(nil)
}
