package api

import (
	"context"
	"net/http"

	"github.com/DelXN-shivam/SmartFarmer-Admin-sub000/internal/domain/session"
)

// loginRequest is the credential body for the admin login endpoint.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginEnvelope is the login success body: the bearer token plus the
// account profile with its role.
type loginEnvelope struct {
	Token string       `json:"token"`
	Data  loginProfile `json:"data"`
}

type loginProfile struct {
	session.Profile
	Role string `json:"role"`
}

// LoginResult carries everything a successful login returns.
type LoginResult struct {
	Token   string
	Role    session.Role
	Profile session.Profile
}

// Login authenticates against the admin login endpoint. The request is
// unauthenticated; everything else the client does requires the token
// this returns.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var env loginEnvelope
	err := c.doRequest(ctx, http.MethodPost, "/api/admin/login", loginRequest{Email: email, Password: password}, &env)
	if err != nil {
		return nil, err
	}

	role, err := session.ParseRole(env.Data.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:   env.Token,
		Role:    role,
		Profile: env.Data.Profile,
	}, nil
}
