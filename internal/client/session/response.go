package session

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/clinic/clinic/internal/client/api"
	"github.com/clinic/clinic/internal/client/mapper"
	"github.com/clinic/clinic/internal/client/model"
)

// Shape tells which of the backend's login response layouts was received.
type Shape int

const (
	// ShapeWrapped carries the user under a "user" key.
	ShapeWrapped Shape = iota + 1
	// ShapeBare carries the user fields at the root.
	ShapeBare
)

func (s Shape) String() string {
	switch s {
	case ShapeWrapped:
		return "wrapped"
	case ShapeBare:
		return "bare"
	}
	return "unknown"
}

// AuthResponse is a decoded login or registration response.
type AuthResponse struct {
	Shape Shape
	Token string
	User  api.UserRecord
}

// DecodeAuthResponse reads body into an AuthResponse. The token comes from
// access_token, then token, then the Authorization header.
func DecodeAuthResponse(body []byte, authorization string) (AuthResponse, error) {
	var envelope struct {
		AccessToken string          `json:"access_token"`
		Token       string          `json:"token"`
		User        json.RawMessage `json:"user"`
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return AuthResponse{}, &api.MalformedResponseError{Reason: "empty auth response"}
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return AuthResponse{}, &api.MalformedResponseError{Reason: "auth response is not an object", Err: err}
	}

	resp := AuthResponse{Shape: ShapeBare}
	userJSON := body
	if len(envelope.User) > 0 && !bytes.Equal(bytes.TrimSpace(envelope.User), []byte("null")) {
		resp.Shape = ShapeWrapped
		userJSON = envelope.User
	}
	if err := json.Unmarshal(userJSON, &resp.User); err != nil {
		return AuthResponse{}, &api.MalformedResponseError{Reason: "decode user", Err: err}
	}

	switch {
	case envelope.AccessToken != "":
		resp.Token = envelope.AccessToken
	case envelope.Token != "":
		resp.Token = envelope.Token
	default:
		resp.Token = bearer(authorization)
	}
	return resp, nil
}

func bearer(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// Normalize turns a decoded response into the signed-in identity.
func (r AuthResponse) Normalize() (model.Identity, string, error) {
	id := mapper.IdentityFromWire(r.User)
	if id.ID == "" {
		return model.Identity{}, "", &api.MalformedResponseError{Reason: "user has no id (" + r.Shape.String() + " response)"}
	}
	if r.Token == "" {
		return model.Identity{}, "", &api.MalformedResponseError{Reason: "no access token"}
	}
	if !id.Valid() {
		return model.Identity{}, "", &api.MalformedResponseError{Reason: "user has no email or an unknown role"}
	}
	return id, r.Token, nil
}
