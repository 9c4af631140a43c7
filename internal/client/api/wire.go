package api

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/healthdash/internal/client/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerRequest also carries username, which the server keys accounts by.
type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Access  string    `json:"access"`
	Refresh string    `json:"refresh"`
	User    *wireUser `json:"user"`
}

// wireUser tolerates numeric ids and servers that only send username.
type wireUser struct {
	ID       json.RawMessage `json:"id"`
	Name     string          `json:"name"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Height   *string         `json:"height"`
	Weight   *string         `json:"weight"`
	Age      *string         `json:"age"`
	Gender   *string         `json:"gender"`
}

func (w *wireUser) toModel() models.User {
	u := models.User{
		ID:     rawID(w.ID),
		Name:   w.Name,
		Email:  w.Email,
		Height: deref(w.Height),
		Weight: deref(w.Weight),
		Age:    deref(w.Age),
		Gender: deref(w.Gender),
	}
	if u.Name == "" {
		u.Name = w.Username
	}
	return u
}

func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// errorBody covers the shapes the server uses for rejections:
// {"detail": "..."}, {"error": "..."} and {"error": ["..."]}.
type errorBody struct {
	Detail string          `json:"detail"`
	Error  json.RawMessage `json:"error"`
}

func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return strings.TrimSpace(string(body))
	}
	if eb.Detail != "" {
		return eb.Detail
	}
	if len(eb.Error) > 0 {
		var s string
		if json.Unmarshal(eb.Error, &s) == nil {
			return s
		}
		var list []string
		if json.Unmarshal(eb.Error, &list) == nil {
			return strings.Join(list, "; ")
		}
	}
	return strings.TrimSpace(string(body))
}
