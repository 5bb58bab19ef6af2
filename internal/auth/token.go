package auth

import (
	"errors"
	"fmt"
)

// Token is a login session issued by POST /login.
type Token struct {
	MemberID string
	Token    string
}

// NewToken validates and wraps a login response.
func NewToken(memberID, token string) (*Token, error) {
	if memberID == "" {
		return nil, errors.New("member id is required")
	}
	if token == "" {
		return nil, errors.New("token is required")
	}
	return &Token{MemberID: memberID, Token: token}, nil
}

// Headers returns the Authorization header for any request.
func (t *Token) Headers(method, path string) (map[string]string, error) {
	return map[string]string{
		"Authorization": fmt.Sprintf("%s %s", t.MemberID, t.Token),
	}, nil
}
