package auth

import "context"

type LoginTestChecker struct {
	LoggedSessions map[string]Context
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		LoggedSessions: map[string]Context{},
	}
}

func (c *LoginTestChecker) Login(token string, clientID int64, role string) {
	c.LoggedSessions[token] = Context{ClientID: clientID, Token: token, Role: role}
}

func (c *LoginTestChecker) Check(_ context.Context, token string) (*Context, error) {
	ac, ok := c.LoggedSessions[token]
	if !ok {
		return nil, ErrNotLogged
	}
	return &ac, nil
}
