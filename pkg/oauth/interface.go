// Package oauth resolves third-party identity for campus account
// verification. The service only needs to know who a token belongs to and
// whether the provider considers the email verified.
package oauth

import "context"

type OAuthProvider interface {
	GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
}

type UserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Picture       string `json:"picture"`
	Provider      string `json:"provider"`
}
