package app

import (
	"crypto/subtle"

	"cabao-quiz-service/internal/domain"
)

// SecretAuthorizer grants admin capability to the reserved nickname when the
// presented secret matches the configured one. An empty configured secret
// disables admin access entirely.
type SecretAuthorizer struct {
	secret string
}

func NewSecretAuthorizer(secret string) *SecretAuthorizer {
	return &SecretAuthorizer{secret: secret}
}

func (a *SecretAuthorizer) Authorize(nickname, secret string) bool {
	if a.secret == "" || nickname != domain.AdminNickname {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a.secret), []byte(secret)) == 1
}
