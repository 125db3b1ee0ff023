package model

// TokenManager issues and verifies access tokens. The subject of a token is
// the caller's account identifier.
type TokenManager interface {
	GenerateAccessToken(subject string) (string, error)
	ParseAccessToken(token string) (string, error)
}
