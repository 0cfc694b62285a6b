package port

// TokenStore persists the backend session credential between runs.
// Token returns repository.ErrNotFound when no credential is stored.
type TokenStore interface {
	Token() (string, error)
	Save(token string) error
	Clear() error
}
