package hash

// Hash produces and verifies a one way digest of a secret.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}
