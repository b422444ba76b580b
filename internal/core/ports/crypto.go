package ports

// PasswordHasher produces one-way digests of plaintext passwords. Digest is
// deterministic: authentication re-hashes the supplied password and compares
// against the stored digest.
type PasswordHasher interface {
	Digest(plaintext string) string
}
