package crypto

import "golang.org/x/crypto/bcrypt"

// dummyHash is a valid bcrypt digest of a throwaway value. Comparing
// against it keeps the login path doing bcrypt work even when the email
// is unknown, so response timing does not reveal account existence.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// HashPassword hashes plaintext using bcrypt.
func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

// ComparePassword compares plaintext to hashed secret.
func ComparePassword(hash []byte, plain string) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain))
}

// BurnPassword runs a bcrypt comparison that always fails, consuming the
// same work as a real comparison.
func BurnPassword(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
