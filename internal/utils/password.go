package utils

import "golang.org/x/crypto/bcrypt" // Password hashing

// HashPassword hashes a plaintext password. Called explicitly at every
// write boundary that stores a password; there is no save hook.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a stored bcrypt hash with a plaintext candidate
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
