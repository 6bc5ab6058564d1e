package helpers

import "golang.org/x/crypto/bcrypt"

// hashCost matches bcrypt's default work factor of 10.
const hashCost = bcrypt.DefaultCost

// HashPassword hashes the plain text password using bcrypt. Each call salts
// independently, so hashing the same input twice yields different outputs.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
