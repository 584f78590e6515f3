package hash

import "golang.org/x/crypto/bcrypt"

// Password hashes the plaintext with bcrypt at the default cost (10).
func Password(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Check reports whether plain matches the stored bcrypt hash.
func Check(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
