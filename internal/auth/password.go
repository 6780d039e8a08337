package auth

import "golang.org/x/crypto/bcrypt"

// ComparePassword сравнивает bcrypt-хэш консультанта с паролем.
func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
