package auth

import "golang.org/x/crypto/bcrypt"

// Стоимость bcrypt 12: заметно дороже дефолта, терпимо для логина
const bcryptCost = 12

// HashPassword возвращает bcrypt хеш пароля
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hash), err
}

// CheckPasswordHash сверяет пароль с хешем
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
