package hash

import "golang.org/x/crypto/bcrypt"

// Cost stays at bcrypt's default of 10 rounds.
const cost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
