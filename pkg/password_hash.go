package pkg

import "golang.org/x/crypto/bcrypt"

const DefaultPasswordHashCost = 14

func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, DefaultPasswordHashCost)
}

// HashPasswordWithCost is used where the default (slow) cost is not wanted,
// e.g. in tests or a development environment
func HashPasswordWithCost(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordHashCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return BytesToString(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
