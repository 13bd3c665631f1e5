package checkout

import (
	"math/rand"
)

const tokenPool = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomToken() string {
	buf := make([]byte, 8)
	for i := range buf {
		buf[i] = tokenPool[rand.Intn(len(tokenPool))]
	}
	return "tok_" + string(buf)
}

// GenerateToken returns an order token that does not collide with any of
// the existing ones. Uniqueness is checked against the persisted set, not
// left to randomness alone; generation regenerates until it misses.
func GenerateToken(existing map[string]struct{}) string {
	for {
		token := randomToken()
		if _, taken := existing[token]; !taken {
			return token
		}
	}
}
