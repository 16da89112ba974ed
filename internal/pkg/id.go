package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const maxGameID = 99999999

// GenerateGameID - generates a unique numeric identifier for a game.
func GenerateGameID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxGameID))
	if err != nil {
		return "", fmt.Errorf("failed to read random number: %w", err)
	}

	return n.String(), nil
}
