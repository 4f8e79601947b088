package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generator produces one-time verification codes.
type Generator interface {
	Generate(length int) (string, error)
}

// RandomGenerator draws each digit independently and uniformly from 0-9
// using crypto/rand. Leading zeros are permitted.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

var ten = big.NewInt(10)

func (g *RandomGenerator) Generate(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("read random digit failed: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}
