package refdata

import "github.com/google/uuid"

// OrderIDGenerator produces unique internal order ids.
type OrderIDGenerator interface {
	Generate() string
}

// UUIDGenerator is the default generator.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() string { return uuid.New().String() }
