package utils

import (
	"strings"

	"github.com/google/uuid"
)

// UUIDGenerator produces request identifiers.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a 32 character hex identifier, which is the longest value
// the storage service accepts in X-Trans-Id-Extra. Time-ordered v7 UUIDs are
// preferred so that tags sort by creation time.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	return strings.ReplaceAll(v7.String(), "-", "")
}
