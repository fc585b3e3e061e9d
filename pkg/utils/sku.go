package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateSKU generates a unique product SKU
func GenerateSKU() string {
	return "SKU-" + strings.ToUpper(uuid.New().String()[:8])
}
