package utils

import (
	"github.com/google/uuid"
)

// ==================== UUID ====================

func GenerateUUIDString() string {
	return uuid.New().String()
}

// GenerateGuestID returns a fresh anonymous guest identifier.
func GenerateGuestID() string {
	return uuid.NewString()
}

// GenerateRequestID returns an id used to correlate outbound requests in logs.
func GenerateRequestID() string {
	return "req-" + uuid.NewString()
}
