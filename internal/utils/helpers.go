package utils

import (
	"crypto/rand"
	"fmt"
	"math"
)

const invitationCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// InvitationCodeLength is the length of family invitation codes
const InvitationCodeLength = 6

// GenerateInvitationCode generates a random 6-character uppercase
// base-36 code. Uniqueness is not guaranteed by construction; the
// families.invitation_code unique constraint enforces it, and callers
// retry on collision.
func GenerateInvitationCode() (string, error) {
	bytes := make([]byte, InvitationCodeLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate invitation code: %w", err)
	}
	code := make([]byte, InvitationCodeLength)
	for i, b := range bytes {
		code[i] = invitationCodeAlphabet[int(b)%len(invitationCodeAlphabet)]
	}
	return string(code), nil
}

// ValidPriority reports whether priority is within the allowed range
func ValidPriority(priority int) bool {
	return priority >= 1 && priority <= 3
}

// ValidStatus reports whether status is a known task status
func ValidStatus(status string) bool {
	return status == "pending" || status == "completed"
}

// CompletionRate returns the percentage of completed tasks, rounded
// to the nearest integer. Zero total yields zero.
func CompletionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
