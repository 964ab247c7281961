package redis

import "fmt"

const (
	// KeyPrefixCapture is the prefix for pending capture keys
	KeyPrefixCapture = "linkmemo:capture:"
	// KeyCaptureCounter counts captures ever queued (for /infra)
	KeyCaptureCounter = "linkmemo:captures:total"
)

// CaptureKey returns the Redis key for a pending capture by ID
func CaptureKey(id string) string {
	return KeyPrefixCapture + id
}

// ExtractCaptureID extracts the capture ID from a Redis key
func ExtractCaptureID(key string) (string, error) {
	if len(key) <= len(KeyPrefixCapture) {
		return "", fmt.Errorf("invalid capture key: %s", key)
	}
	return key[len(KeyPrefixCapture):], nil
}
