package tokencode

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultBytes количество случайных байт в коде (32 символа base64url)
const DefaultBytes = 24

// Generate создает непрозрачный URL-безопасный код из n случайных байт
func Generate(n int) (string, error) {
	if n <= 0 {
		n = DefaultBytes
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("tokencode: read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
