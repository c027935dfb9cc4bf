package webhook

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// redact replaces each configured secret value in data with a short
// fingerprint so debug dumps stay correlatable without leaking the value.
func redact(data []byte, secrets []string) []byte {
	if len(secrets) == 0 || len(data) == 0 {
		return data
	}

	for _, s := range secrets {
		if s == "" || !bytes.Contains(data, []byte(s)) {
			continue
		}
		sum := sha256.Sum256([]byte(s))
		replacement := fmt.Sprintf("[S256:%s]", hex.EncodeToString(sum[:4]))
		data = bytes.ReplaceAll(data, []byte(s), []byte(replacement))
	}

	return data
}
