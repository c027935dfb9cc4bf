package template

import (
	"encoding/base64"
	"math/rand/v2"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
)

// FuncMap returns the helper functions available to payload templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"uuid": newUUID,

		"now":       timeNow,
		"timestamp": timeUnix,
		"rfc3339":   timeNow, // alias kept for existing templates

		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"trim":  strings.TrimSpace,

		"randomInt":    randomInt,
		"randomString": randomString,

		"base64": base64Encode,
	}
}

func newUUID() string {
	return uuid.New().String()
}

func timeNow() string {
	return time.Now().Format(time.RFC3339)
}

func timeUnix() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

// randomInt swaps bounds if min > max.
func randomInt(min, max int) int {
	if min > max {
		min, max = max, min
	}
	if min == max {
		return min
	}
	return rand.IntN(max-min+1) + min
}

func randomString(length int) string {
	if length <= 0 {
		return ""
	}

	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	buf := make([]byte, length)
	for i := range buf {
		buf[i] = charset[rand.IntN(len(charset))]
	}
	return string(buf)
}

func base64Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}
