package inventory

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateNumber produces a document number like "IN-20260829-a1b2c3".
// The random suffix keeps numbers unique without a sequence table; the
// unique index on the number column catches the rare collision.
func GenerateNumber(prefix string) string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-%s", prefix, time.Now().Format("20060102150405.000000"))
	}
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), hex.EncodeToString(buf))
}
