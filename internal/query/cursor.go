package query

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
)

// Cursor is the keyset position (created_at, id) of the last row served.
type Cursor struct {
	CreatedAt time.Time
	ID        uint
}

func EncodeCursor(c Cursor) string {
	raw := fmt.Sprintf("%d:%d", c.CreatedAt.UnixNano(), c.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeCursor(s string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, apperr.Validation("invalid cursor")
	}
	ts, id, ok := strings.Cut(string(raw), ":")
	if !ok {
		return Cursor{}, apperr.Validation("invalid cursor")
	}
	nanos, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return Cursor{}, apperr.Validation("invalid cursor")
	}
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return Cursor{}, apperr.Validation("invalid cursor")
	}
	return Cursor{CreatedAt: time.Unix(0, nanos).UTC(), ID: uint(n)}, nil
}
