package nrf24

import (
	"encoding/hex"
	"github.com/ansel1/merry/v2"
	"log/slog"
	"strings"
)

func deferWrap(err *error) {
	if err != nil {
		*err = merry.WrapSkipping(*err, 1)
	}
}

func logHex(key string, value []byte) slog.Attr {
	return slog.String(key, strings.ToUpper(hex.EncodeToString(value)))
}
