package postgresadapter

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// TradeNoGenerator mints 32-hex gateway transaction identifiers.
type TradeNoGenerator struct{}

func (TradeNoGenerator) NewTradeNo() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return hex.EncodeToString(buf[:])
}
