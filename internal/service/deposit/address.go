package deposit

import (
	"crypto/rand"
	"encoding/hex"
)

// AddressProvider supplies the deposit address shown to the user and the
// placeholder transaction hash recorded with the request. The default
// implementation generates random placeholders; a chain-backed provider can
// replace it without touching the workflow.
type AddressProvider interface {
	DepositAddress() string
	TxHash() string
}

// placeholderProvider mimics real-looking identifiers. Values are random and
// unique enough for manual processing, not blockchain-verified.
type placeholderProvider struct{}

func (placeholderProvider) DepositAddress() string {
	return "bc1" + randomHex(16)
}

func (placeholderProvider) TxHash() string {
	return "tx" + randomHex(16)
}

func randomHex(n int) string {
	b := make([]byte, n)
	// rand.Read never fails per its documentation
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
