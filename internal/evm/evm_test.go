package evm

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress("0xb416D5C1D8a7546F5Be3FA550374868d90d79615"))
	assert.True(t, IsValidAddress("0x8dc184d5dfae5dba51ea03b291f081058b4484b2"))
	assert.False(t, IsValidAddress("b416D5C1D8a7546F5Be3FA550374868d90d79615"))
	assert.False(t, IsValidAddress("0xb416D5C1D8a7546F5Be3FA550374868d90d7961"))
	assert.False(t, IsValidAddress("0xZ416D5C1D8a7546F5Be3FA550374868d90d79615"))
	assert.False(t, IsValidAddress(""))
}

func TestSameAddress(t *testing.T) {
	assert.True(t, SameAddress(
		"0xb416D5C1D8a7546F5Be3FA550374868d90d79615",
		"0xB416D5C1D8A7546F5BE3FA550374868D90D79615",
	))
	assert.False(t, SameAddress(
		"0xb416D5C1D8a7546F5Be3FA550374868d90d79615",
		"0x8dc184d5dfae5dba51ea03b291f081058b4484b2",
	))
}

func signMessage(t *testing.T, msg string) (signature string, address string) {
	key, err := crypto.GenerateKey()
	assert.NoError(t, err)
	sig, err := crypto.Sign(accounts.TextHash([]byte(msg)), key)
	assert.NoError(t, err)
	// Wallets report V as 27/28, matching what the login endpoint receives.
	sig[64] += 27
	return hexutil.Encode(sig), crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	msg := "Login to AgriTrade\nNonce: abc123"
	signature, address := signMessage(t, msg)
	assert.NoError(t, VerifySignature(msg, signature, address))
}

func TestVerifySignatureRejectsWrongWallet(t *testing.T) {
	msg := "Login to AgriTrade\nNonce: abc123"
	signature, _ := signMessage(t, msg)
	err := VerifySignature(msg, signature, "0xb416D5C1D8a7546F5Be3FA550374868d90d79615")
	assert.EqualError(t, err, "signature does not match wallet")
}

func TestVerifySignatureRejectsTamperedMessage(t *testing.T) {
	signature, address := signMessage(t, "Login to AgriTrade\nNonce: abc123")
	err := VerifySignature("Login to AgriTrade\nNonce: other", signature, address)
	assert.Error(t, err)
}

func TestRecoverSignerRejectsMalformedInput(t *testing.T) {
	_, err := RecoverSigner("msg", "not-hex")
	assert.Error(t, err)
	_, err = RecoverSigner("msg", "0x0102")
	assert.EqualError(t, err, "invalid signature length")
}
