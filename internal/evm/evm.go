package evm

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var addressCheck = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

func IsValidAddress(address string) bool {
	return addressCheck.MatchString(address)
}

// SameAddress compares two wallet addresses case-insensitively.
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

// RecoverSigner returns the wallet that produced an EIP-191 personal
// signature over msg.
func RecoverSigner(msg string, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", err
	}
	if len(sig) != 65 {
		return "", errors.New("invalid signature length")
	}
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	hash := accounts.TextHash([]byte(msg))
	publicKey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(*publicKey).Hex(), nil
}

// VerifySignature checks that the personal signature over msg was made by the
// claimed wallet.
func VerifySignature(msg string, signature string, walletAddress string) error {
	recovered, err := RecoverSigner(msg, signature)
	if err != nil {
		return err
	}
	if !SameAddress(recovered, walletAddress) {
		return errors.New("signature does not match wallet")
	}
	return nil
}
