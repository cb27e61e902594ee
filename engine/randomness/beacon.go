// Package randomness provides the sources a lottery draw can be taken from.
//
// Beacon derives the winner from a deterministic BIP-340 signature by the operator key over the
// draw. The signature is stored as the proof on the lottery record and Verify checks it against
// the operator public key.
package randomness

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"coinpot/engine/library"
	"coinpot/state/ledger"
)

const domain = "coinpot/lottery/v1"

type Beacon struct {
	key *btcec.PrivateKey
}

func NewBeacon(key *btcec.PrivateKey) *Beacon {
	return &Beacon{key: key}
}

// Account is the hex x-only public key that verifies this beacon's proofs.
func (b *Beacon) Account() library.Account {
	return hex.EncodeToString(schnorr.SerializePubKey(b.key.PubKey()))
}

// Message is the 32 byte digest that gets signed for draw.
func Message(draw ledger.Draw) [32]byte {
	parts := [][]byte{
		[]byte(domain),
		library.Int64Bytes(draw.Now),
		library.Int64Bytes(draw.LastLotteryAt),
		library.Int64Bytes(int64(draw.Pot)),
	}
	for _, c := range draw.Candidates {
		parts = append(parts, []byte(c))
	}
	return library.Digest(parts...)
}

func (b *Beacon) sign(draw ledger.Draw) ([]byte, error) {
	msg := Message(draw)
	sig, err := schnorr.Sign(b.key, msg[:])
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}

func (b *Beacon) Index(draw ledger.Draw) (int, error) {
	sig, err := b.sign(draw)
	if err != nil {
		return 0, err
	}
	return indexFromSignature(sig, len(draw.Candidates))
}

// Proof returns the hex signature Index was derived from.
func (b *Beacon) Proof(draw ledger.Draw) (string, error) {
	sig, err := b.sign(draw)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sig), nil
}

func indexFromSignature(sig []byte, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("cannot draw from %d candidates", n)
	}
	h := sha256.Sum256(sig)
	i := new(big.Int).SetBytes(h[:])
	return int(i.Mod(i, big.NewInt(int64(n))).Int64()), nil
}

// Verify checks that proof is a valid signature by account over draw and that it selects winner.
func Verify(account library.Account, draw ledger.Draw, proof string, winner library.Account) error {
	pkb, err := hex.DecodeString(account)
	if err != nil {
		return fmt.Errorf("decoding beacon account: %w", err)
	}
	pk, err := schnorr.ParsePubKey(pkb)
	if err != nil {
		return fmt.Errorf("parsing beacon account: %w", err)
	}
	sigb, err := hex.DecodeString(proof)
	if err != nil {
		return fmt.Errorf("decoding proof: %w", err)
	}
	sig, err := schnorr.ParseSignature(sigb)
	if err != nil {
		return fmt.Errorf("parsing proof: %w", err)
	}
	msg := Message(draw)
	if !sig.Verify(msg[:], pk) {
		return fmt.Errorf("proof is not a signature by %s over this draw", account)
	}
	index, err := indexFromSignature(sigb, len(draw.Candidates))
	if err != nil {
		return err
	}
	if draw.Candidates[index] != winner {
		return fmt.Errorf("proof selects %s, not %s", draw.Candidates[index], winner)
	}
	return nil
}
