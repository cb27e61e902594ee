package randomness

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"coinpot/state/ledger"
)

// Crypto draws from the operating system's CSPRNG. Its choices cannot be audited afterwards.
type Crypto struct{}

func (Crypto) Index(draw ledger.Draw) (int, error) {
	n := len(draw.Candidates)
	if n <= 0 {
		return 0, fmt.Errorf("cannot draw from %d candidates", n)
	}
	i, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(i.Int64()), nil
}
