package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/sasha-s/go-deadlock"

	"coinpot/engine/actors"
	"coinpot/engine/library"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCustodyShortfall  = errors.New("custody holds less than the requested amount")
	ErrOverflow          = errors.New("balance would overflow")
)

// Vault is an in-memory asset: a free balance per account plus the amount held in custody
// on behalf of the ledger. It implements the ledger's Custody collaborator.
type Vault struct {
	mu      *deadlock.Mutex
	wallets map[library.Account]uint64
	custody uint64
}

func New() *Vault {
	return &Vault{
		mu:      &deadlock.Mutex{},
		wallets: make(map[library.Account]uint64),
	}
}

// Fund credits account with amount outside of any ledger operation.
func (v *Vault) Fund(account library.Account, amount uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.wallets[account] > math.MaxUint64-amount {
		return ErrOverflow
	}
	v.wallets[account] += amount
	return nil
}

func (v *Vault) Balance(account library.Account) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.wallets[account]
}

func (v *Vault) Custody() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.custody
}

func (v *Vault) TransferIn(from library.Account, amount uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.wallets[from] < amount {
		return fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientFunds, from, v.wallets[from], amount)
	}
	if v.custody > math.MaxUint64-amount {
		return ErrOverflow
	}
	v.wallets[from] -= amount
	v.custody += amount
	return nil
}

func (v *Vault) TransferOut(to library.Account, amount uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.custody < amount {
		return fmt.Errorf("%w: holding %d, asked for %d", ErrCustodyShortfall, v.custody, amount)
	}
	if v.wallets[to] > math.MaxUint64-amount {
		return ErrOverflow
	}
	v.custody -= amount
	v.wallets[to] += amount
	return nil
}

type snapshot struct {
	Wallets map[library.Account]uint64 `json:"wallets"`
	Custody uint64                     `json:"custody"`
}

// PersistToDisk writes the vault to its flat file.
func (v *Vault) PersistToDisk() error {
	v.mu.Lock()
	b, err := json.MarshalIndent(snapshot{Wallets: v.wallets, Custody: v.custody}, "", " ")
	v.mu.Unlock()
	if err != nil {
		return err
	}
	return actors.Write("vault", "current", b)
}

// RestoreFromDisk loads the vault flat file and reports whether there was one.
func (v *Vault) RestoreFromDisk() (bool, error) {
	f, ok, err := actors.Open("vault", "current")
	if err != nil || !ok {
		return false, err
	}
	defer f.Close()
	var s snapshot
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return false, fmt.Errorf("decoding vault: %w", err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.wallets = s.Wallets
	if v.wallets == nil {
		v.wallets = make(map[library.Account]uint64)
	}
	v.custody = s.Custody
	return true, nil
}
