package library

// Wallet is the operator keypair. The account is the hex x-only public key.
type Wallet struct {
	PrivateKey string
	SeedWords  string
	Account    Account
}

// Account identifies a participant. Accounts are hex encoded nostr public keys in the host layer
// but the ledger only needs them to be comparable.
type Account = string

type Sha256 = string

// Clock supplies unix seconds to hosts. The ledger itself never reads a clock.
type Clock func() int64

// SecondsPerDay is the length of one lock or lottery day.
const SecondsPerDay int64 = 86400
