package replay

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/sasha-s/go-deadlock"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"coinpot/engine/actors"
	"coinpot/engine/library"
)

// Genesis is the replay hash of an account that has never had a request handled.
var Genesis = library.Sha256Sum("coinpot/replay")

type Mapped map[library.Account]library.Sha256

// Db remembers, per account, the ID of the last request event that was handled. A request must name
// that ID in its "r" tag, so every signed request can be applied at most once and in order.
type Db struct {
	data  map[library.Account]library.Sha256
	mutex *deadlock.Mutex
}

func New() *Db {
	return &Db{
		data:  make(map[library.Account]library.Sha256),
		mutex: &deadlock.Mutex{},
	}
}

func (s *Db) GetCurrentHashForAccount(account library.Account) library.Sha256 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.getCurrentHashForAccount(account)
}

func (s *Db) getCurrentHashForAccount(account library.Account) library.Sha256 {
	if hash, ok := s.data[account]; ok {
		return hash
	}
	return Genesis
}

// Check returns an error unless claimed is the current hash for account.
func (s *Db) Check(account library.Account, claimed library.Sha256) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if current := s.getCurrentHashForAccount(account); claimed != current {
		return fmt.Errorf("replay hash %s does not match %s for account %s", claimed, current, account)
	}
	return nil
}

// Upsert moves account on to eventID.
func (s *Db) Upsert(account library.Account, eventID library.Sha256) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data[account] = eventID
}

func (s *Db) GetMap() Mapped {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	m := make(Mapped, len(s.data))
	for account, id := range s.data {
		m[account] = id
	}
	return m
}

// GetStateHash commits to every account's replay hash in account order.
func (s *Db) GetStateHash() library.Sha256 {
	m := s.GetMap()
	accounts := maps.Keys(m)
	slices.Sort(accounts)
	b := bytes.Buffer{}
	for _, account := range accounts {
		b.WriteString(account)
		decoded, err := hex.DecodeString(m[account])
		if err != nil {
			b.WriteString(m[account])
			continue
		}
		b.Write(decoded)
	}
	return library.Sha256Sum(b.Bytes())
}

func (s *Db) PersistToDisk() error {
	b, err := json.MarshalIndent(s.GetMap(), "", " ")
	if err != nil {
		return err
	}
	return actors.Write("replay", "current", b)
}

func (s *Db) RestoreFromDisk() (bool, error) {
	f, ok, err := actors.Open("replay", "current")
	if err != nil || !ok {
		return false, err
	}
	defer f.Close()
	m := make(Mapped)
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return false, fmt.Errorf("decoding replay state: %w", err)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data = m
	return true, nil
}
