package locks

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"coinpot/engine/library"
)

// Store holds at most one Lock per account. It has no business rules and no locking of its own,
// the owning engine serializes every access.
type Store struct {
	data map[library.Account]Lock
}

func NewStore() *Store {
	return &Store{data: make(map[library.Account]Lock)}
}

func (s *Store) Get(account library.Account) (Lock, bool) {
	l, ok := s.data[account]
	return l, ok
}

// Put overwrites whatever is stored for account.
func (s *Store) Put(account library.Account, lock Lock) {
	s.data[account] = lock
}

func (s *Store) Clear(account library.Account) {
	delete(s.data, account)
}

func (s *Store) Len() int {
	return len(s.data)
}

// Active returns the accounts holding a non-zero balance in ascending order, so that the
// same state always yields the same candidate list.
func (s *Store) Active() []library.Account {
	accounts := maps.Keys(s.data)
	active := accounts[:0]
	for _, account := range accounts {
		if s.data[account].Active() {
			active = append(active, account)
		}
	}
	slices.Sort(active)
	return active
}

// Mapped returns a copy of the stored locks.
func (s *Store) Mapped() Mapped {
	m := make(Mapped, len(s.data))
	for account, lock := range s.data {
		m[account] = lock
	}
	return m
}

// Restore replaces the stored locks with m. Zero balance entries are dropped.
func (s *Store) Restore(m Mapped) {
	s.data = make(map[library.Account]Lock, len(m))
	for account, lock := range m {
		if lock.Active() {
			s.data[account] = lock
		}
	}
}
