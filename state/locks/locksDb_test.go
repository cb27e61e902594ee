package locks

import (
	"reflect"
	"testing"
)

func TestStore(t *testing.T) {
	s := NewStore()

	t.Run("get on empty store", func(t *testing.T) {
		if _, ok := s.Get("alice"); ok {
			t.Fatal("Expected no lock for alice")
		}
	})

	t.Run("put overwrites", func(t *testing.T) {
		s.Put("alice", Lock{Owner: "alice", Balance: 100, UnlockAt: 10})
		s.Put("alice", Lock{Owner: "alice", Balance: 40, UnlockAt: 10})
		got, ok := s.Get("alice")
		if !ok {
			t.Fatal("Expected a lock for alice")
		}
		if got.Balance != 40 {
			t.Errorf("Expected balance 40, got %d", got.Balance)
		}
		if s.Len() != 1 {
			t.Errorf("Expected 1 record, got %d", s.Len())
		}
	})

	t.Run("active is sorted and skips empty balances", func(t *testing.T) {
		s.Put("carol", Lock{Owner: "carol", Balance: 1})
		s.Put("bob", Lock{Owner: "bob", Balance: 0})
		s.Put("aaron", Lock{Owner: "aaron", Balance: 5})
		want := []string{"aaron", "alice", "carol"}
		if got := s.Active(); !reflect.DeepEqual(got, want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})

	t.Run("clear", func(t *testing.T) {
		s.Clear("alice")
		if _, ok := s.Get("alice"); ok {
			t.Fatal("Expected alice to be cleared")
		}
	})

	t.Run("mapped is a copy", func(t *testing.T) {
		m := s.Mapped()
		m["carol"] = Lock{Owner: "carol", Balance: 999}
		if got, _ := s.Get("carol"); got.Balance != 1 {
			t.Errorf("Expected store to be unaffected, got balance %d", got.Balance)
		}
	})

	t.Run("restore drops cleared locks", func(t *testing.T) {
		s.Restore(Mapped{"dave": {Owner: "dave", Balance: 7}, "erin": {Owner: "erin"}})
		if s.Len() != 1 {
			t.Fatalf("Expected 1 record after restore, got %d", s.Len())
		}
		if _, ok := s.Get("erin"); ok {
			t.Error("Expected erin to be dropped")
		}
	})
}

func TestLockStatus(t *testing.T) {
	l := Lock{Balance: 10, CreatedAt: 0, UnlockAt: 100}
	cases := []struct {
		now  int64
		want Status
	}{
		{0, Locked},
		{99, Locked},
		{100, Matured},
		{1000, Matured},
	}
	for _, c := range cases {
		if got := l.Status(c.now); got != c.want {
			t.Errorf("Status(%d): expected %s, got %s", c.now, c.want, got)
		}
	}
	if got := (Lock{UnlockAt: 100}).Status(0); got != Empty {
		t.Errorf("Expected empty status for zero balance, got %s", got)
	}
}
