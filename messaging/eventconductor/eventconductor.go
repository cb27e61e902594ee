package eventconductor

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"

	"coinpot/engine/library"
	"coinpot/state/ledger"
	"coinpot/state/pot"
	"coinpot/state/replay"
)

// ErrInvalidEvent wraps every reason a request is refused before it reaches the ledger.
var ErrInvalidEvent = errors.New("invalid request event")

// MaxClockSkew is how far, in seconds, an event's created_at may be from the engine clock.
const MaxClockSkew int64 = 600

// Conductor turns signed request events into ledger operations. Requests are handled one at a
// time so that the replay check and the ledger operation are applied together. Operations run at
// the engine clock, created_at only has to be close to it.
type Conductor struct {
	engine *ledger.Engine
	replay *replay.Db
	source ledger.RandomSource
	clock  library.Clock

	mu      *deadlock.Mutex
	cache   map[library.Sha256]nostr.Event
	handled []library.Sha256

	// OnLottery is called with every record paid through a request event.
	OnLottery func(pot.LotteryRecord)
}

func New(engine *ledger.Engine, replayDb *replay.Db, source ledger.RandomSource, clock library.Clock) *Conductor {
	return &Conductor{
		engine: engine,
		replay: replayDb,
		source: source,
		clock:  clock,
		mu:     &deadlock.Mutex{},
		cache:  make(map[library.Sha256]nostr.Event),
	}
}

func invalid(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidEvent, fmt.Sprintf(format, a...))
}

// HandleEvent validates event and applies it to the ledger. Ledger refusals are returned as
// *ledger.Error and do not advance the account's replay hash.
func (c *Conductor) HandleEvent(event nostr.Event) (r Result, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if event.GetID() != event.ID {
		return r, invalid("event %s has the wrong ID", event.ID)
	}
	if ok, err := event.CheckSignature(); !ok {
		if err != nil {
			return r, invalid("event %s: %s", event.ID, err)
		}
		return r, invalid("event %s is not signed by %s", event.ID, event.PubKey)
	}
	now := c.clock()
	if skew := int64(event.CreatedAt) - now; skew > MaxClockSkew || skew < -MaxClockSkew {
		return r, invalid("event %s was created at %d, %d seconds away from %d", event.ID, event.CreatedAt, skew, now)
	}
	claimed, ok := library.GetFirstTag(event, "r")
	if !ok {
		return r, invalid("event %s does not carry a replay tag", event.ID)
	}
	if err := c.replay.Check(event.PubKey, claimed); err != nil {
		return r, invalid("event %s: %s", event.ID, err)
	}
	r, err = c.dispatch(event, now)
	if err != nil {
		library.LogCLI(fmt.Sprintf("event %s from %s failed: %s", event.ID, event.PubKey, err), 3)
		return Result{}, err
	}
	c.replay.Upsert(event.PubKey, event.ID)
	c.cache[event.ID] = event
	c.handled = append(c.handled, event.ID)
	if r.Record != nil && c.OnLottery != nil {
		c.OnLottery(*r.Record)
	}
	return r, nil
}

func (c *Conductor) dispatch(event nostr.Event, now int64) (r Result, err error) {
	r = Result{EventID: event.ID, Kind: event.Kind}
	switch event.Kind {
	case KindNewLock:
		var unmarshalled Kind640500
		if err = unmarshal(event, &unmarshalled); err != nil {
			return r, err
		}
		lock, err := c.engine.NewLock(event.PubKey, unmarshalled.Amount, unmarshalled.Days, now)
		if err != nil {
			return r, err
		}
		r.Lock = &lock
	case KindDeposit:
		var unmarshalled Kind640501
		if err = unmarshal(event, &unmarshalled); err != nil {
			return r, err
		}
		lock, err := c.engine.DepositInLock(event.PubKey, unmarshalled.Amount, now)
		if err != nil {
			return r, err
		}
		r.Lock = &lock
	case KindWithdraw:
		var unmarshalled Kind640502
		if err = unmarshal(event, &unmarshalled); err != nil {
			return r, err
		}
		w, err := c.engine.WithdrawFromLock(event.PubKey, unmarshalled.Amount, now)
		if err != nil {
			return r, err
		}
		r.Withdrawal = &w
	case KindRunLottery:
		record, err := c.engine.RunLottery(now, c.source)
		if err != nil {
			return r, err
		}
		r.Record = &record
	default:
		return r, invalid("I am the coinpot conductor, event %s was sent to me but I don't know how to handle kind %d", event.ID, event.Kind)
	}
	return r, nil
}

func unmarshal(event nostr.Event, into any) error {
	if err := json.Unmarshal([]byte(event.Content), into); err != nil {
		return invalid("%s reported for event %s", err.Error(), event.ID)
	}
	return nil
}

// GetEventFromCache returns a handled event.
func (c *Conductor) GetEventFromCache(id library.Sha256) (nostr.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[id]
	return e, ok
}

// GetAllHandledEventsInOrder lists the IDs of every event applied since start.
func (c *Conductor) GetAllHandledEventsInOrder() []library.Sha256 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]library.Sha256(nil), c.handled...)
}

// NewRequest builds and signs a request event for the account of privateKey.
func NewRequest(privateKey string, kind int, content any, replayHash library.Sha256, createdAt int64) (nostr.Event, error) {
	return sign(privateKey, kind, nostr.Tags{nostr.Tag{"r", replayHash}}, content, createdAt)
}

// NewLotteryResult announces record.
func NewLotteryResult(privateKey string, record pot.LotteryRecord) (nostr.Event, error) {
	return sign(privateKey, KindLotteryResult, nostr.Tags{nostr.Tag{"p", record.Winner}}, record, record.Timestamp)
}

func sign(privateKey string, kind int, tags nostr.Tags, content any, createdAt int64) (nostr.Event, error) {
	pubkey, err := nostr.GetPublicKey(privateKey)
	if err != nil {
		return nostr.Event{}, err
	}
	b, err := json.Marshal(content)
	if err != nil {
		return nostr.Event{}, err
	}
	e := nostr.Event{
		PubKey:    pubkey,
		CreatedAt: nostr.Timestamp(createdAt),
		Kind:      kind,
		Tags:      tags,
		Content:   string(b),
	}
	e.ID = e.GetID()
	if err := e.Sign(privateKey); err != nil {
		return nostr.Event{}, err
	}
	return e, nil
}
