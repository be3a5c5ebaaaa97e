// Package privacy applies devotion visibility changes optimistically: the local
// list and its public/private counts change before the server confirms, and a
// failed request puts every touched record back.
package privacy

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/events"
	"tableflip.dev/devo/pkg/verse"
)

// Persister stores visibility changes on the server.
type Persister interface {
	UpdatePrivacy(ctx context.Context, id int64, isPublic bool) (string, error)
	BulkUpdatePrivacy(ctx context.Context, ids []int64, isPublic bool) (string, error)
}

// Counts partitions the list by visibility.
type Counts struct {
	Private int `json:"private"`
	Public  int `json:"public"`
}

// Options configure a Coordinator. Persister is required.
type Options struct {
	Persister Persister
	Records   []verse.PrivacyRecord
	Sink      events.Sink
	Logger    *zerolog.Logger
}

// Coordinator owns the privacy list. Counts always equal the partition of the
// records by IsPublic, including while a request is in flight.
type Coordinator struct {
	persist Persister
	sink    events.Sink
	log     zerolog.Logger

	mu      sync.Mutex
	records []verse.PrivacyRecord
	index   map[int64]int
	counts  Counts
}

// New builds a coordinator over a copy of opts.Records.
func New(opts Options) (*Coordinator, error) {
	if opts.Persister == nil {
		return nil, perr.Validationf("privacy: persister required")
	}
	c := &Coordinator{
		persist: opts.Persister,
		sink:    opts.Sink,
		log:     zerolog.Nop(),
	}
	if c.sink == nil {
		c.sink = events.Discard
	}
	if opts.Logger != nil {
		c.log = opts.Logger.With().Str("component", "privacy").Logger()
	}
	c.Replace(opts.Records)
	return c, nil
}

// Replace swaps in a freshly loaded list.
func (c *Coordinator) Replace(records []verse.PrivacyRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append([]verse.PrivacyRecord(nil), records...)
	c.index = make(map[int64]int, len(c.records))
	for i, r := range c.records {
		c.index[r.ID] = i
	}
	c.recountLocked()
}

// Records returns a copy of the list in its original order.
func (c *Coordinator) Records() []verse.PrivacyRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]verse.PrivacyRecord(nil), c.records...)
}

// Record returns the record for id.
func (c *Coordinator) Record(id int64) (verse.PrivacyRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return verse.PrivacyRecord{}, false
	}
	return c.records[i], true
}

// Counts returns the current partition.
func (c *Coordinator) Counts() Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts
}

// SetPrivacy makes one devotion public or private. The local change is visible
// before the request is sent. On failure the record gets back the value it had
// when SetPrivacy was called and the error is returned.
func (c *Coordinator) SetPrivacy(ctx context.Context, id int64, makePublic bool) (string, error) {
	snap, err := c.apply([]int64{id}, makePublic)
	if err != nil {
		return "", err
	}
	msg, err := c.persist.UpdatePrivacy(ctx, id, makePublic)
	return c.settle(snap, makePublic, msg, err)
}

// BulkSetPrivacy changes several devotions with a single request. Every id must
// be known; otherwise nothing changes locally and nothing is sent.
func (c *Coordinator) BulkSetPrivacy(ctx context.Context, ids []int64, makePublic bool) (string, error) {
	if len(ids) == 0 {
		return "", perr.Validationf("No devotions selected")
	}
	snap, err := c.apply(ids, makePublic)
	if err != nil {
		return "", err
	}
	msg, err := c.persist.BulkUpdatePrivacy(ctx, snap.ids, makePublic)
	return c.settle(snap, makePublic, msg, err)
}

// snapshot remembers what each touched record looked like before a change.
type snapshot struct {
	ids  []int64
	prev map[int64]bool
}

func (c *Coordinator) apply(ids []int64, makePublic bool) (snapshot, error) {
	c.mu.Lock()
	snap := snapshot{prev: make(map[int64]bool, len(ids))}
	for _, id := range ids {
		i, ok := c.index[id]
		if !ok {
			c.mu.Unlock()
			return snapshot{}, perr.NotFoundf("Devotion %d not found", id)
		}
		if _, dup := snap.prev[id]; dup {
			continue
		}
		snap.prev[id] = c.records[i].IsPublic
		snap.ids = append(snap.ids, id)
	}
	for _, id := range snap.ids {
		c.records[c.index[id]].IsPublic = makePublic
	}
	c.recountLocked()
	counts := c.counts
	c.mu.Unlock()

	c.sink.Emit(events.PrivacyMsg{
		IDs:          snap.ids,
		Public:       makePublic,
		PrivateCount: counts.Private,
		PublicCount:  counts.Public,
	})
	return snap, nil
}

func (c *Coordinator) settle(snap snapshot, makePublic bool, msg string, err error) (string, error) {
	if err == nil {
		c.log.Debug().Ints64("ids", snap.ids).Bool("public", makePublic).Msg("privacy updated")
		c.sink.Emit(events.NoticeMsg{Component: events.Privacy, Level: events.LevelInfo, Message: msg})
		return msg, nil
	}

	c.mu.Lock()
	for _, id := range snap.ids {
		// The list may have been replaced while the request was in flight.
		if i, ok := c.index[id]; ok {
			c.records[i].IsPublic = snap.prev[id]
		}
	}
	c.recountLocked()
	counts := c.counts
	c.mu.Unlock()

	c.log.Warn().Err(err).Ints64("ids", snap.ids).Msg("privacy update rolled back")
	c.sink.Emit(events.PrivacyMsg{
		IDs:          snap.ids,
		Public:       makePublic,
		PrivateCount: counts.Private,
		PublicCount:  counts.Public,
		RolledBack:   true,
	})
	c.sink.Emit(events.NoticeMsg{Component: events.Privacy, Level: events.LevelError, Message: perr.Message(err)})
	return "", err
}

func (c *Coordinator) recountLocked() {
	var n Counts
	for _, r := range c.records {
		if r.IsPublic {
			n.Public++
		} else {
			n.Private++
		}
	}
	c.counts = n
}
