package dailyverse

import (
	"context"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/store"
)

// Bucket holds the daily entry in the store.
const Bucket = "daily"

const key = "verse"

// Store persists the single daily verse entry.
type Store interface {
	// Load returns the stored entry and whether one exists.
	Load() (Entry, bool, error)
	Save(Entry) error
}

// Watcher is implemented by stores that can announce writes made by other
// processes.
type Watcher interface {
	Changes(ctx context.Context) (<-chan struct{}, error)
}

// DiskStore keeps the entry in a store.Persistence under a fixed key.
type DiskStore struct {
	p store.Persistence
}

// NewDiskStore wraps p.
func NewDiskStore(p store.Persistence) *DiskStore {
	return &DiskStore{p: p}
}

func (s *DiskStore) Load() (Entry, bool, error) {
	var e Entry
	if err := s.p.Read(Bucket, key, &e); err != nil {
		if perr.Is(err, perr.KindNotFound) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	return e, true, nil
}

func (s *DiskStore) Save(e Entry) error {
	return s.p.Write(Bucket, key, e)
}

// Changes signals every time the daily entry changes on disk.
func (s *DiskStore) Changes(ctx context.Context) (<-chan struct{}, error) {
	events, err := s.p.Watch(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for ev := range events {
			if ev.Bucket != "" && ev.Bucket != Bucket {
				continue
			}
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out, nil
}
