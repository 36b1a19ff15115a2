// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

package gateway

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// DefaultTitleTTL is how long a resolved event title is reused.
const DefaultTitleTTL = time.Hour

const titleKeyPrefix = "event_title:"

type titleEntry struct {
	Title    string    `json:"title"`
	CachedAt time.Time `json:"cached_at"`
}

// TitleCache stores event titles in BadgerDB with a TTL.
type TitleCache struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenCacheDB opens the BadgerDB used for caching. An empty dir or inMemory
// keeps everything in memory.
func OpenCacheDB(dir string, inMemory bool) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	if inMemory || dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	return db, nil
}

// NewTitleCache creates a cache on db. A non-positive ttl uses DefaultTitleTTL.
func NewTitleCache(db *badger.DB, ttl time.Duration) *TitleCache {
	if ttl <= 0 {
		ttl = DefaultTitleTTL
	}
	return &TitleCache{db: db, ttl: ttl}
}

func titleKey(eventID int) []byte {
	return []byte(titleKeyPrefix + strconv.Itoa(eventID))
}

// Get returns the cached title for eventID.
func (c *TitleCache) Get(eventID int) (string, bool, error) {
	var entry titleEntry
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(titleKey(eventID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Title, true, nil
}

// Put stores title for eventID.
func (c *TitleCache) Put(eventID int, title string) error {
	data, err := json.Marshal(titleEntry{Title: title, CachedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(titleKey(eventID), data).WithTTL(c.ttl))
	})
}
