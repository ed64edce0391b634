// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package article

import (
	"log/slog"
	"strconv"

	"github.com/newswire-foundation/newswire/lib/clock"
)

// Persister is the durability hook for the store. Load returns the
// persisted articles in their stored order, with found=false on first
// run. Implementations must tolerate absence; corruption is reported
// as an error and the store degrades to empty.
type Persister interface {
	Load() (articles []Article, found bool, err error)
	Save(articles []Article) error
}

// Store is the server's authoritative article collection. It is not
// safe for concurrent use; the protocol event loop is its single
// writer and reader.
type Store struct {
	persister Persister
	clock     clock.Clock
	log       *slog.Logger

	articles map[string]Article
	// order holds live ids in insertion order. List returns articles
	// in this order; sorting is a client responsibility.
	order  []string
	nextID uint64
}

// NewStore creates an empty store with the given durability hook.
// Call LoadOrInit before first use.
func NewStore(persister Persister, clk clock.Clock, log *slog.Logger) *Store {
	return &Store{
		persister: persister,
		clock:     clk,
		log:       log,
		articles:  make(map[string]Article),
		nextID:    1,
	}
}

// LoadOrInit populates the store from its persister. An absent
// snapshot yields an empty store with the id counter at 1. A corrupt
// or unreadable snapshot is logged and likewise yields an empty store;
// startup never fails on bad state.
//
// The id counter is recomputed as max(existing ids) + 1 so that
// monotonicity survives restarts regardless of what the counter was
// when the snapshot was written.
func (s *Store) LoadOrInit() {
	articles, found, err := s.persister.Load()
	if err != nil {
		s.log.Warn("article snapshot unusable, starting empty", "error", err)
		return
	}
	if !found {
		s.log.Info("no article snapshot, starting empty")
		return
	}

	for _, a := range articles {
		if _, exists := s.articles[a.ID]; exists {
			continue
		}
		s.articles[a.ID] = a
		s.order = append(s.order, a.ID)
		if n, err := strconv.ParseUint(a.ID, 10, 64); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
	}
	s.log.Info("article snapshot loaded", "articles", len(s.order), "next_id", s.nextID)
}

// Create assigns the next id, stamps the current local time, inserts
// the article, and persists the collection. The returned error is a
// persistence failure only: the in-memory insert is kept regardless,
// and the caller decides whether to warn and carry on (it should).
func (s *Store) Create(headline, content string) (Article, error) {
	a := Article{
		ID:        strconv.FormatUint(s.nextID, 10),
		Headline:  headline,
		Content:   content,
		Timestamp: s.clock.Now().Format(TimestampFormat),
	}
	s.nextID++
	s.articles[a.ID] = a
	s.order = append(s.order, a.ID)

	return a, s.persist()
}

// Delete removes the article with the given id. Returns whether
// anything was removed; an unknown id is a no-op, not an error. The
// error, when non-nil, is a persistence failure after a successful
// in-memory removal.
func (s *Store) Delete(id string) (bool, error) {
	if _, exists := s.articles[id]; !exists {
		return false, nil
	}
	delete(s.articles, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, s.persist()
}

// List returns a snapshot of all current articles in insertion order.
// The slice is a copy; mutating it does not affect the store.
func (s *Store) List() []Article {
	snapshot := make([]Article, 0, len(s.order))
	for _, id := range s.order {
		snapshot = append(snapshot, s.articles[id])
	}
	return snapshot
}

// Get returns the article with the given id, if present.
func (s *Store) Get(id string) (Article, bool) {
	a, ok := s.articles[id]
	return a, ok
}

// Len returns the number of live articles.
func (s *Store) Len() int { return len(s.order) }

// NextID exposes the id counter for diagnostics and tests.
func (s *Store) NextID() uint64 { return s.nextID }

func (s *Store) persist() error {
	return s.persister.Save(s.List())
}
