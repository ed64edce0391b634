// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"sort"
	"strconv"

	"github.com/newswire-foundation/newswire/article"
)

// Replica is the client's local copy of the article collection,
// ordered newest-first. Duplicates by id never occur; insertion order
// is authoritative only until the next full_sync re-sorts the whole
// list. Not safe for concurrent use — owned by the event loop, which
// publishes read-only copies to the display.
type Replica struct {
	articles []article.Article
}

// NewReplica returns an empty replica.
func NewReplica() *Replica { return &Replica{} }

// Load seeds the replica from persisted state, replacing anything
// present and dropping duplicate ids.
func (r *Replica) Load(articles []article.Article) {
	r.articles = r.articles[:0]
	for _, a := range articles {
		if !r.Contains(a.ID) {
			r.articles = append(r.articles, a)
		}
	}
}

// ApplyNew prepends a newly announced article as the most recent
// entry. A duplicate delivery — the id is already present — is a
// no-op. Returns whether the replica changed.
func (r *Replica) ApplyNew(a article.Article) bool {
	if r.Contains(a.ID) {
		return false
	}
	r.articles = append([]article.Article{a}, r.articles...)
	return true
}

// ApplyDelete removes the entry with the given id. A delete for an id
// not present — the create was never received, or the delete arrived
// twice — is a no-op. Returns whether the replica changed.
func (r *Replica) ApplyDelete(id string) bool {
	for i, a := range r.articles {
		if a.ID == id {
			r.articles = append(r.articles[:i], r.articles[i+1:]...)
			return true
		}
	}
	return false
}

// ApplyFullSync replaces the entire replica with the authoritative
// snapshot and sorts it into canonical newest-first order. This is
// the reconciliation fixpoint: safe at any time, erases any drift,
// and applying the same snapshot twice changes nothing.
func (r *Replica) ApplyFullSync(articles map[string]article.Article) {
	r.articles = r.articles[:0]
	for _, a := range articles {
		r.articles = append(r.articles, a)
	}
	sort.Slice(r.articles, func(i, j int) bool {
		left, right := sortRank(r.articles[i].ID), sortRank(r.articles[j].ID)
		if left != right {
			return left > right
		}
		// Equal ranks only happen for non-numeric ids (all rank 0);
		// fall back to the id text to keep the order deterministic.
		return r.articles[i].ID > r.articles[j].ID
	})
}

// Articles returns a copy of the replica in display order.
func (r *Replica) Articles() []article.Article {
	snapshot := make([]article.Article, len(r.articles))
	copy(snapshot, r.articles)
	return snapshot
}

// Contains reports whether an article with the given id is present.
func (r *Replica) Contains(id string) bool {
	for _, a := range r.articles {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Len returns the number of articles held.
func (r *Replica) Len() int { return len(r.articles) }

// sortRank maps an article id to its ordering key. Ids are decimal
// strings; one that fails to parse ranks as 0 rather than being
// excluded. This quirk is load-bearing for compatibility — changing
// it reorders replicas that contain legacy ids.
func sortRank(id string) uint64 {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
