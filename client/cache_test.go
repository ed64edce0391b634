// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/newswire-foundation/newswire/article"
)

func openTestCache(t *testing.T, path string) *Cache {
	t.Helper()
	cache, err := OpenCache(path)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestClientIDIsStableAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replica.db")

	cache := openTestCache(t, path)
	first, err := cache.ClientID()
	if err != nil {
		t.Fatalf("ClientID: %v", err)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("minted client id %q is not a uuid: %v", first, err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := openTestCache(t, path)
	second, err := reopened.ClientID()
	if err != nil {
		t.Fatalf("ClientID after reopen: %v", err)
	}
	if second != first {
		t.Errorf("client id changed across restart: %q then %q", first, second)
	}
}

func TestReplicaRoundTripsThroughCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replica.db")

	cache := openTestCache(t, path)
	if _, found, err := cache.LoadReplica(); err != nil || found {
		t.Fatalf("fresh cache: found=%v err=%v, want empty", found, err)
	}

	want := []article.Article{
		{ID: "2", Headline: "second", Content: "body", Timestamp: "2026-03-01 08:00:00"},
		{ID: "1", Headline: "first"},
	}
	if err := cache.SaveReplica(want); err != nil {
		t.Fatalf("SaveReplica: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := openTestCache(t, path)
	got, found, err := reopened.LoadReplica()
	if err != nil {
		t.Fatalf("LoadReplica: %v", err)
	}
	if !found {
		t.Fatal("saved replica not found after reopen")
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d articles, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("article %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCorruptReplicaBlobIsAnErrorNotAPanic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replica.db")

	cache := openTestCache(t, path)
	if err := cache.SaveReplica([]article.Article{{ID: "1"}}); err != nil {
		t.Fatalf("SaveReplica: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Scribble over the stored blob the way a torn write would.
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		t.Fatalf("bolt.Open: %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketReplica).Put(keyArticles, []byte{0xff, 0x00, 0xff})
	})
	if err != nil {
		t.Fatalf("corrupting blob: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("closing bolt: %v", err)
	}

	reopened := openTestCache(t, path)
	if _, _, err := reopened.LoadReplica(); err == nil {
		t.Fatal("LoadReplica should report the corrupt blob")
	}

	// The cache is still writable: a fresh save recovers it.
	if err := reopened.SaveReplica([]article.Article{{ID: "2"}}); err != nil {
		t.Fatalf("SaveReplica after corruption: %v", err)
	}
	got, found, err := reopened.LoadReplica()
	if err != nil || !found || len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("recovery save: got=%v found=%v err=%v", got, found, err)
	}
}
