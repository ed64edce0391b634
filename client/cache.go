// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/newswire-foundation/newswire/article"
	"github.com/newswire-foundation/newswire/lib/codec"
)

var (
	bucketReplica  = []byte("replica")
	bucketIdentity = []byte("identity")

	keyArticles = []byte("articles")
	keyClientID = []byte("client_id")
)

// Cache is the client's durable state: the last known replica, so a
// restarted display shows articles before the first snapshot arrives,
// and the client id, so the publisher's registry sees one display as
// one client across restarts.
type Cache struct {
	db *bolt.DB
}

// OpenCache opens or creates the cache file. The one-second timeout
// turns a concurrent second client on the same file into an error
// instead of a silent hang on the flock.
func OpenCache(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketReplica); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketIdentity)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache %s: %w", path, err)
	}
	return &Cache{db: db}, nil
}

// ClientID returns this display's stable identity, minting and
// persisting a fresh one on first use.
func (c *Cache) ClientID() (string, error) {
	var id string
	err := c.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketIdentity)
		if existing := bucket.Get(keyClientID); existing != nil {
			id = string(existing)
			return nil
		}
		id = uuid.NewString()
		return bucket.Put(keyClientID, []byte(id))
	})
	if err != nil {
		return "", fmt.Errorf("loading client id: %w", err)
	}
	return id, nil
}

// LoadReplica returns the cached article list. A cache that has never
// held a replica reports found=false; a blob that no longer decodes is
// an error the caller should treat as an empty start, not a fatal one.
func (c *Cache) LoadReplica() ([]article.Article, bool, error) {
	var blob []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		if stored := tx.Bucket(bucketReplica).Get(keyArticles); stored != nil {
			blob = make([]byte, len(stored))
			copy(blob, stored)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("reading cached replica: %w", err)
	}
	if blob == nil {
		return nil, false, nil
	}
	var articles []article.Article
	if err := codec.Unmarshal(blob, &articles); err != nil {
		return nil, false, fmt.Errorf("decoding cached replica: %w", err)
	}
	return articles, true, nil
}

// SaveReplica replaces the cached article list.
func (c *Cache) SaveReplica(articles []article.Article) error {
	blob, err := codec.Marshal(articles)
	if err != nil {
		return fmt.Errorf("encoding replica: %w", err)
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketReplica).Put(keyArticles, blob)
	})
	if err != nil {
		return fmt.Errorf("writing cached replica: %w", err)
	}
	return nil
}

// Close releases the cache file.
func (c *Cache) Close() error {
	return c.db.Close()
}
