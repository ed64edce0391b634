// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package article

import (
	"fmt"

	"github.com/newswire-foundation/newswire/lib/codec"
	"github.com/newswire-foundation/newswire/lib/storage"
)

// FilePersister stores the article collection as a CBOR blob in an
// atomic snapshot file.
type FilePersister struct {
	snapshot *storage.SnapshotFile
}

// NewFilePersister returns a persister backed by the snapshot file at
// path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{snapshot: storage.NewSnapshotFile(path)}
}

// Load reads and decodes the persisted collection. A missing file is
// a clean first run. A corrupt file or an undecodable blob is an
// error; the store turns it into an empty start after warning.
func (p *FilePersister) Load() ([]Article, bool, error) {
	blob, found, err := p.snapshot.Load()
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	var articles []Article
	if err := codec.Unmarshal(blob, &articles); err != nil {
		return nil, false, fmt.Errorf("decoding article snapshot: %w", err)
	}
	return articles, true, nil
}

// Save encodes and atomically writes the collection.
func (p *FilePersister) Save(articles []Article) error {
	blob, err := codec.Marshal(articles)
	if err != nil {
		return fmt.Errorf("encoding article snapshot: %w", err)
	}
	if err := p.snapshot.Save(blob); err != nil {
		return fmt.Errorf("writing article snapshot: %w", err)
	}
	return nil
}
