package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketVisits = []byte("visits")

const maxEntries = 50

// Entry is one remembered navigation target.
type Entry struct {
	Address   string    `json:"address"`
	Title     string    `json:"title"`
	VisitedAt time.Time `json:"visitedAt"`
}

// Store keeps the recently visited addresses in a local BoltDB file so
// a new session can jump back to where the last one was.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the history database under dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "history.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketVisits)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordVisit appends a visit, dropping any earlier entry for the same
// address and trimming the log to maxEntries.
func (s *Store) RecordVisit(address, title string) error {
	entry := Entry{Address: address, Title: title, VisitedAt: time.Now()}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVisits)

		// Drop earlier visits to the same address
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var old Entry
			if json.Unmarshal(v, &old) == nil && old.Address == address {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		if err := b.Put(key, data); err != nil {
			return err
		}

		// Trim oldest entries beyond the cap
		count := 0
		cur := b.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			count++
		}
		for ; count > maxEntries; count-- {
			k, _ := b.Cursor().First()
			if k == nil {
				break
			}
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Recent returns up to n entries, most recent first.
func (s *Store) Recent(n int) ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketVisits).Cursor()
		for k, v := c.Last(); k != nil && len(entries) < n; k, v = c.Prev() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
