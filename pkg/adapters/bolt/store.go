// Package bolt provides durable implementations of the engine's storage
// ports on a single bbolt file. One Store serves graphs, states, and the
// activity trail; records are JSON-encoded rows in per-kind buckets.
package bolt

import (
	"time"

	bbolt "go.etcd.io/bbolt"
)

var (
	bucketGraphs     = []byte("graphs")
	bucketGraphNames = []byte("graph_names")
	bucketNodes      = []byte("nodes")
	bucketEdges      = []byte("edges")
	bucketStates     = []byte("states")
	bucketLogs       = []byte("activity_logs")
	bucketEvents     = []byte("activity_events")
)

// Store implements ports.GraphStore, ports.StateStore, and
// ports.ActivityStore on one bbolt database.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) the database file and its buckets.
func Open(filename string) (*Store, error) {
	db, err := bbolt.Open(filename, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{
			bucketGraphs, bucketGraphNames, bucketNodes, bucketEdges,
			bucketStates, bucketLogs, bucketEvents,
		} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func compositeKey(graphID, name string) []byte {
	return []byte(graphID + "\x00" + name)
}
