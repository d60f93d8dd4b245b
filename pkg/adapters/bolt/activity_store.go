package bolt

import (
	"context"
	"encoding/json"

	bbolt "go.etcd.io/bbolt"

	"github.com/courselets/trail/pkg/domain"
)

// SaveLog writes an activity log by ID.
func (s *Store) SaveLog(ctx context.Context, log *domain.ActivityLog) error {
	raw, err := json.Marshal(log)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketLogs).Put([]byte(log.ID), raw)
	})
}

// GetLog reads an activity log by ID.
func (s *Store) GetLog(ctx context.Context, id string) (*domain.ActivityLog, error) {
	var log domain.ActivityLog
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketLogs).Get([]byte(id))
		if raw == nil {
			return domain.ErrActivityNotFound
		}
		return json.Unmarshal(raw, &log)
	})
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// SaveEvent writes an activity event by ID.
func (s *Store) SaveEvent(ctx context.Context, ev *domain.ActivityEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEvents).Put([]byte(ev.ID), raw)
	})
}

// GetEvent reads an activity event by ID.
func (s *Store) GetEvent(ctx context.Context, id string) (*domain.ActivityEvent, error) {
	var ev domain.ActivityEvent
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketEvents).Get([]byte(id))
		if raw == nil {
			return domain.ErrActivityNotFound
		}
		return json.Unmarshal(raw, &ev)
	})
	if err != nil {
		return nil, err
	}
	return &ev, nil
}
