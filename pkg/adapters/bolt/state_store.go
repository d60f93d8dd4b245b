package bolt

import (
	"context"
	"encoding/json"

	bbolt "go.etcd.io/bbolt"

	"github.com/courselets/trail/pkg/domain"
)

// Save writes a frame by ID.
func (s *Store) Save(ctx context.Context, st *domain.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketStates).Put([]byte(st.ID), raw)
	})
}

// Load reads a frame by ID.
func (s *Store) Load(ctx context.Context, id string) (*domain.State, error) {
	var st domain.State
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketStates).Get([]byte(id))
		if raw == nil {
			return domain.ErrStateNotFound
		}
		return json.Unmarshal(raw, &st)
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Delete removes a frame. Deleting a missing frame is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketStates).Delete([]byte(id))
	})
}

// ListChildren returns frames whose ParentID is the given frame.
func (s *Store) ListChildren(ctx context.Context, id string) ([]*domain.State, error) {
	return s.scan(func(st *domain.State) bool {
		return st.ParentID == id
	})
}

// ListLinked returns frames attached to the given frame.
func (s *Store) ListLinked(ctx context.Context, id string) ([]*domain.State, error) {
	return s.scan(func(st *domain.State) bool {
		return st.LinkID == id
	})
}

// ListOrphans returns the owner's root frames that no session slot is
// required to point at: parentless frames not currently parenting others
// are resumable as-is, so every parentless frame of the owner qualifies.
func (s *Store) ListOrphans(ctx context.Context, owner string) ([]*domain.State, error) {
	parents := make(map[string]bool)
	var roots []*domain.State
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketStates).ForEach(func(_, raw []byte) error {
			var st domain.State
			if err := json.Unmarshal(raw, &st); err != nil {
				return err
			}
			if st.ParentID != "" {
				parents[st.ParentID] = true
			}
			if st.Owner == owner && st.ParentID == "" {
				roots = append(roots, &st)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	var orphans []*domain.State
	for _, st := range roots {
		if !parents[st.ID] {
			orphans = append(orphans, st)
		}
	}
	return orphans, nil
}

func (s *Store) scan(match func(*domain.State) bool) ([]*domain.State, error) {
	var out []*domain.State
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketStates).ForEach(func(_, raw []byte) error {
			var st domain.State
			if err := json.Unmarshal(raw, &st); err != nil {
				return err
			}
			if match(&st) {
				out = append(out, &st)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
