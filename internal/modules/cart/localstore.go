package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/imrfidelz/djk-sub001/internal/modules/badge"
	"github.com/imrfidelz/djk-sub001/internal/storage"
)

// LocalStore keeps the guest cart. Every mutation writes the full line list
// back to the blob store before publishing its badge delta, so the persisted
// cart never lags the notified count.
type LocalStore struct {
	mu       sync.Mutex
	blob     storage.Blob
	key      string
	notifier *badge.Notifier

	lines  []Line
	loaded bool
}

func NewLocalStore(blob storage.Blob, key string, notifier *badge.Notifier) *LocalStore {
	return &LocalStore{blob: blob, key: key, notifier: notifier}
}

// load must run under mu.
func (s *LocalStore) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	b, err := s.blob.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.lines = nil
			s.loaded = true
			return nil
		}
		return fmt.Errorf("load guest cart: %w", err)
	}
	var lines []Line
	if err := json.Unmarshal(b, &lines); err != nil {
		// A corrupt blob is unrecoverable; start over rather than wedge
		// every cart operation.
		log.Printf("LocalStore: corrupt cart blob %s, resetting: %v", s.key, err)
		lines = nil
	}
	s.lines = lines
	s.loaded = true
	return nil
}

// persist must run under mu.
func (s *LocalStore) persist(ctx context.Context) error {
	if len(s.lines) == 0 {
		if err := s.blob.Delete(ctx, s.key); err != nil {
			return fmt.Errorf("delete guest cart: %w", err)
		}
		return nil
	}
	b, err := json.Marshal(s.lines)
	if err != nil {
		return fmt.Errorf("marshal guest cart: %w", err)
	}
	if err := s.blob.Put(ctx, s.key, b); err != nil {
		return fmt.Errorf("persist guest cart: %w", err)
	}
	return nil
}

// Add merges qty into the line matching item's (product, size, color) key,
// or appends a new line. Callers are expected to pass qty > 0; the store
// applies whatever it is given and only a positive qty reaches the badge.
func (s *LocalStore) Add(ctx context.Context, item Line, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}

	key := item.Key()
	merged := false
	for i := range s.lines {
		if s.lines[i].Key() == key {
			s.lines[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = qty
		s.lines = append(s.lines, item)
	}

	if err := s.persist(ctx); err != nil {
		return err
	}
	if qty > 0 {
		s.notifier.PublishDelta(qty)
	}
	return nil
}

// SetQuantity sets the absolute quantity for one line. qty <= 0 deletes the
// line. The published delta is the signed difference against the previous
// quantity; setting the current value is a zero-delta no-op.
func (s *LocalStore) SetQuantity(ctx context.Context, key Key, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}

	idx := -1
	for i := range s.lines {
		if s.lines[i].Key() == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	prev := s.lines[idx].Quantity
	var delta int
	if qty <= 0 {
		s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
		delta = -prev
	} else {
		s.lines[idx].Quantity = qty
		delta = qty - prev
	}

	if err := s.persist(ctx); err != nil {
		return err
	}
	s.notifier.PublishDelta(delta)
	return nil
}

// Remove deletes a line unconditionally.
func (s *LocalStore) Remove(ctx context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}

	for i := range s.lines {
		if s.lines[i].Key() == key {
			removed := s.lines[i].Quantity
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			if err := s.persist(ctx); err != nil {
				return err
			}
			s.notifier.PublishDelta(-removed)
			return nil
		}
	}
	return nil
}

// Clear empties the cart. silent suppresses the badge event; the migration
// path uses it because a compensating Set follows from the remote cart.
func (s *LocalStore) Clear(ctx context.Context, silent bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}

	before := nonNegativeTotal(s.lines)
	s.lines = nil
	if err := s.persist(ctx); err != nil {
		return err
	}
	if !silent {
		s.notifier.PublishDelta(-before)
	}
	return nil
}

// List returns a copy of the current lines.
func (s *LocalStore) List(ctx context.Context) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out, nil
}

// Total is the badge-relevant quantity: the sum of non-negative line
// quantities.
func (s *LocalStore) Total(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return 0, err
	}
	return nonNegativeTotal(s.lines), nil
}

// TotalForProduct sums quantities across every variant of one product.
func (s *LocalStore) TotalForProduct(ctx context.Context, productID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return 0, err
	}
	sum := 0
	for _, l := range s.lines {
		if l.ProductID == productID && l.Quantity > 0 {
			sum += l.Quantity
		}
	}
	return sum, nil
}

func nonNegativeTotal(lines []Line) int {
	sum := 0
	for _, l := range lines {
		if l.Quantity > 0 {
			sum += l.Quantity
		}
	}
	return sum
}
