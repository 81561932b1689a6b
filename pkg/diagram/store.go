package diagram

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cellblend/pkg/color"
	"github.com/matzehuels/cellblend/pkg/errors"
	"github.com/matzehuels/cellblend/pkg/points"
)

// Store holds the current diagram state and publishes changes.
//
// Reads may happen from any goroutine. Writes are serialized: each write
// commits and notifies subscribers before the next write starts, so
// subscribers see versions in order. A subscriber must not write to the
// store from inside its callback.
type Store struct {
	writeMu sync.Mutex // serializes commit + notify

	mu    sync.RWMutex // guards state and subs
	state State
	subs  map[int]func(State)
	next  int

	gen    *points.Generator
	logger *log.Logger
}

// NewStore creates a store holding n freshly generated points.
// If logger is nil, log.Default() is used.
func NewStore(gen *points.Generator, n int, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{
		gen:    gen,
		logger: logger,
		subs:   make(map[int]func(State)),
	}
	s.state = State{
		Generation: uuid.NewString(),
		Bounds:     gen.Bounds,
		Points:     gen.Generate(n),
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers fn to receive every published state.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Regenerate discards every point and draws n new ones.
func (s *Store) Regenerate(n int) (State, error) {
	if err := errors.ValidatePointCount(n); err != nil {
		return State{}, err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := State{
		Generation: uuid.NewString(),
		Bounds:     s.gen.Bounds,
		Points:     s.gen.Generate(n),
	}
	return s.commit(next, "regenerate"), nil
}

// Replace swaps in pts as the diagram's points under a new generation.
// Colors are stored in canonical form; an invalid color or a point outside
// the bounds rejects the whole replacement.
func (s *Store) Replace(pts []points.Point) (State, error) {
	if err := errors.ValidatePointCount(len(pts)); err != nil {
		return State{}, err
	}
	next := State{
		Generation: uuid.NewString(),
		Bounds:     s.gen.Bounds,
		Points:     make([]points.Point, len(pts)),
	}
	for i, p := range pts {
		if !next.Bounds.Contains(p.X, p.Y) {
			return State{}, errors.New(errors.ErrCodeInvalidInput, "point %d at (%.2f, %.2f) outside the plane", i, p.X, p.Y)
		}
		h, err := color.Normalize(string(p.Color))
		if err != nil {
			return State{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "point %d", i)
		}
		p.Color = h
		next.Points[i] = p
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.commit(next, "replace"), nil
}

// ResetColors keeps every coordinate and redraws every color.
func (s *Store) ResetColors() State {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.current()
	next.Points = s.gen.Recolor(next.Points)
	return s.commit(next, "reset colors")
}

// RemoveAt removes the given cells. See [Without] for index handling.
func (s *Store) RemoveAt(indices ...int) State {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.current()
	next.Points = Without(next.Points, indices...)
	return s.commit(next, "remove")
}

// SetColorAt replaces the color of one cell.
func (s *Store) SetColorAt(i int, c color.Hex) (State, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.current()
	tx := &Tx{points: next.Points}
	if err := tx.SetColorAt(i, c); err != nil {
		return next, err
	}
	next.Points = tx.points
	return s.commit(next, "set color"), nil
}

// Update runs fn against a working copy of the points and publishes the
// result as a single change. If fn returns an error, nothing is published
// and the error is returned. If fn changes nothing, the current state is
// returned unpublished.
func (s *Store) Update(fn func(*Tx) error) (State, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.current()
	tx := &Tx{points: next.Points}
	if err := fn(tx); err != nil {
		return s.current(), err
	}
	if !tx.changed {
		return next, nil
	}
	next.Points = tx.points
	return s.commit(next, "update"), nil
}

// current returns a private copy of the state. Callers hold writeMu.
func (s *Store) current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// commit publishes next as the new state. Callers hold writeMu.
func (s *Store) commit(next State, op string) State {
	s.mu.Lock()
	next.Version = s.state.Version + 1
	s.state = next
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.logger.Debug("published state", "op", op, "version", next.Version, "cells", next.Len())
	for _, fn := range subs {
		fn(next.Clone())
	}
	return next.Clone()
}
