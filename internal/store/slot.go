package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrSlotEmpty is returned by Slot.Load when nothing is stored under the key
var ErrSlotEmpty = errors.New("store: slot is empty")

// ParseError reports a stored value that could not be decoded.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("store: corrupt value under %q: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Slot is one JSON value kept under a fixed key of a KV.
type Slot struct {
	kv  KV
	key string
}

func NewSlot(kv KV, key string) *Slot {
	return &Slot{kv: kv, key: key}
}

// Key returns the storage key the slot reads and writes
func (s *Slot) Key() string {
	return s.key
}

// Load decodes the stored value into dest
func (s *Slot) Load(dest any) error {
	data, ok, err := s.kv.Get(s.key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSlotEmpty
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &ParseError{Key: s.key, Err: err}
	}
	return nil
}

// Save replaces the stored value with v
func (s *Slot) Save(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	return s.kv.Put(s.key, data)
}

// Clear removes the stored value
func (s *Slot) Clear() error {
	return s.kv.Delete(s.key)
}
