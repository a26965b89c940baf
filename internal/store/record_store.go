package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Key binds a fixed storage name to the type stored under it
type Key[T any] struct {
	name  string
	codec Codec[T]
}

// NewKey returns a JSON-encoded key
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name, codec: JSONCodec[T]{}}
}

// NewKeyWithCodec returns a key with a custom encoding
func NewKeyWithCodec[T any](name string, codec Codec[T]) Key[T] {
	return Key[T]{name: name, codec: codec}
}

func (k Key[T]) Name() string { return k.name }

// DeserializationError reports stored content the key's codec cannot decode
type DeserializationError struct {
	Key string
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("failed to deserialize %q: %v", e.Key, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// RecordStore reads and writes whole documents over a KV.
// Operations on the same key are serialized within the process; there is
// no transaction across keys.
type RecordStore struct {
	kv     KV
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRecordStore(kv KV, logger *zap.Logger) *RecordStore {
	return &RecordStore{
		kv:     kv,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *RecordStore) lock(name string) func() {
	s.mu.Lock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Read returns the value under key. found is false when the key was never written.
func Read[T any](ctx context.Context, s *RecordStore, key Key[T]) (T, bool, error) {
	unlock := s.lock(key.name)
	defer unlock()
	return read(ctx, s, key)
}

// Write encodes value and overwrites whatever is stored under key
func Write[T any](ctx context.Context, s *RecordStore, key Key[T], value T) error {
	unlock := s.lock(key.name)
	defer unlock()
	return write(ctx, s, key, value)
}

// Remove deletes key; removing an absent key is not an error
func Remove[T any](ctx context.Context, s *RecordStore, key Key[T]) error {
	unlock := s.lock(key.name)
	defer unlock()

	if err := s.kv.Delete(ctx, key.name); err != nil {
		s.logger.Error("record remove failed", zap.String("key", key.name), zap.Error(err))
		return fmt.Errorf("failed to remove %q: %w", key.name, err)
	}
	return nil
}

// Update reads the full value (zero value when absent), applies fn and writes
// the result back. If fn returns an error nothing is written.
func Update[T any](ctx context.Context, s *RecordStore, key Key[T], fn func(current T, found bool) (T, error)) (T, error) {
	unlock := s.lock(key.name)
	defer unlock()

	current, found, err := read(ctx, s, key)
	if err != nil {
		var zero T
		return zero, err
	}
	next, err := fn(current, found)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := write(ctx, s, key, next); err != nil {
		var zero T
		return zero, err
	}
	return next, nil
}

func read[T any](ctx context.Context, s *RecordStore, key Key[T]) (T, bool, error) {
	var zero T

	raw, err := s.kv.Get(ctx, key.name)
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return zero, false, nil
		}
		s.logger.Error("record read failed", zap.String("key", key.name), zap.Error(err))
		return zero, false, fmt.Errorf("failed to read %q: %w", key.name, err)
	}

	v, err := key.codec.Decode(raw)
	if err != nil {
		s.logger.Warn("stored record is not decodable", zap.String("key", key.name), zap.Error(err))
		return zero, false, &DeserializationError{Key: key.name, Err: err}
	}
	return v, true, nil
}

func write[T any](ctx context.Context, s *RecordStore, key Key[T], value T) error {
	raw, err := key.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to serialize %q: %w", key.name, err)
	}
	if err := s.kv.Set(ctx, key.name, raw, 0); err != nil {
		s.logger.Error("record write failed", zap.String("key", key.name), zap.Error(err))
		return fmt.Errorf("failed to write %q: %w", key.name, err)
	}
	return nil
}
