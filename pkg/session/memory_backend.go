package session

import (
	"context"
	"maps"
	"reflect"
	"sync"
	"time"
)

// MemoryBackend implements Backend using in-memory storage. Data is deep
// copied on the way in and out (see cloneValue), so callers never share maps,
// slices or pointers with the store.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	ticker  *time.Ticker
	done    chan struct{}
	once    sync.Once
}

type memoryRecord struct {
	data      map[string]any
	expiresAt time.Time // zero means no expiry
}

func (r memoryRecord) expired(now time.Time) bool {
	return !r.expiresAt.IsZero() && now.After(r.expiresAt)
}

// NewMemoryBackend creates an in-memory backend. A positive cleanupInterval
// starts a goroutine that drops expired records; stop it with Close.
func NewMemoryBackend(cleanupInterval time.Duration) *MemoryBackend {
	b := &MemoryBackend{
		records: make(map[string]memoryRecord),
		done:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		b.ticker = time.NewTicker(cleanupInterval)
		go b.cleanupLoop()
	}

	return b
}

// Load returns a copy of the data stored under id
func (b *MemoryBackend) Load(ctx context.Context, id string) (map[string]any, error) {
	b.mu.RLock()
	rec, exists := b.records[id]
	b.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}

	if rec.expired(time.Now()) {
		b.dropIfExpired(id, time.Now())
		return nil, ErrSessionNotFound
	}

	return cloneData(rec.data), nil
}

// Save stores a copy of data under id
func (b *MemoryBackend) Save(ctx context.Context, id string, data map[string]any, ttl time.Duration) error {
	if id == "" {
		return ErrInvalidSession
	}

	rec := memoryRecord{data: cloneData(data)}
	if ttl > 0 {
		rec.expiresAt = time.Now().Add(ttl)
	}

	b.mu.Lock()
	b.records[id] = rec
	b.mu.Unlock()
	return nil
}

// Delete removes the data stored under id
func (b *MemoryBackend) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	delete(b.records, id)
	b.mu.Unlock()
	return nil
}

// DeleteExpired removes every expired record and returns how many were dropped.
func (b *MemoryBackend) DeleteExpired(ctx context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	n := 0
	for id, rec := range b.records {
		if rec.expired(now) {
			delete(b.records, id)
			n++
		}
	}
	return n, nil
}

// dropIfExpired deletes id only if the record is still expired under the
// write lock; a Save racing with Load must survive.
func (b *MemoryBackend) dropIfExpired(id string, now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if rec, ok := b.records[id]; ok && rec.expired(now) {
		delete(b.records, id)
	}
}

// Len returns the number of stored records, expired ones included.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (b *MemoryBackend) Close() error {
	b.once.Do(func() {
		if b.ticker != nil {
			b.ticker.Stop()
		}
		close(b.done)
	})
	return nil
}

func (b *MemoryBackend) cleanupLoop() {
	for {
		select {
		case <-b.ticker.C:
			_, _ = b.DeleteExpired(context.Background())
		case <-b.done:
			return
		}
	}
}

func cloneData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue deep copies maps, slices, arrays, pointers and the exported
// fields of structs. Unexported struct fields and other values are copied by
// assignment. Cyclic data is not supported.
func cloneValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return cloneData(val)
	case map[string][]string:
		out := make(map[string][]string, len(val))
		for k, list := range val {
			out[k] = append([]string(nil), list...)
		}
		return out
	case map[string]string:
		return maps.Clone(val)
	case []string:
		return append([]string(nil), val...)
	case string, bool, int, int64, uint64, float64:
		return v
	default:
		return cloneReflect(reflect.ValueOf(v)).Interface()
	}
}

func cloneReflect(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneReflect(iter.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := range v.Len() {
			out.Index(i).Set(cloneReflect(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := range v.Len() {
			out.Index(i).Set(cloneReflect(v.Index(i)))
		}
		return out
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(cloneReflect(v.Elem()))
		return out
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(cloneReflect(v.Elem()))
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := range v.NumField() {
			if f := out.Field(i); f.CanSet() {
				f.Set(cloneReflect(v.Field(i)))
			}
		}
		return out
	default:
		return v
	}
}
