package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Data is what the server remembers about a session.
type Data struct {
	UserID  uint     `json:"user_id"`
	Flashes []string `json:"flashes,omitempty"`
}

// Store persists session data by id. Implementations must treat expired
// sessions as missing.
type Store interface {
	Load(ctx context.Context, id string) (*Data, error)
	Save(ctx context.Context, id string, data *Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	data    Data
	expires time.Time
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !m.now().Before(e.expires) {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}
	data := e.data
	data.Flashes = append([]string(nil), e.data.Flashes...)
	return &data, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, data *Data, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{data: *data, expires: m.now().Add(ttl)}
	e.data.Flashes = append([]string(nil), data.Flashes...)
	m.sessions[id] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

type fileEntry struct {
	Data    Data      `json:"data"`
	Expires time.Time `json:"expires"`
}

// FileStore keeps one JSON file per session inside a directory.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore uses dir, or a fresh temporary directory when dir is empty.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		tmp, err := os.MkdirTemp("", "sessions-")
		if err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
		dir = tmp
	} else if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

func (f *FileStore) Dir() string { return f.dir }

// path only accepts uuids so ids can never escape the directory.
func (f *FileStore) path(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", ErrNotFound
	}
	return filepath.Join(f.dir, u.String()+".json"), nil
}

func (f *FileStore) Load(_ context.Context, id string) (*Data, error) {
	file, err := f.path(id)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var e fileEntry
	if err := json.Unmarshal(content, &e); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	if !f.now().Before(e.Expires) {
		os.Remove(file)
		return nil, ErrNotFound
	}
	return &e.Data, nil
}

func (f *FileStore) Save(_ context.Context, id string, data *Data, ttl time.Duration) error {
	file, err := f.path(id)
	if err != nil {
		return fmt.Errorf("invalid session id %q", id)
	}
	content, err := json.Marshal(fileEntry{Data: *data, Expires: f.now().Add(ttl)})
	if err != nil {
		return err
	}
	// write then rename so readers never see a partial file
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, content, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, file)
}

func (f *FileStore) Delete(_ context.Context, id string) error {
	file, err := f.path(id)
	if err != nil {
		return nil
	}
	if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// RedisStore keeps sessions in Redis under "session:<id>" with a native TTL.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "session:"}
}

func (r *RedisStore) Load(ctx context.Context, id string) (*Data, error) {
	content, err := r.rdb.Get(ctx, r.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var data Data
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &data, nil
}

func (r *RedisStore) Save(ctx context.Context, id string, data *Data, ttl time.Duration) error {
	content, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.prefix+id, content, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, r.prefix+id).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
