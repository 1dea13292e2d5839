package testutil

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Common test errors
var (
	ErrTest        = errors.New("test error")
	ErrIntentional = errors.New("intentional error")
	ErrConstructor = errors.New("constructor error")
)

// TestLogger is a test logger interface
type TestLogger interface {
	Log(msg string)
	GetLogs() []string
	ID() string
}

// TestLoggerImpl implements TestLogger
type TestLoggerImpl struct {
	id   string
	logs []string
	mu   sync.Mutex
}

func NewTestLogger() TestLogger {
	return &TestLoggerImpl{id: uuid.NewString()}
}

func (l *TestLoggerImpl) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, msg)
}

func (l *TestLoggerImpl) GetLogs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]string, len(l.logs))
	copy(result, l.logs)
	return result
}

func (l *TestLoggerImpl) ID() string {
	return l.id
}

// TestDatabase is a test database
type TestDatabase struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

func NewTestDatabase(name string) *TestDatabase {
	return &TestDatabase{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

func (d *TestDatabase) Query(sql string) string {
	return fmt.Sprintf("%s: %s", d.Name, sql)
}

// TestCache is a test cache
type TestCache struct {
	ID   string
	data map[string]string
	mu   sync.RWMutex
}

func NewTestCache() *TestCache {
	return &TestCache{ID: uuid.NewString(), data: make(map[string]string)}
}

func (c *TestCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *TestCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

// TestService requires a logger and a database
type TestService struct {
	Logger   TestLogger    `inject:"logger"`
	Database *TestDatabase `inject:"database"`
	Cache    *TestCache    `inject:"cache" optional:"true"`
	Name     string
}

// TestServiceWithDeps is built by constructor
type TestServiceWithDeps struct {
	Logger   TestLogger
	Database *TestDatabase
}

func NewTestServiceWithDeps(logger TestLogger, db *TestDatabase) *TestServiceWithDeps {
	return &TestServiceWithDeps{Logger: logger, Database: db}
}

func NewTestServiceWithError(logger TestLogger) (*TestServiceWithDeps, error) {
	return nil, ErrConstructor
}
