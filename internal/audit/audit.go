package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	contextKeyUserID = "user_id"
	writeTimeout     = 2 * time.Second
)

// ActorType represents the type of entity performing an action
type ActorType string

const (
	ActorTypeUser   ActorType = "user"
	ActorTypeSigner ActorType = "public_signer"
	ActorTypeSystem ActorType = "system"
)

// ResourceType represents the type of resource being acted upon
type ResourceType string

const (
	ResourceTypeProposal ResourceType = "proposal"
	ResourceTypeUser     ResourceType = "user"
	ResourceTypeSession  ResourceType = "session"
)

// Action represents the action being performed
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionSign   Action = "sign"
	ActionReset  Action = "reset"
	ActionSignup Action = "signup"
	ActionLogin  Action = "login"
	ActionLogout Action = "logout"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusDenied  Status = "denied"
)

// Event represents an audit event
type Event struct {
	ID           uuid.UUID
	EventType    string
	ActorType    ActorType
	ActorID      *uuid.UUID
	ResourceType ResourceType
	ResourceID   string
	Action       Action
	Status       Status
	IPAddress    string
	UserAgent    string
	RequestID    string
	Metadata     map[string]any
	ErrorMessage string
	CreatedAt    time.Time
}

const defaultQueryLimit = 100

// Store persists audit events.
type Store interface {
	Write(ctx context.Context, event *Event) error
	Query(ctx context.Context, filter Filter) ([]*Event, error)
}

// Filter narrows Query results. Zero values are ignored.
type Filter struct {
	ResourceType ResourceType
	ResourceID   string
	Action       Action
	Since        *time.Time
	Limit        int
}

func (f Filter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return defaultQueryLimit
	}
	return f.Limit
}

func (f Filter) matches(event *Event) bool {
	if f.ResourceType != "" && event.ResourceType != f.ResourceType {
		return false
	}
	if f.ResourceID != "" && event.ResourceID != f.ResourceID {
		return false
	}
	if f.Action != "" && event.Action != f.Action {
		return false
	}
	if f.Since != nil && event.CreatedAt.Before(*f.Since) {
		return false
	}
	return true
}

// Logger records audit events without blocking the request.
type Logger struct {
	store  Store
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewLogger(store Store, logger *zap.Logger) *Logger {
	return &Logger{store: store, logger: logger}
}

// Log records an audit event synchronously
func (l *Logger) Log(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if event.EventType == "" {
		event.EventType = string(event.Action) + "_" + string(event.ResourceType)
	}
	return l.store.Write(ctx, event)
}

// LogFromContext builds an event from the request and writes it asynchronously.
func (l *Logger) LogFromContext(c echo.Context, resourceType ResourceType, resourceID string, action Action, status Status, metadata map[string]any) {
	event := eventFromContext(c, resourceType, resourceID, action, status)
	event.Metadata = metadata
	l.logAsync(event)
}

// LogError records a failed action with error details asynchronously
func (l *Logger) LogError(c echo.Context, resourceType ResourceType, resourceID string, action Action, err error) {
	event := eventFromContext(c, resourceType, resourceID, action, StatusFailure)
	event.ErrorMessage = err.Error()
	l.logAsync(event)
}

// Query retrieves audit events, newest first.
func (l *Logger) Query(ctx context.Context, filter Filter) ([]*Event, error) {
	return l.store.Query(ctx, filter)
}

// Wait blocks until pending asynchronous writes finish.
func (l *Logger) Wait() {
	l.wg.Wait()
}

func (l *Logger) logAsync(event *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer cancel()
		if err := l.Log(ctx, event); err != nil {
			l.logger.Warn("audit log failed",
				zap.String("event_type", event.EventType),
				zap.String("resource_id", event.ResourceID),
				zap.Error(err),
			)
		}
	}()
}

func eventFromContext(c echo.Context, resourceType ResourceType, resourceID string, action Action, status Status) *Event {
	event := &Event{
		EventType:    string(action) + "_" + string(resourceType),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		Status:       status,
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		RequestID:    c.Response().Header().Get(echo.HeaderXRequestID),
		ActorType:    ActorTypeSigner,
	}

	if uid, ok := c.Get(contextKeyUserID).(uuid.UUID); ok {
		event.ActorType = ActorTypeUser
		event.ActorID = &uid
	}

	return event
}

// MemoryStore keeps events in process. It backs the memory storage driver.
type MemoryStore struct {
	mu     sync.RWMutex
	events []*Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Write(_ context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *event
	s.events = append(s.events, &copied)
	return nil
}

func (s *MemoryStore) Query(_ context.Context, filter Filter) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := []*Event{}
	for i := len(s.events) - 1; i >= 0 && len(events) < filter.EffectiveLimit(); i-- {
		if filter.matches(s.events[i]) {
			events = append(events, s.events[i])
		}
	}
	return events, nil
}
