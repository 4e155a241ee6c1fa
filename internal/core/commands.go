package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Built-in command names, matching what the host shell invokes.
const (
	CommandGenerateID = "generate_id"
	CommandGreet      = "greet"
	CommandOpenURL    = "open_url"
)

var (
	// ErrUnknownCommand is returned when no handler is registered for a name.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidArgs is returned when command arguments cannot be decoded.
	ErrInvalidArgs = errors.New("invalid command arguments")
	// ErrDuplicateCommand is returned when a name is registered twice.
	ErrDuplicateCommand = errors.New("command already registered")
)

// CommandHandler executes one named command. args is the raw JSON object the
// host shell sent, possibly empty.
type CommandHandler func(ctx context.Context, args json.RawMessage) (any, error)

// CommandRouter is the command-invocation boundary between the host shell and
// the backend.
type CommandRouter interface {
	// Register adds a handler under name.
	Register(name string, handler CommandHandler) error

	// Invoke runs the named command with the given JSON arguments.
	Invoke(ctx context.Context, name string, args json.RawMessage) (any, error)

	// Commands returns the registered command names in sorted order.
	Commands() []string
}

// URLOpener is the subset of the integration opener that the open_url
// command needs. Defining it here avoids importing the integration package.
type URLOpener interface {
	Open(ctx context.Context, target string) error
}

type commandRouter struct {
	mu          sync.RWMutex
	handlers    map[string]CommandHandler
	eventLogger EventLogger
	now         func() time.Time
}

// NewCommandRouter creates an empty CommandRouter. eventLogger may be nil.
func NewCommandRouter(eventLogger EventLogger) CommandRouter {
	return &commandRouter{
		handlers:    make(map[string]CommandHandler),
		eventLogger: eventLogger,
		now:         time.Now,
	}
}

func (r *commandRouter) Register(name string, handler CommandHandler) error {
	if name == "" {
		return fmt.Errorf("registering command: name is empty")
	}
	if handler == nil {
		return fmt.Errorf("registering command %q: handler is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("registering command %q: %w", name, ErrDuplicateCommand)
	}
	r.handlers[name] = handler
	return nil
}

func (r *commandRouter) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownCommand, name)
		r.logEvent("command.failed", map[string]any{"command": name, "error": err.Error()})
		return nil, err
	}

	start := r.now()
	result, err := handler(ctx, args)
	elapsed := r.now().Sub(start)

	if err != nil {
		r.logEvent("command.failed", map[string]any{
			"command":     name,
			"error":       err.Error(),
			"duration_ms": elapsed.Milliseconds(),
		})
		return nil, fmt.Errorf("command %s: %w", name, err)
	}

	r.logEvent("command.invoked", map[string]any{
		"command":     name,
		"duration_ms": elapsed.Milliseconds(),
	})
	return result, nil
}

func (r *commandRouter) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// logEvent emits an event if an EventLogger is configured.
func (r *commandRouter) logEvent(eventType string, data map[string]any) {
	if r.eventLogger != nil {
		_ = r.eventLogger.LogEvent(eventType, data)
	}
}

// GreetArgs are the arguments of the greet command.
type GreetArgs struct {
	Name *string `json:"name"`
}

// OpenURLArgs are the arguments of the open_url command.
type OpenURLArgs struct {
	URL string `json:"url"`
}

// RegisterBuiltinCommands registers generate_id and greet, plus open_url when
// opener is non-nil.
func RegisterBuiltinCommands(router CommandRouter, idGen IDGenerator, opener URLOpener) error {
	if idGen == nil {
		return fmt.Errorf("registering builtin commands: id generator is nil")
	}

	if err := router.Register(CommandGenerateID, func(_ context.Context, _ json.RawMessage) (any, error) {
		return idGen.GenerateID()
	}); err != nil {
		return err
	}

	if err := router.Register(CommandGreet, func(_ context.Context, args json.RawMessage) (any, error) {
		var in GreetArgs
		if err := DecodeArgs(args, &in); err != nil {
			return nil, err
		}
		if in.Name == nil {
			return nil, fmt.Errorf("%w: missing required argument \"name\"", ErrInvalidArgs)
		}
		return Greet(*in.Name), nil
	}); err != nil {
		return err
	}

	if opener == nil {
		return nil
	}
	return router.Register(CommandOpenURL, func(ctx context.Context, args json.RawMessage) (any, error) {
		var in OpenURLArgs
		if err := DecodeArgs(args, &in); err != nil {
			return nil, err
		}
		if in.URL == "" {
			return nil, fmt.Errorf("%w: missing required argument \"url\"", ErrInvalidArgs)
		}
		if err := opener.Open(ctx, in.URL); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

// DecodeArgs unmarshals a command's JSON arguments into v. Empty input and a
// literal null decode as an empty object.
func DecodeArgs(args json.RawMessage, v any) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return nil
}
