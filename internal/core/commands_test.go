package core

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type recordedEvent struct {
	eventType string
	data      map[string]any
}

type fakeEventLogger struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeEventLogger) LogEvent(eventType string, data map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{eventType: eventType, data: data})
	return nil
}

type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) Open(_ context.Context, target string) error {
	if f.err != nil {
		return f.err
	}
	f.opened = append(f.opened, target)
	return nil
}

func newTestRouter(t *testing.T, logger EventLogger, opener URLOpener) CommandRouter {
	t.Helper()
	router := NewCommandRouter(logger)
	gen := NewIDGenerator(IDGeneratorOptions{
		Now:    fixedClock(time.UnixMilli(1736935200000)),
		Random: fixedUUID("a1b2c3d4-0000-4000-8000-000000000000"),
	})
	if err := RegisterBuiltinCommands(router, gen, opener); err != nil {
		t.Fatalf("registering builtins: %v", err)
	}
	return router
}

func TestCommandRouter_GenerateID(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	for _, args := range []string{"", "null", "{}", `{"ignored": true}`} {
		got, err := router.Invoke(context.Background(), CommandGenerateID, json.RawMessage(args))
		if err != nil {
			t.Fatalf("Invoke(generate_id, %q): %v", args, err)
		}
		if got != "1736935200000-a1b2c3d4" {
			t.Errorf("generate_id with %q = %v", args, got)
		}
	}
}

func TestCommandRouter_Greet(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	tests := []struct {
		args string
		want string
	}{
		{args: `{"name":"World"}`, want: "Hello, World! You've been greeted from Rust!"},
		{args: `{"name":""}`, want: "Hello, ! You've been greeted from Rust!"},
		{args: `{"name":"say \"hi\""}`, want: `Hello, say "hi"! You've been greeted from Rust!`},
	}
	for _, tt := range tests {
		got, err := router.Invoke(context.Background(), CommandGreet, json.RawMessage(tt.args))
		if err != nil {
			t.Fatalf("Invoke(greet, %s): %v", tt.args, err)
		}
		if got != tt.want {
			t.Errorf("greet %s = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestCommandRouter_GreetInvalidArgs(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	for _, args := range []string{"", "{}", `{"name": 5}`, `{"name": null}`, `[1,2]`, `{not json`} {
		_, err := router.Invoke(context.Background(), CommandGreet, json.RawMessage(args))
		if !errors.Is(err, ErrInvalidArgs) {
			t.Errorf("greet %q: expected ErrInvalidArgs, got %v", args, err)
		}
	}
}

func TestCommandRouter_UnknownCommand(t *testing.T) {
	logger := &fakeEventLogger{}
	router := newTestRouter(t, logger, nil)

	_, err := router.Invoke(context.Background(), "delete_everything", nil)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
	if !strings.Contains(err.Error(), "delete_everything") {
		t.Errorf("expected command name in error, got %v", err)
	}
	if len(logger.events) != 1 || logger.events[0].eventType != "command.failed" {
		t.Errorf("expected one command.failed event, got %+v", logger.events)
	}
}

func TestCommandRouter_HandlerErrorIsWrapped(t *testing.T) {
	logger := &fakeEventLogger{}
	router := NewCommandRouter(logger)
	gen := NewIDGenerator(IDGeneratorOptions{Now: fixedClock(time.Unix(-10, 0))})
	if err := RegisterBuiltinCommands(router, gen, nil); err != nil {
		t.Fatalf("registering builtins: %v", err)
	}

	_, err := router.Invoke(context.Background(), CommandGenerateID, nil)
	if !errors.Is(err, ErrClockBeforeEpoch) {
		t.Fatalf("expected ErrClockBeforeEpoch, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "command generate_id:") {
		t.Errorf("expected command prefix, got %v", err)
	}
	if len(logger.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(logger.events))
	}
	ev := logger.events[0]
	if ev.eventType != "command.failed" || ev.data["command"] != CommandGenerateID {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestCommandRouter_LogsSuccess(t *testing.T) {
	logger := &fakeEventLogger{}
	router := newTestRouter(t, logger, nil)

	if _, err := router.Invoke(context.Background(), CommandGreet, json.RawMessage(`{"name":"x"}`)); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(logger.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(logger.events))
	}
	ev := logger.events[0]
	if ev.eventType != "command.invoked" {
		t.Errorf("event type = %q, want command.invoked", ev.eventType)
	}
	if ev.data["command"] != CommandGreet {
		t.Errorf("event command = %v", ev.data["command"])
	}
	if _, ok := ev.data["duration_ms"]; !ok {
		t.Error("expected duration_ms in event data")
	}
}

func TestCommandRouter_Register(t *testing.T) {
	router := NewCommandRouter(nil)
	noop := func(context.Context, json.RawMessage) (any, error) { return nil, nil }

	if err := router.Register("", noop); err == nil {
		t.Error("expected error for empty name")
	}
	if err := router.Register("x", nil); err == nil {
		t.Error("expected error for nil handler")
	}
	if err := router.Register("x", noop); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := router.Register("x", noop); !errors.Is(err, ErrDuplicateCommand) {
		t.Errorf("expected ErrDuplicateCommand, got %v", err)
	}
}

func TestCommandRouter_Commands(t *testing.T) {
	without := newTestRouter(t, nil, nil)
	if got, want := without.Commands(), []string{"generate_id", "greet"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Commands() = %v, want %v", got, want)
	}

	with := newTestRouter(t, nil, &fakeOpener{})
	if got, want := with.Commands(), []string{"generate_id", "greet", "open_url"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Commands() = %v, want %v", got, want)
	}
}

func TestCommandRouter_OpenURL(t *testing.T) {
	opener := &fakeOpener{}
	router := newTestRouter(t, nil, opener)

	got, err := router.Invoke(context.Background(), CommandOpenURL, json.RawMessage(`{"url":"https://tauri.app"}`))
	if err != nil {
		t.Fatalf("Invoke(open_url): %v", err)
	}
	if got != nil {
		t.Errorf("expected nil result, got %v", got)
	}
	if len(opener.opened) != 1 || opener.opened[0] != "https://tauri.app" {
		t.Errorf("opened = %v", opener.opened)
	}

	if _, err := router.Invoke(context.Background(), CommandOpenURL, json.RawMessage(`{}`)); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("expected ErrInvalidArgs for missing url, got %v", err)
	}

	opener.err = errors.New("no handler")
	if _, err := router.Invoke(context.Background(), CommandOpenURL, json.RawMessage(`{"url":"https://x"}`)); !errors.Is(err, opener.err) {
		t.Errorf("expected opener error, got %v", err)
	}
}

func TestRegisterBuiltinCommands_NilGenerator(t *testing.T) {
	if err := RegisterBuiltinCommands(NewCommandRouter(nil), nil, nil); err == nil {
		t.Fatal("expected error for nil id generator")
	}
}

func TestCommandRouter_ConcurrentInvoke(t *testing.T) {
	router := NewCommandRouter(&fakeEventLogger{})
	if err := RegisterBuiltinCommands(router, NewIDGenerator(IDGeneratorOptions{Random: uuid.NewRandom}), nil); err != nil {
		t.Fatalf("registering builtins: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan string, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := router.Invoke(context.Background(), CommandGenerateID, nil)
			if err != nil {
				t.Errorf("Invoke: %v", err)
				return
			}
			results <- got.(string)
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for id := range results {
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
