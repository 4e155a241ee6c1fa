package integration

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// maxIPCLine bounds a single request line.
const maxIPCLine = 1 << 20

// Invoker runs a named command. core.CommandRouter satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, name string, args json.RawMessage) (any, error)
}

// IPCRequest is one line sent by the host shell.
type IPCRequest struct {
	ID   json.RawMessage `json:"id"`
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args,omitempty"`
}

// IPCResponse is one line written back. Result is present only when OK.
type IPCResponse struct {
	ID     json.RawMessage `json:"id"`
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// IPCServer answers line-delimited JSON command requests, typically over the
// stdio pipes of a sidecar process spawned by the desktop shell.
type IPCServer struct {
	invoker Invoker
	logger  *slog.Logger
}

// NewIPCServer creates an IPCServer. logger may be nil.
func NewIPCServer(invoker Invoker, logger *slog.Logger) *IPCServer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &IPCServer{invoker: invoker, logger: logger}
}

type scannedLine struct {
	data    []byte
	tooLong bool
	err     error
}

// Serve reads requests from r until EOF or cancellation and writes one
// response per request to w, in request order. It returns nil on EOF and
// ctx.Err() when cancelled. A read blocked on r is abandoned on cancellation.
// A line longer than maxIPCLine is answered with an error response.
func (s *IPCServer) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan scannedLine)
	go readLines(ctx, r, lines)

	out := bufio.NewWriter(w)
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	s.logger.Info("ipc server started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("ipc server stopped", "reason", ctx.Err())
			return ctx.Err()
		case sl, ok := <-lines:
			if !ok {
				s.logger.Info("ipc input closed")
				return nil
			}
			if sl.err != nil {
				return fmt.Errorf("reading ipc input: %w", sl.err)
			}

			var resp IPCResponse
			if sl.tooLong {
				s.logger.Warn("ipc request line too long", "limit", maxIPCLine)
				resp = IPCResponse{Error: fmt.Sprintf("malformed request: line exceeds %d bytes", maxIPCLine)}
			} else {
				if len(bytes.TrimSpace(sl.data)) == 0 {
					continue
				}
				resp = s.Handle(ctx, sl.data)
			}
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("writing ipc response: %w", err)
			}
			if err := out.Flush(); err != nil {
				return fmt.Errorf("flushing ipc response: %w", err)
			}
		}
	}
}

// readLines sends each line of r on lines until EOF, a read error, or
// cancellation, then closes lines.
func readLines(ctx context.Context, r io.Reader, lines chan<- scannedLine) {
	defer close(lines)
	br := bufio.NewReaderSize(r, 64*1024)
	send := func(sl scannedLine) bool {
		select {
		case lines <- sl:
			return true
		case <-ctx.Done():
			return false
		}
	}
	for {
		data, tooLong, err := readLine(br)
		if tooLong || len(data) > 0 {
			if !send(scannedLine{data: data, tooLong: tooLong}) {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				send(scannedLine{err: err})
			}
			return
		}
	}
}

// readLine returns the next line without its line ending. A line longer than
// maxIPCLine is consumed through its newline and reported as tooLong with no
// data.
func readLine(br *bufio.Reader) ([]byte, bool, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			if len(bytes.TrimRight(chunk, "\r\n"))+len(buf) > maxIPCLine {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if tooLong {
			return nil, true, err
		}
		return bytes.TrimRight(buf, "\r\n"), false, err
	}
}

// Handle decodes a single request line, invokes the command, and builds the
// response. It never fails; every problem becomes an error response.
func (s *IPCServer) Handle(ctx context.Context, line []byte) IPCResponse {
	var req IPCRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn("malformed ipc request", "error", err)
		return IPCResponse{Error: fmt.Sprintf("malformed request: %v", err)}
	}
	if req.Cmd == "" {
		return IPCResponse{ID: req.ID, Error: "malformed request: missing cmd"}
	}

	start := time.Now()
	result, err := s.invoker.Invoke(ctx, req.Cmd, req.Args)
	if err != nil {
		s.logger.Warn("command failed", "cmd", req.Cmd, "error", err)
		return IPCResponse{ID: req.ID, Error: err.Error()}
	}

	data, err := marshalResult(result)
	if err != nil {
		s.logger.Error("encoding command result", "cmd", req.Cmd, "error", err)
		return IPCResponse{ID: req.ID, Error: fmt.Sprintf("encoding result: %v", err)}
	}

	s.logger.Debug("command handled", "cmd", req.Cmd, "duration", time.Since(start))
	return IPCResponse{ID: req.ID, OK: true, Result: data}
}

// marshalResult encodes v without HTML escaping so strings reach the shell
// exactly as the command produced them.
func marshalResult(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
