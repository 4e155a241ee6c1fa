package core

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ErrClockBeforeEpoch is returned when the wall clock reports a time earlier
// than the Unix epoch, which leaves no valid timestamp prefix to emit.
var ErrClockBeforeEpoch = errors.New("system clock is before the Unix epoch")

// ErrMalformedID is returned by ParseID for tokens that do not have the
// <unix-ms>-<8 hex> shape.
var ErrMalformedID = errors.New("malformed identifier")

// idSuffixLen is the number of leading characters kept from the canonical
// UUID string. The first group of a hyphenated UUID is exactly 8 hex digits.
const idSuffixLen = 8

var idPattern = regexp.MustCompile(`^([0-9]+)-([0-9a-f]{8})$`)

// IDGenerator defines the interface for generating identifiers for tasks and
// subtasks created by the presentation layer.
type IDGenerator interface {
	GenerateID() (string, error)
}

// IDGeneratorOptions overrides the clock and random source of an IDGenerator.
// Zero values select time.Now and uuid.NewRandom.
type IDGeneratorOptions struct {
	Now    func() time.Time
	Random func() (uuid.UUID, error)
}

// timestampIDGenerator implements IDGenerator by joining the current Unix
// millisecond timestamp with a truncated random UUID.
type timestampIDGenerator struct {
	now    func() time.Time
	random func() (uuid.UUID, error)
}

// NewIDGenerator creates an IDGenerator. It holds no mutable state and is safe
// for concurrent use.
func NewIDGenerator(opts IDGeneratorOptions) IDGenerator {
	g := &timestampIDGenerator{now: opts.Now, random: opts.Random}
	if g.now == nil {
		g.now = time.Now
	}
	if g.random == nil {
		g.random = uuid.NewRandom
	}
	return g
}

// GenerateID returns a token of the form <unix-ms>-<8 hex>, e.g.
// 1736935200000-3f2a9c1e. The prefix is non-decreasing as long as the clock is.
func (g *timestampIDGenerator) GenerateID() (string, error) {
	now := g.now()
	if now.Before(time.Unix(0, 0)) {
		return "", fmt.Errorf("generating id: %w (clock reads %s)", ErrClockBeforeEpoch, now.UTC().Format(time.RFC3339Nano))
	}

	u, err := g.random()
	if err != nil {
		return "", fmt.Errorf("generating id: reading random uuid: %w", err)
	}

	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + u.String()[:idSuffixLen], nil
}

// IDParts is a parsed identifier.
type IDParts struct {
	Millis int64
	Suffix string
}

// Time returns the timestamp prefix as a UTC time.
func (p IDParts) Time() time.Time {
	return time.UnixMilli(p.Millis).UTC()
}

// ParseID splits an identifier into its timestamp and random suffix.
func ParseID(token string) (IDParts, error) {
	m := idPattern.FindStringSubmatch(token)
	if m == nil {
		return IDParts{}, fmt.Errorf("%w: %q", ErrMalformedID, token)
	}
	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return IDParts{}, fmt.Errorf("%w: timestamp %q: %v", ErrMalformedID, m[1], err)
	}
	return IDParts{Millis: ms, Suffix: m[2]}, nil
}
