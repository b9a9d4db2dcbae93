package logstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
)

const (
	DefaultRetention    = 7 * 24 * time.Hour
	DefaultMaxReadLines = 10000
	DefaultReadLines    = 500
)

// Options configure a Store.
type Options struct {
	Dir              string
	Retention        time.Duration // zero uses DefaultRetention
	MaxReadLines     int           // ceiling for any single read; zero uses DefaultMaxReadLines
	DefaultReadLines int           // reported by ReadLimits for callers that pick no count
	MaxLineBytes     int           // zero, or anything above the package MaxLineBytes, uses MaxLineBytes
	Clock            Clock

	// Logger receives diagnostics and, with Echo set, a copy of every record.
	Logger *charmLog.Logger
	Echo   bool

	// OnFault observes writer and sweeper faults the store swallows.
	OnFault func(Op, error)
}

// ReadResult is the outcome of a tail read. Levels[i] classifies Lines[i].
type ReadResult struct {
	Partition string
	Lines     []string
	Levels    []Level
	Message   string
}

// Store is the single entry point to the date-partitioned log directory.
type Store struct {
	paths            Resolver
	writer           *appender
	faults           *faults
	retention        time.Duration
	maxReadLines     int
	defaultReadLines int
	logger           *charmLog.Logger
	echo             bool
}

// New validates opts and returns a Store. The log directory is created lazily
// on first append.
func New(opts Options) (*Store, error) {
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		return nil, errors.New("log dir is empty")
	}
	if opts.Retention < 0 {
		return nil, fmt.Errorf("retention %v is negative", opts.Retention)
	}
	if opts.Retention == 0 {
		opts.Retention = DefaultRetention
	}
	if opts.MaxReadLines <= 0 {
		opts.MaxReadLines = DefaultMaxReadLines
	}
	if opts.DefaultReadLines <= 0 {
		opts.DefaultReadLines = DefaultReadLines
	}
	if opts.DefaultReadLines > opts.MaxReadLines {
		opts.DefaultReadLines = opts.MaxReadLines
	}
	if opts.MaxLineBytes <= 0 || opts.MaxLineBytes > MaxLineBytes {
		opts.MaxLineBytes = MaxLineBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = charmLog.New(io.Discard)
	}

	paths := NewResolver(dir, opts.Clock)
	f := &faults{logger: logger, hook: opts.OnFault, now: paths.now}
	return &Store{
		paths:            paths,
		writer:           &appender{paths: paths, faults: f, maxLineBytes: opts.MaxLineBytes},
		faults:           f,
		retention:        opts.Retention,
		maxReadLines:     opts.MaxReadLines,
		defaultReadLines: opts.DefaultReadLines,
		logger:           logger,
		echo:             opts.Echo,
	}, nil
}

// Dir returns the log directory.
func (s *Store) Dir() string { return s.paths.Root() }

// Today returns the identifier of the partition currently being appended to.
func (s *Store) Today() string { return s.paths.CurrentPartitionID() }

// Retention returns the configured retention window.
func (s *Store) Retention() time.Duration { return s.retention }

// ReadLimits returns the default line count and the hard ceiling for reads.
func (s *Store) ReadLimits() (def, ceiling int) {
	return s.defaultReadLines, s.maxReadLines
}

// Faults returns the counters of swallowed writer and sweeper faults.
func (s *Store) Faults() FaultSnapshot {
	return s.faults.snapshot()
}

// Record appends one record to today's partition. It never fails from the
// caller's point of view.
func (s *Store) Record(level Level, message string) {
	s.writer.append(level, message)
	if s.echo {
		s.echoRecord(level, message)
	}
}

// Info records its arguments at info level.
func (s *Store) Info(args ...any) { s.Record(LevelInfo, formatArgs(args)) }

// Warn records its arguments at warn level.
func (s *Store) Warn(args ...any) { s.Record(LevelWarn, formatArgs(args)) }

// Error records its arguments at error level.
func (s *Store) Error(args ...any) { s.Record(LevelError, formatArgs(args)) }

// Request records a completed HTTP request as "[METHOD] path status Nms".
func (s *Store) Request(method, path string, status int, duration time.Duration) {
	s.Record(LevelRequest, formatRequest(method, path, status, duration))
}

func (s *Store) echoRecord(level Level, message string) {
	switch level {
	case LevelWarn:
		s.logger.Warn(message)
	case LevelError:
		s.logger.Error(message)
	case LevelRequest:
		s.logger.Info(message, "level", level)
	default:
		s.logger.Info(message)
	}
}

// ListPartitions returns every partition identifier, most recent first. A
// missing log directory yields an empty list.
func (s *Store) ListPartitions() ([]string, error) {
	entries, err := os.ReadDir(s.paths.Root())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list partitions: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, ok := partitionIDFromName(entry.Name()); ok {
			ids = append(ids, id)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids, nil
}

// Read returns at most min(maxLines, ceiling) lines from the end of the
// partition named by id, or today's partition for TodayID. maxLines <= 0
// returns no lines; callers wanting the configured default take it from
// ReadLimits. A missing partition is a successful empty read carrying an
// explanatory message.
func (s *Store) Read(id string, maxLines int) (ReadResult, error) {
	resolved, err := s.paths.resolve(id)
	if err != nil {
		return ReadResult{}, fmt.Errorf("read %q: %w", id, err)
	}
	if maxLines > s.maxReadLines {
		maxLines = s.maxReadLines
	}

	lines, found, err := readTail(s.paths.PartitionPath(resolved), maxLines)
	if err != nil {
		return ReadResult{Partition: resolved}, err
	}
	result := ReadResult{Partition: resolved, Lines: lines}
	if !found {
		result.Lines = []string{}
		result.Message = "no log for this partition"
		if resolved == s.Today() {
			result.Message = "no log for today"
		}
	}
	result.Levels = make([]Level, len(result.Lines))
	for i, line := range result.Lines {
		result.Levels[i] = ClassifyLine(line)
	}
	return result, nil
}
