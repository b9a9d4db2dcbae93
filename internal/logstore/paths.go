package logstore

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

const (
	// TodayID selects the partition for the current UTC date.
	TodayID = "today"

	partitionSuffix = ".log"
	partitionLayout = "2006-01-02"
)

// ErrInvalidPartition is returned for identifiers that cannot name a file
// directly inside the log root.
var ErrInvalidPartition = errors.New("invalid partition id")

// Clock supplies the current instant.
type Clock func() time.Time

// Resolver maps partition identifiers to files under the log root.
type Resolver struct {
	root string
	now  Clock
}

// NewResolver builds a Resolver rooted at dir. A nil clock uses time.Now.
func NewResolver(dir string, now Clock) Resolver {
	if now == nil {
		now = time.Now
	}
	return Resolver{root: dir, now: now}
}

// Root returns the log directory.
func (r Resolver) Root() string {
	return r.root
}

// Now returns the resolver's current instant.
func (r Resolver) Now() time.Time {
	return r.now()
}

// CurrentPartitionID returns today's identifier in UTC.
func (r Resolver) CurrentPartitionID() string {
	return PartitionID(r.now())
}

// PartitionPath maps id to its file. It does not check existence.
func (r Resolver) PartitionPath(id string) string {
	return filepath.Join(r.root, id+partitionSuffix)
}

// PartitionID formats the UTC calendar date of t as a partition identifier.
func PartitionID(t time.Time) string {
	return t.UTC().Format(partitionLayout)
}

// resolve expands TodayID and rejects identifiers that would escape the root.
// Any other identifier is used verbatim.
func (r Resolver) resolve(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || id == TodayID {
		return r.CurrentPartitionID(), nil
	}
	id = strings.TrimSuffix(id, partitionSuffix)
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`+"\x00") {
		return "", ErrInvalidPartition
	}
	return id, nil
}

func partitionIDFromName(name string) (string, bool) {
	id, ok := strings.CutSuffix(name, partitionSuffix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
