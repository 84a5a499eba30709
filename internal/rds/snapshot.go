package rds

import (
	"fmt"
	"strings"
	"time"
)

// descriptorSeparator joins a snapshot id to its creation time in the
// display descriptor. Downstream consumers split on it to recover the id.
const descriptorSeparator = "|"

// descriptorTimeFormat renders creation times at second precision in UTC.
const descriptorTimeFormat = "2006-01-02 15:04:05"

// Snapshot describes one cluster snapshot
type Snapshot struct {
	ID        string
	CreatedAt time.Time
}

// Descriptor returns the display string for the snapshot, combining its
// identifier and UTC creation time: "snap-1|2023-01-02 03:04:05".
func (s Snapshot) Descriptor() string {
	return s.ID + descriptorSeparator + s.CreatedAt.UTC().Format(descriptorTimeFormat)
}

// Descriptors formats a snapshot list for presentation, preserving order
func Descriptors(snapshots []Snapshot) []string {
	out := make([]string, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, s.Descriptor())
	}
	return out
}

// SplitDescriptor recovers the snapshot id and creation time from a
// descriptor string produced by Descriptor.
func SplitDescriptor(descriptor string) (string, time.Time, error) {
	id, ts, ok := strings.Cut(descriptor, descriptorSeparator)
	if !ok || id == "" {
		return "", time.Time{}, fmt.Errorf("invalid snapshot descriptor %q", descriptor)
	}

	createdAt, err := time.Parse(descriptorTimeFormat, ts)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid snapshot descriptor %q: %w", descriptor, err)
	}

	return id, createdAt.UTC(), nil
}

// SnapshotIDFromChoice extracts the bare snapshot id from an operator
// choice, which may be either a plain id or a full descriptor.
func SnapshotIDFromChoice(choice string) string {
	id, _, _ := strings.Cut(choice, descriptorSeparator)
	return id
}
