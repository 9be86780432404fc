package types

import (
	"context"
	"time"
)

// Field is one named byte payload inside a hash or stream record.
type Field struct {
	Name  string
	Value []byte
}

// Record is a single append-only stream record identified by a monotonic id.
type Record struct {
	ID     string
	Fields []Field
}

// ScoredMember is one member of a sorted set together with its score.
type ScoredMember struct {
	Member []byte
	Score  float64
}

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	ValueBytes   ValueKind = iota // Raw byte payload.
	ValueList                     // Ordered list of byte payloads.
	ValueSet                      // Unordered set of byte payloads.
	ValueZSet                     // Members with scores, score order.
	ValueHash                     // Field/value pairs, field order.
	ValueStream                   // Append-only records.
	ValueUnknown                  // Unsupported upstream type.
)

// Value is the tagged union of everything the store can hand back for a key.
// Exactly one payload field is meaningful for a given Kind.
type Value struct {
	Kind    ValueKind
	Bytes   []byte
	Items   [][]byte
	Members []ScoredMember
	Pairs   []Field
	Records []Record
	Note    string
}

// KeyInfo describes a key without fetching its payload.
type KeyInfo struct {
	Name     string
	Type     string
	TTL      int64
	Memory   int64
	Encoding string
}

// ValueFetcher is the read surface the dashboard uses on its own connection.
type ValueFetcher interface {
	FetchValue(ctx context.Context, key string) (Value, error)
	KeyInfo(ctx context.Context, key string) (KeyInfo, error)
}

// StreamReader is the blocking-read surface a live ingest worker owns.
// ReadNewRecords returns records with ids strictly after afterID, waiting up
// to block for new data; a timeout yields an empty batch and a nil error.
type StreamReader interface {
	ReadNewRecords(ctx context.Context, key, afterID string, block time.Duration) ([]Record, error)
	Close() error
}

// StreamAppender is the write surface a signal generator worker owns.
type StreamAppender interface {
	AppendRecord(ctx context.Context, key, field string, value []byte) (string, error)
	Close() error
}

// ReaderDial establishes a dedicated stream-reading connection for a worker.
type ReaderDial func() (StreamReader, error)

// AppenderDial establishes a dedicated stream-appending connection for a worker.
type AppenderDial func() (StreamAppender, error)

// Worker is a cancellable background loop pinned to one key. Stop blocks
// until the loop has observably exited, so a stopped worker never races a
// successor on the same channel.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
	IsStarted() bool
	Key() string
	GetComponentMetadata() ComponentMetadata
}
