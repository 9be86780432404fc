package redisclient

import (
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestFormatRecordID(t *testing.T) {
	id := "1709993107042-3"
	got := FormatRecordID(id)
	// Pinned to the UTC rendering so a host time zone never leaks in.
	want := "14:05:07.042:3"
	if got != want {
		t.Errorf("FormatRecordID(%q) = %q, want %q", id, got, want)
	}
}

func TestFormatRecordID_MalformedVerbatim(t *testing.T) {
	for _, id := range []string{"", "nodash", "abc-3", "12.5-0"} {
		if got := FormatRecordID(id); got != id {
			t.Errorf("FormatRecordID(%q) = %q, want input verbatim", id, got)
		}
	}
}

func TestToRecords_FieldsSortedByName(t *testing.T) {
	msgs := []redis.XMessage{
		{ID: "1-0", Values: map[string]interface{}{"z": "last", "_": "payload", "a": "first"}},
	}
	records := toRecords(msgs)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	fields := records[0].Fields
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	for i := 1; i < len(fields); i++ {
		if fields[i-1].Name > fields[i].Name {
			t.Fatalf("fields not sorted: %q before %q", fields[i-1].Name, fields[i].Name)
		}
	}
	if fields[0].Name != "_" {
		t.Errorf("expected underscore field first in sort order, got %q", fields[0].Name)
	}
	if string(fields[0].Value) != "payload" {
		t.Errorf("field value lost in conversion: %q", fields[0].Value)
	}
}

func TestToBytes(t *testing.T) {
	got := toBytes([]string{"a", "", "cd"})
	if len(got) != 3 || string(got[0]) != "a" || len(got[1]) != 0 || string(got[2]) != "cd" {
		t.Errorf("toBytes conversion wrong: %q", got)
	}
}
