package redisclient

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatRecordID renders a stream record id (unix_ms-seq) as a UTC wall-clock
// timestamp, HH:MM:SS.mmm:seq. Malformed ids come back verbatim.
func FormatRecordID(id string) string {
	ms, seq, ok := strings.Cut(id, "-")
	if !ok {
		return id
	}
	unixMS, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return id
	}
	t := time.UnixMilli(unixMS).UTC()
	return fmt.Sprintf("%02d:%02d:%02d.%03d:%s",
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1e6, seq)
}
