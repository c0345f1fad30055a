package logger

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// DefaultBufferSize is the number of entries kept in memory.
const DefaultBufferSize = 1000

// LogEntry is one log line as exposed over HTTP.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogBuffer is a fixed-size ring of recent entries.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int
	full    bool
}

// NewLogBuffer returns a buffer holding at most size entries.
func NewLogBuffer(size int) *LogBuffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &LogBuffer{entries: make([]LogEntry, size)}
}

var (
	logBuffer = NewLogBuffer(DefaultBufferSize)

	callbackMu sync.RWMutex
	broadcast  func(LogEntry)
)

// GetLogBuffer returns the global buffer.
func GetLogBuffer() *LogBuffer {
	return logBuffer
}

// SetBroadcastCallback registers fn to receive every new entry.
func SetBroadcastCallback(fn func(LogEntry)) {
	callbackMu.Lock()
	broadcast = fn
	callbackMu.Unlock()
}

// Add appends an entry, overwriting the oldest one when full.
func (b *LogBuffer) Add(entry LogEntry) {
	b.mu.Lock()
	b.entries[b.next] = entry
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}
	b.mu.Unlock()
}

// GetRecent returns up to n entries, oldest first.
func (b *LogBuffer) GetRecent(n int) []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := b.next
	if b.full {
		count = len(b.entries)
	}
	if n <= 0 || n > count {
		n = count
	}
	res := make([]LogEntry, 0, n)
	start := b.next - n
	for i := 0; i < n; i++ {
		idx := (start + i + len(b.entries)) % len(b.entries)
		res = append(res, b.entries[idx])
	}
	return res
}

// Clear drops all entries.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	for i := range b.entries {
		b.entries[i] = LogEntry{}
	}
	b.next = 0
	b.full = false
	b.mu.Unlock()
}

// ToJSON encodes every entry as an indented JSON array.
func (b *LogBuffer) ToJSON() ([]byte, error) {
	return json.MarshalIndent(b.GetRecent(0), "", "  ")
}

// ToText renders every entry as one line of text.
func (b *LogBuffer) ToText() string {
	var sb strings.Builder
	for _, e := range b.GetRecent(0) {
		fmt.Fprintf(&sb, "%s\t%s\t%s", e.Timestamp.Format(time.RFC3339), strings.ToUpper(e.Level), e.Message)
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "\t%s=%v", k, e.Fields[k])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// bufferCore is a zapcore.Core feeding a LogBuffer and the broadcast hook.
type bufferCore struct {
	zapcore.LevelEnabler
	buf    *LogBuffer
	fields []zapcore.Field
}

func newBufferCore(enab zapcore.LevelEnabler, buf *LogBuffer) zapcore.Core {
	return &bufferCore{LevelEnabler: enab, buf: buf}
}

func (c *bufferCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field(nil), c.fields...), fields...)
	return &clone
}

func (c *bufferCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *bufferCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	entry := LogEntry{
		Timestamp: ent.Time,
		Level:     ent.Level.String(),
		Message:   ent.Message,
	}
	if len(enc.Fields) > 0 {
		entry.Fields = enc.Fields
	}
	c.buf.Add(entry)

	callbackMu.RLock()
	fn := broadcast
	callbackMu.RUnlock()
	if fn != nil {
		fn(entry)
	}
	return nil
}

func (c *bufferCore) Sync() error {
	return nil
}
