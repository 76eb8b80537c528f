// Package measurement stores clinical parameters as a name to value mapping
// with explicit missing semantics. Values come from echo and Doppler CSV
// exports; which study a value belongs to is a property of the load call,
// not of the data itself.
package measurement

import "strings"

// Source identifies which study a set of records came from.
type Source string

const (
	SourceEcho    Source = "echo"
	SourceDoppler Source = "doppler"
)

// Record is one raw name/value pair as read from an input file.
type Record struct {
	Name     string
	RawValue string
}

// Store holds loaded measurements keyed by parameter name, per source.
// A Store is populated once via Load calls and read-only afterwards.
type Store struct {
	bySource map[Source]map[string]Value
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{bySource: make(map[Source]map[string]Value)}
}

// Load parses and records all raw values under the given source. Raw tokens
// are trimmed and passed through the numeric sniffing rule; everything that
// fails it is retained as text.
func (s *Store) Load(src Source, records []Record) {
	m := s.bySource[src]
	if m == nil {
		m = make(map[string]Value)
		s.bySource[src] = m
	}
	for _, r := range records {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		m[name] = parseValue(strings.TrimSpace(r.RawValue))
	}
}

// Get returns the value stored under name, searching echo first and then
// Doppler. Absent names yield the Missing value, never an error.
func (s *Store) Get(name string) Value {
	for _, src := range []Source{SourceEcho, SourceDoppler} {
		if v, ok := s.bySource[src][name]; ok {
			return v
		}
	}
	return Missing
}

// GetFrom returns the value stored under name for one specific source.
func (s *Store) GetFrom(src Source, name string) Value {
	if v, ok := s.bySource[src][name]; ok {
		return v
	}
	return Missing
}

// HasSource reports whether any records were loaded for the given source.
func (s *Store) HasSource(src Source) bool {
	return len(s.bySource[src]) > 0
}

// Len returns the total number of stored measurements across all sources.
func (s *Store) Len() int {
	n := 0
	for _, m := range s.bySource {
		n += len(m)
	}
	return n
}
