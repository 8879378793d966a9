package config

import (
	"strings"
	"time"

	"github.com/razanlang/razan/pkg/value"
)

// Section is a named, flat mapping from key to Value. Keys keep the order in
// which they were first assigned.
type Section struct {
	name   string
	keys   []string
	values map[string]value.Value
}

func newSection(name string) *Section {
	return &Section{
		name:   name,
		values: make(map[string]value.Value),
	}
}

// set stores v under key. Reassigning a key keeps its original position.
func (s *Section) set(key string, v value.Value) {
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
}

// Name returns the section name as written between the brackets.
func (s *Section) Name() string {
	return s.name
}

// Get returns the value stored under key.
func (s *Section) Get(key string) (value.Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the section keys in assignment order.
func (s *Section) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys.
func (s *Section) Len() int {
	return len(s.keys)
}

// ToMap returns the section as a map of plain Go values.
func (s *Section) ToMap() map[string]any {
	m := make(map[string]any, len(s.keys))
	for _, k := range s.keys {
		m[k] = s.values[k].Interface()
	}
	return m
}

// Document is a parsed .razan file: top-level values plus named sections.
// A Document is not modified after parsing and is safe for concurrent reads.
type Document struct {
	// Source is the file the document was read from, or "inline".
	Source string

	// ParsedAt is when parsing completed.
	ParsedAt time.Time

	root     *Section
	sections map[string]*Section
	order    []string
	stats    Stats

	// names holds top-level keys and section names in first-write order.
	// sectionWins[name] is true when the latest write to name declared a
	// section rather than assigning a top-level key.
	names       []string
	sectionWins map[string]bool
}

func newDocument(source string) *Document {
	return &Document{
		Source:   source,
		root:     newSection(""),
		sections: make(map[string]*Section),
		stats:    Stats{Skipped: make(map[SkipReason]int)},

		sectionWins: make(map[string]bool),
	}
}

// claim records a write to a top-level name.
func (d *Document) claim(name string, section bool) {
	if _, seen := d.sectionWins[name]; !seen {
		d.names = append(d.names, name)
	}
	d.sectionWins[name] = section
}

// setTop assigns a top-level key.
func (d *Document) setTop(key string, v value.Value) {
	d.root.set(key, v)
	d.claim(key, false)
}

// resetSection creates name as an empty section, replacing any previous
// declaration. A redeclared section keeps its original position.
func (d *Document) resetSection(name string) *Section {
	if _, exists := d.sections[name]; !exists {
		d.order = append(d.order, name)
	}
	s := newSection(name)
	d.sections[name] = s
	d.claim(name, true)
	return s
}

// Get returns a top-level value.
func (d *Document) Get(key string) (value.Value, bool) {
	return d.root.Get(key)
}

// Keys returns the top-level keys in assignment order.
func (d *Document) Keys() []string {
	return d.root.Keys()
}

// Section returns the named section.
func (d *Document) Section(name string) (*Section, bool) {
	s, ok := d.sections[name]
	return s, ok
}

// Sections returns all sections in declaration order.
func (d *Document) Sections() []*Section {
	out := make([]*Section, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.sections[name])
	}
	return out
}

// SectionNames returns the section names in declaration order.
func (d *Document) SectionNames() []string {
	return append([]string(nil), d.order...)
}

// Lookup resolves "KEY" against the top level and "SECTION.KEY" against a
// section. Keys never contain dots, so the last dot separates the section
// name (which may itself contain dots) from the key.
func (d *Document) Lookup(path string) (value.Value, bool) {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return d.Get(path)
	}
	s, ok := d.sections[path[:idx]]
	if !ok {
		return value.Value{}, false
	}
	return s.Get(path[idx+1:])
}

// Stats returns parse statistics.
func (d *Document) Stats() Stats {
	return d.stats
}

// ToMap returns the document as nested maps of plain Go values. Sections
// appear as map[string]any. When a top-level key and a section share a
// name, whichever was written last is used.
func (d *Document) ToMap() map[string]any {
	m := make(map[string]any, len(d.names))
	for _, e := range d.entries() {
		if e.section != nil {
			m[e.key] = e.section.ToMap()
		} else {
			m[e.key] = e.value.Interface()
		}
	}
	return m
}

// entry is one top-level member of a document in output order.
type entry struct {
	key     string
	value   value.Value
	section *Section
}

// entries lists top-level members in first-write order, each resolved to
// its latest write.
func (d *Document) entries() []entry {
	out := make([]entry, 0, len(d.names))
	for _, name := range d.names {
		if d.sectionWins[name] {
			out = append(out, entry{key: name, section: d.sections[name]})
		} else {
			out = append(out, entry{key: name, value: d.root.values[name]})
		}
	}
	return out
}
