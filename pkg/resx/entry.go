// SPDX-License-Identifier: MPL-2.0

package resx

import (
	"iter"
	"slices"
	"strings"
)

const (
	stringTypePrefix  = "System.String,"
	fileRefTypePrefix = "System.Resources.ResXFileRef,"
)

type (
	// Entry is one named resource record. Nil pointers mark attributes or
	// elements that were absent in the source document.
	Entry struct {
		Name    string
		Value   *string
		Comment *string
		Type    *string
	}

	// Entries is an insertion-ordered collection of entries keyed by name.
	Entries struct {
		order []string
		byKey map[string]*Entry
	}
)

// NewEntries returns an empty collection.
func NewEntries() *Entries {
	return &Entries{byKey: make(map[string]*Entry)}
}

// IsText reports whether the entry is a string resource. Entries without a
// type attribute are text; typed entries are text only when the value's
// second ';' segment names System.String (a file reference to a text file).
func (e Entry) IsText() bool {
	if e.Type == nil {
		return true
	}
	seg, ok := e.typeSegment()
	return ok && strings.HasPrefix(seg, stringTypePrefix)
}

// IsFileRef reports whether the entry references an external file.
func (e Entry) IsFileRef() bool {
	return e.Type != nil && strings.HasPrefix(*e.Type, fileRefTypePrefix)
}

// TypeName returns the C# type an accessor for the entry should expose:
// "string" for text entries, otherwise the type named by the value's second
// ';' segment with its assembly qualification removed.
func (e Entry) TypeName() (string, bool) {
	if e.IsText() {
		return "string", true
	}
	seg, ok := e.typeSegment()
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(seg, ",")
	name = strings.TrimSpace(name)
	return name, name != ""
}

// ValueOr returns the value, or def when absent.
func (e Entry) ValueOr(def string) string {
	if e.Value == nil {
		return def
	}
	return *e.Value
}

// CommentOr returns the comment, or def when absent.
func (e Entry) CommentOr(def string) string {
	if e.Comment == nil {
		return def
	}
	return *e.Comment
}

func (e Entry) typeSegment() (string, bool) {
	if e.Value == nil {
		return "", false
	}
	parts := strings.Split(*e.Value, ";")
	if len(parts) < 2 {
		return "", false
	}
	return parts[1], true
}

// Merge adds e unless an entry with the same name already exists. When it
// does, the existing entry keeps its value and type and only gains e's
// comment if it had none.
func (es *Entries) Merge(e Entry) {
	if existing, ok := es.byKey[e.Name]; ok {
		if existing.Comment == nil {
			existing.Comment = e.Comment
		}
		return
	}
	stored := e
	es.byKey[e.Name] = &stored
	es.order = append(es.order, e.Name)
}

// Get returns the entry named name.
func (es *Entries) Get(name string) (Entry, bool) {
	e, ok := es.byKey[name]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Len returns the number of distinct names.
func (es *Entries) Len() int { return len(es.order) }

// All yields entries in first-insertion order.
func (es *Entries) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, name := range es.order {
			if !yield(*es.byKey[name]) {
				return
			}
		}
	}
}

// Sorted returns the entries ordered by name using ordinal byte comparison.
func (es *Entries) Sorted() []Entry {
	out := slices.Collect(es.All())
	slices.SortStableFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out
}
