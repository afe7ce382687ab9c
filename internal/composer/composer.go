// Package composer implements the field-by-field JSON object editor backing
// the visual settings editor. It models an ordered list of typed field
// entries, validates the whole set after every transition, and only hands a
// materialized JSON object back to the caller while the set is valid; while
// invalid the previously emitted object is retained.
package composer

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FieldType is the declared type tag of a field entry.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeObject  FieldType = "object" // nested arbitrary JSON
)

// Field is one key/value/type entry in the in-progress object. ID is stable
// across edits and independent of position.
type Field struct {
	ID    string
	Key   string
	Value string
	Type  FieldType
}

// Composer is the editor state machine. It is not safe for concurrent use;
// callers drive it from a single goroutine.
type Composer struct {
	fields  []Field
	valid   bool
	emitted json.RawMessage
}

// New builds a Composer from a starting JSON text. If the text parses as an
// object, each top-level property becomes one field entry in encounter order
// with its type inferred from the value. Any other input (including malformed
// JSON) yields a single placeholder entry; the initial text never surfaces a
// parse error.
func New(initial string) *Composer {
	c := &Composer{}
	if fields, ok := parseTopLevel(initial); ok {
		c.fields = fields
	} else {
		c.fields = []Field{{
			ID:    uuid.NewString(),
			Key:   "key",
			Value: "value",
			Type:  TypeString,
		}}
	}
	c.refresh()
	return c
}

// Fields returns a copy of the current entries in order.
func (c *Composer) Fields() []Field {
	out := make([]Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// Valid reports whether every entry is individually error-free.
func (c *Composer) Valid() bool { return c.valid }

// Value returns the last emitted JSON object. While the entry set is invalid
// this is the most recent good value, unchanged.
func (c *Composer) Value() json.RawMessage { return c.emitted }

// FieldInvalid reports whether the entry with the given id is in error.
// Unknown ids report false.
func (c *Composer) FieldInvalid(id string) bool {
	for _, f := range c.fields {
		if f.ID == id {
			return fieldInvalid(f)
		}
	}
	return false
}

// AddField appends a new empty string-typed entry and returns its id.
func (c *Composer) AddField() string {
	f := Field{ID: uuid.NewString(), Type: TypeString}
	c.fields = append(c.fields, f)
	c.refresh()
	return f.ID
}

// RemoveField deletes the entry with the given id. It reports whether an
// entry was removed.
func (c *Composer) RemoveField(id string) bool {
	for i, f := range c.fields {
		if f.ID == id {
			c.fields = append(c.fields[:i], c.fields[i+1:]...)
			c.refresh()
			return true
		}
	}
	return false
}

// SetKey replaces the key of the entry with the given id.
func (c *Composer) SetKey(id, key string) bool {
	return c.edit(id, func(f *Field) { f.Key = key })
}

// SetValue replaces the raw text value of the entry with the given id.
func (c *Composer) SetValue(id, value string) bool {
	return c.edit(id, func(f *Field) { f.Value = value })
}

// SetType replaces the declared type of the entry with the given id.
func (c *Composer) SetType(id string, t FieldType) bool {
	return c.edit(id, func(f *Field) { f.Type = t })
}

func (c *Composer) edit(id string, fn func(*Field)) bool {
	for i := range c.fields {
		if c.fields[i].ID == id {
			fn(&c.fields[i])
			c.refresh()
			return true
		}
	}
	return false
}

// refresh recomputes validity over the whole entry set and, when valid,
// rebuilds the emitted object. Validation is a pure function of the entries,
// so the recomputation order of individual edits never matters.
func (c *Composer) refresh() {
	c.valid = true
	for _, f := range c.fields {
		if fieldInvalid(f) {
			c.valid = false
			break
		}
	}
	if !c.valid {
		return
	}
	c.emitted = materialize(c.fields)
}

// fieldInvalid applies the per-type rule: number and object entries are in
// error iff their raw value is non-empty and fails to parse; string and
// boolean entries are never in error. Whitespace-only values count as empty,
// so they are valid and convert to the type's zero value.
func fieldInvalid(f Field) bool {
	raw := strings.TrimSpace(f.Value)
	if raw == "" {
		return false
	}
	switch f.Type {
	case TypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return true
		}
		// ParseFloat accepts "NaN" and "Infinity", but those have no JSON
		// representation, so they cannot count as numbers here.
		return math.IsNaN(n) || math.IsInf(n, 0)
	case TypeObject:
		return !json.Valid([]byte(raw))
	default:
		return false
	}
}

// materialize builds the emitted object by iterating entries in order,
// skipping blank keys. A later entry with a duplicate key overwrites the
// earlier value while the key keeps its first position, matching ordinary
// object-construction semantics.
func materialize(fields []Field) json.RawMessage {
	type member struct {
		key string
		val json.RawMessage
	}
	var members []member
	index := make(map[string]int)
	for _, f := range fields {
		if strings.TrimSpace(f.Key) == "" {
			continue
		}
		val := convert(f)
		if i, ok := index[f.Key]; ok {
			members[i].val = val
			continue
		}
		index[f.Key] = len(members)
		members = append(members, member{key: f.Key, val: val})
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(m.key)
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(m.val)
	}
	buf.WriteByte('}')
	return json.RawMessage(buf.Bytes())
}

// convert turns an entry's raw text into a JSON value per its declared type.
func convert(f Field) json.RawMessage {
	raw := strings.TrimSpace(f.Value)
	switch f.Type {
	case TypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			n = 0
		}
		b, err := json.Marshal(n)
		if err != nil {
			// Non-finite floats cannot be marshaled; validation already
			// rejects them, so this only guards the emitted text.
			return json.RawMessage("0")
		}
		return b
	case TypeBoolean:
		if f.Value == "true" {
			return json.RawMessage("true")
		}
		return json.RawMessage("false")
	case TypeObject:
		if raw != "" && json.Valid([]byte(raw)) {
			var buf bytes.Buffer
			if err := json.Compact(&buf, []byte(raw)); err == nil {
				return buf.Bytes()
			}
		}
		return json.RawMessage("{}")
	default:
		b, _ := json.Marshal(f.Value)
		return b
	}
}

// parseTopLevel splits a JSON object into ordered field entries. It reports
// false for any input that is not a single well-formed object.
func parseTopLevel(raw string) ([]Field, bool) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, false
	}

	var fields []Field
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, false
		}
		f := inferField(key, val)
		f.ID = uuid.NewString()
		fields = append(fields, f)
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF { // trailing garbage
		return nil, false
	}
	return fields, true
}

// inferField maps a decoded top-level value onto a field entry: objects and
// arrays keep their re-serialized text under the object tag, numbers and
// booleans keep their literals, and everything else (including null) is
// treated as a string.
func inferField(key string, val json.RawMessage) Field {
	f := Field{Key: key, Type: TypeString}
	trimmed := bytes.TrimSpace(val)
	if len(trimmed) == 0 {
		return f
	}
	switch trimmed[0] {
	case '{', '[':
		f.Type = TypeObject
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			f.Value = buf.String()
		} else {
			f.Value = string(trimmed)
		}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			f.Value = s
		} else {
			f.Value = string(trimmed)
		}
	case 't', 'f':
		f.Type = TypeBoolean
		f.Value = string(trimmed)
	case 'n':
		f.Value = "null"
	default:
		f.Type = TypeNumber
		f.Value = string(trimmed)
	}
	return f
}
