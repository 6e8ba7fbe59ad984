package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Known keys of a profile document. Everything else lands in Profile.Extra.
const (
	FieldID        = "id"
	FieldFirstName = "firstname"
	FieldLastName  = "lastname"
	FieldEmail     = "email"
)

// Profile is a single record of the backing document.
//
// Only id, firstname, lastname and email are typed; any other field the
// caller sends is kept verbatim in Extra and written back unchanged.
type Profile struct {
	ID        int64                      `json:"id" example:"1729327000000"`
	FirstName string                     `json:"firstname" example:"Ada"`
	LastName  string                     `json:"lastname" example:"Lovelace"`
	Email     string                     `json:"email" example:"ada@example.com"`
	Extra     map[string]json.RawMessage `json:"-" swaggerignore:"true"`

	// Verbatim holds stored values of the known keys that did not have the
	// expected type, such as a string id or a numeric firstname. They are
	// written back as found and win over the typed field on output.
	Verbatim map[string]json.RawMessage `json:"-" swaggerignore:"true"`

	// noID marks a stored record without an integer id; no lookup matches it.
	noID bool
}

// Addressable reports whether the profile can be found by a numeric id.
func (p Profile) Addressable() bool {
	return !p.noID
}

// MarshalJSON writes id, firstname, lastname, email, then extra fields in
// sorted key order so the backing document diffs cleanly between saves.
func (p Profile) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	switch raw, ok := p.Verbatim[FieldID]; {
	case ok:
		buf.WriteString(`"id":`)
		buf.Write(raw)
	case p.noID:
		// the stored record had no id at all
	default:
		buf.WriteString(`"id":`)
		buf.WriteString(strconv.FormatInt(p.ID, 10))
	}

	for _, kv := range [...]struct{ key, val string }{
		{FieldFirstName, p.FirstName},
		{FieldLastName, p.LastName},
		{FieldEmail, p.Email},
	} {
		v, ok := p.Verbatim[kv.key]
		if !ok {
			var err error
			if v, err = json.Marshal(kv.val); err != nil {
				return nil, err
			}
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.WriteString(`"` + kv.key + `":`)
		buf.Write(v)
	}

	for _, k := range slices.Sorted(maps.Keys(p.Extra)) {
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		raw := p.Extra[k]
		if len(raw) == 0 {
			raw = json.RawMessage("null")
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a stored profile. It never rejects a record for the
// type of a single field: an id that is not an integer and names that are
// not strings are kept in Verbatim instead.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var out Profile
	out.noID = true
	if raw, ok := fields[FieldID]; ok {
		if id, ok := parseID(raw); ok {
			out.ID = id
			out.noID = false
		} else {
			out.keepVerbatim(FieldID, raw)
		}
		delete(fields, FieldID)
	}

	for k, raw := range fields {
		switch k {
		case FieldFirstName, FieldLastName, FieldEmail:
			if isNull(raw) || decodeString(k, raw, out.stringField(k)) != nil {
				out.keepVerbatim(k, raw)
			}
		default:
			out.setExtra(k, raw)
		}
	}
	*p = out
	return nil
}

// Merge applies a shallow patch. Keys override existing values, id is never
// taken from the patch. A non-string value for a known key is rejected.
func (p *Profile) Merge(patch map[string]json.RawMessage) error {
	for k, raw := range patch {
		switch k {
		case FieldID:
			continue
		case FieldFirstName, FieldLastName, FieldEmail:
			if err := decodeString(k, raw, p.stringField(k)); err != nil {
				return err
			}
			delete(p.Verbatim, k)
		default:
			p.setExtra(k, raw)
		}
	}
	return nil
}

// Validate reports ErrMissingFields unless firstname, lastname and email are
// all non-empty.
func (p Profile) Validate() error {
	if p.FirstName == "" || p.LastName == "" || p.Email == "" {
		return ErrMissingFields
	}
	return nil
}

// Clone returns a copy that shares no maps with p.
func (p Profile) Clone() Profile {
	out := p
	out.Extra = cloneRaw(p.Extra)
	out.Verbatim = cloneRaw(p.Verbatim)
	return out
}

func (p *Profile) stringField(key string) *string {
	switch key {
	case FieldFirstName:
		return &p.FirstName
	case FieldLastName:
		return &p.LastName
	default:
		return &p.Email
	}
}

func (p *Profile) setExtra(key string, raw json.RawMessage) {
	if p.Extra == nil {
		p.Extra = make(map[string]json.RawMessage)
	}
	p.Extra[key] = slices.Clone(raw)
}

func (p *Profile) keepVerbatim(key string, raw json.RawMessage) {
	if p.Verbatim == nil {
		p.Verbatim = make(map[string]json.RawMessage)
	}
	p.Verbatim[key] = slices.Clone(raw)
}

func cloneRaw(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}

func decodeString(key string, raw json.RawMessage, dst *string) error {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return &ValidationError{Message: fmt.Sprintf("%s must be a string", key)}
	}
	if s == nil {
		*dst = ""
		return nil
	}
	*dst = *s
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// parseID accepts only a JSON integer literal. Strings, fractions and null
// are not ids a numeric path parameter can ever equal.
func parseID(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
