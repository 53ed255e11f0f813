// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// SectionKind selects how a section body is interpreted.
type SectionKind string

const (
	// SectionKeyValue sections hold "type:content" pairs, one per fragment.
	SectionKeyValue SectionKind = "key_value"
	// SectionDated sections hold numbered date periods.
	SectionDated SectionKind = "dated"
)

// Identity keys written at the top of every record, in output order.
const (
	KeyName    = "name"
	KeyPhone   = "phone"
	KeyEmail   = "email"
	KeyAddress = "address"
)

// IdentityKeys lists the identity keys in output order.
var IdentityKeys = []string{KeyName, KeyPhone, KeyEmail, KeyAddress}

// Field is one key/value entry of a key_value section.
type Field struct {
	Key   string
	Value string
}

// Period is one dated sub-entry of a section (one job, one degree).
type Period struct {
	Index   int
	Date    string
	HasDate bool
	Details string
}

// Section is the content found under one second-level heading.
type Section struct {
	Heading string
	Kind    SectionKind
	Fields  []Field
	Periods []Period
}

// SetField stores value under key, keeping the position of an existing key.
func (s *Section) SetField(key, value string) {
	for i := range s.Fields {
		if s.Fields[i].Key == key {
			s.Fields[i].Value = value
			return
		}
	}
	s.Fields = append(s.Fields, Field{Key: key, Value: value})
}

// Period returns the period with the given index, creating it if needed.
func (s *Section) Period(index int) *Period {
	for i := range s.Periods {
		if s.Periods[i].Index == index {
			return &s.Periods[i]
		}
	}
	s.Periods = append(s.Periods, Period{Index: index})
	return &s.Periods[len(s.Periods)-1]
}

// Text flattens the section body into one searchable string.
func (s Section) Text() string {
	var parts []string
	for _, f := range s.Fields {
		parts = append(parts, f.Key+": "+f.Value)
	}
	for _, p := range s.Periods {
		if p.HasDate {
			parts = append(parts, p.Date)
		}
		parts = append(parts, p.Details)
	}
	return strings.Join(parts, "\n")
}

// Record is the structured form of one resume. It marshals to a JSON object
// whose keys keep document order: the identity keys first, then one key per
// section heading.
type Record struct {
	Name     string
	Phone    string
	Email    string
	Address  string
	Sections []Section
}

// Identity returns the value of an identity key.
func (r *Record) Identity(key string) string {
	switch key {
	case KeyName:
		return r.Name
	case KeyPhone:
		return r.Phone
	case KeyEmail:
		return r.Email
	case KeyAddress:
		return r.Address
	}
	return ""
}

// SetIdentity stores an identity value. It reports false for unknown keys.
func (r *Record) SetIdentity(key, value string) bool {
	switch key {
	case KeyName:
		r.Name = value
	case KeyPhone:
		r.Phone = value
	case KeyEmail:
		r.Email = value
	case KeyAddress:
		r.Address = value
	default:
		return false
	}
	return true
}

// PutSection adds s, replacing an earlier section with the same heading in
// place.
func (r *Record) PutSection(s Section) {
	for i := range r.Sections {
		if r.Sections[i].Heading == s.Heading {
			r.Sections[i] = s
			return
		}
	}
	r.Sections = append(r.Sections, s)
}

// Section returns the section with the given heading.
func (r *Record) Section(heading string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Heading == heading {
			return s, true
		}
	}
	return Section{}, false
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	var obj object
	for _, k := range IdentityKeys {
		if err := obj.str(k, r.Identity(k)); err != nil {
			return nil, err
		}
	}
	for _, s := range r.Sections {
		body, err := s.MarshalJSON()
		if err != nil {
			return nil, err
		}
		if err := obj.raw(s.Heading, body); err != nil {
			return nil, err
		}
	}
	return obj.close(), nil
}

// MarshalJSON implements json.Marshaler.
func (s Section) MarshalJSON() ([]byte, error) {
	var obj object
	switch s.Kind {
	case SectionKeyValue:
		for _, f := range s.Fields {
			if err := obj.str(f.Key, f.Value); err != nil {
				return nil, err
			}
		}
	default:
		for _, p := range s.Periods {
			var po object
			if p.HasDate {
				if err := po.str("date", p.Date); err != nil {
					return nil, err
				}
			}
			if err := po.str("details", p.Details); err != nil {
				return nil, err
			}
			if err := obj.raw(strconv.Itoa(p.Index), po.close()); err != nil {
				return nil, err
			}
		}
	}
	return obj.close(), nil
}

// object builds a JSON object with keys in insertion order.
type object struct {
	buf bytes.Buffer
}

func (o *object) key(k string) error {
	if o.buf.Len() == 0 {
		o.buf.WriteByte('{')
	} else {
		o.buf.WriteByte(',')
	}
	b, err := encodeString(k)
	if err != nil {
		return err
	}
	o.buf.Write(b)
	o.buf.WriteByte(':')
	return nil
}

func (o *object) str(k, v string) error {
	if err := o.key(k); err != nil {
		return err
	}
	b, err := encodeString(v)
	if err != nil {
		return err
	}
	o.buf.Write(b)
	return nil
}

func (o *object) raw(k string, v []byte) error {
	if err := o.key(k); err != nil {
		return err
	}
	o.buf.Write(v)
	return nil
}

func (o *object) close() []byte {
	if o.buf.Len() == 0 {
		return []byte("{}")
	}
	o.buf.WriteByte('}')
	return o.buf.Bytes()
}

// encodeString quotes s without HTML escaping, so "&" stays literal.
func encodeString(s string) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(b.Bytes(), "\n"), nil
}
