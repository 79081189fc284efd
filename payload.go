package workflow

import (
	"bytes"
	"fmt"

	"github.com/devHarshShah/swiftboard-frontend-sub001/internal/xjson"
)

// Payload is a JSON object that travels on the wire as encoded text but may
// arrive already decoded. It is either Raw (text) or Parsed (object); the
// zero value is an absent payload.
type Payload struct {
	text   string
	object map[string]any
	parsed bool
}

// RawPayload wraps JSON text.
func RawPayload(text string) Payload {
	return Payload{text: text}
}

// ParsedPayload wraps an already decoded object.
func ParsedPayload(object map[string]any) Payload {
	return Payload{object: object, parsed: true}
}

// IsZero reports whether the payload is absent.
func (p Payload) IsZero() bool {
	return !p.parsed && p.text == ""
}

// IsParsed reports whether the payload holds a decoded object.
func (p Payload) IsParsed() bool {
	return p.parsed
}

// Text returns the payload as JSON text, encoding it when Parsed.
// An absent payload yields "".
func (p Payload) Text() (string, error) {
	if !p.parsed {
		return p.text, nil
	}
	if p.object == nil {
		return "{}", nil
	}
	b, err := xjson.Marshal(p.object)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode unmarshals the payload into v. An absent payload leaves v untouched;
// text that is not a JSON object is an error.
func (p Payload) Decode(v any) error {
	if p.IsZero() {
		return nil
	}
	text, err := p.Text()
	if err != nil {
		return err
	}
	data := bytes.TrimSpace([]byte(text))
	if len(data) == 0 || data[0] != '{' {
		return fmt.Errorf("workflow: payload is not a JSON object: %.20s", data)
	}
	return xjson.Unmarshal(data, v)
}

// Object returns the payload as a decoded object. The result never aliases
// the object held by a Parsed payload.
func (p Payload) Object() (map[string]any, error) {
	var m map[string]any
	if err := p.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// MarshalJSON always emits the payload as a JSON string.
func (p Payload) MarshalJSON() ([]byte, error) {
	if p.IsZero() {
		return []byte("null"), nil
	}
	text, err := p.Text()
	if err != nil {
		return nil, err
	}
	return xjson.Marshal(text)
}

// UnmarshalJSON accepts a JSON string (Raw), an object (Parsed) or null.
func (p *Payload) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*p = Payload{}
		return nil
	}
	switch data[0] {
	case 'n':
		*p = Payload{}
		return nil
	case '"':
		var s string
		if err := xjson.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = RawPayload(s)
		return nil
	case '{':
		var m map[string]any
		if err := xjson.Unmarshal(data, &m); err != nil {
			return err
		}
		*p = ParsedPayload(m)
		return nil
	}
	return fmt.Errorf("workflow: payload must be a JSON string or object, got %.20s", data)
}
