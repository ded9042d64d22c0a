// server/domain/optional.go
package domain

import (
	"bytes"
	"encoding/json"
)

// OptionalID is a nullable reference that remembers whether its JSON key was
// present at all. Absent keys leave Set false; an explicit null sets Set with
// a nil Value.
type OptionalID struct {
	Set   bool
	Value *string
}

func SomeID(id string) OptionalID {
	if id == "" {
		return OptionalID{Set: true}
	}
	return OptionalID{Set: true, Value: &id}
}

func NullID() OptionalID {
	return OptionalID{Set: true}
}

func (o OptionalID) IsZero() bool {
	return !o.Set
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
