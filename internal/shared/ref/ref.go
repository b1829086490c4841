package ref

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Entity is anything the API may return either as a bare identifier or as a
// fully populated object.
type Entity interface {
	RefID() string
}

var ErrEmpty = errors.New("empty reference")

// Ref holds either a bare identifier or a populated object for an Entity.
// The API serializes relations inconsistently (sometimes "abc123", sometimes
// the whole object); Ref keeps that asymmetry in one place.
type Ref[T Entity] struct {
	id  string
	obj *T
}

func FromID[T Entity](id string) Ref[T] {
	return Ref[T]{id: id}
}

func FromObject[T Entity](obj T) Ref[T] {
	return Ref[T]{id: obj.RefID(), obj: &obj}
}

// ID is always available once the reference is non-empty.
func (r Ref[T]) ID() string { return r.id }

// Object returns the populated object when the API sent one.
func (r Ref[T]) Object() (*T, bool) {
	if r.obj == nil {
		return nil, false
	}
	return r.obj, true
}

func (r Ref[T]) Populated() bool { return r.obj != nil }

func (r Ref[T]) IsZero() bool { return r.id == "" && r.obj == nil }

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.obj != nil {
		return json.Marshal(r.obj)
	}
	return json.Marshal(r.id)
}

func (r *Ref[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &r.id)
	}
	var obj T
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	r.obj = &obj
	r.id = obj.RefID()
	return nil
}
