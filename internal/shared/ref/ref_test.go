package ref

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type thing struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func (t thing) RefID() string { return t.ID }

func TestUnmarshalBareID(t *testing.T) {
	var r Ref[thing]
	require.NoError(t, json.Unmarshal([]byte(`"p1"`), &r))
	require.Equal(t, "p1", r.ID())
	require.False(t, r.Populated())
}

func TestUnmarshalPopulated(t *testing.T) {
	var r Ref[thing]
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"p2","name":"Silk Scarf"}`), &r))
	require.Equal(t, "p2", r.ID())
	obj, ok := r.Object()
	require.True(t, ok)
	require.Equal(t, "Silk Scarf", obj.Name)
}

func TestUnmarshalNull(t *testing.T) {
	r := FromID[thing]("stale")
	require.NoError(t, json.Unmarshal([]byte(`null`), &r))
	require.True(t, r.IsZero())
}

func TestMarshalRoundTrip(t *testing.T) {
	b, err := json.Marshal(FromID[thing]("p3"))
	require.NoError(t, err)
	require.JSONEq(t, `"p3"`, string(b))

	b, err = json.Marshal(FromObject(thing{ID: "p4", Name: "Clutch"}))
	require.NoError(t, err)
	require.JSONEq(t, `{"_id":"p4","name":"Clutch"}`, string(b))
}
