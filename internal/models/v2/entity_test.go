package v2

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntity_UnmarshalJSON(t *testing.T) {
	body := `{
		"id": "Room1",
		"type": "Room",
		"temperature": {"type": "Number", "value": 21.0, "metadata": {"unitCode": {"type": "Text", "value": "CEL"}}},
		"name": {"type": "Text", "value": "Kitchen"},
		"legacy": 42
	}`

	var e Entity
	require.NoError(t, json.Unmarshal([]byte(body), &e))

	assert.Equal(t, "Room1", e.ID)
	assert.Equal(t, "Room", e.Type)
	require.Len(t, e.Attrs, 3)

	temp := e.Attrs["temperature"]
	assert.Equal(t, "Number", temp.Type)
	assert.Equal(t, json.Number("21.0"), temp.Value, "numbers keep their textual form")
	assert.Equal(t, "CEL", temp.Metadata["unitCode"].Value)

	assert.Equal(t, "", e.Attrs["legacy"].Type)
	assert.Equal(t, json.Number("42"), e.Attrs["legacy"].Value)
}

func TestEntity_UnmarshalJSON_NullValue(t *testing.T) {
	var e Entity
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","type":"T","x":{"type":"Text","value":null}}`), &e))
	assert.Nil(t, e.Attrs["x"].Value)
}

func TestEntity_UnmarshalJSON_Invalid(t *testing.T) {
	var e Entity
	assert.Error(t, json.Unmarshal([]byte(`{"id": 12}`), &e))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &e))
}

func TestKeyValuesEntity_UnmarshalJSON(t *testing.T) {
	var e KeyValuesEntity
	require.NoError(t, json.Unmarshal([]byte(`{"id":"r1","type":"Room","temperature":21.5,"location":{"type":"Point","coordinates":[1,2]}}`), &e))

	assert.Equal(t, "r1", e.ID)
	assert.Equal(t, "Room", e.Type)
	assert.Equal(t, json.Number("21.5"), e.Attrs["temperature"])
	assert.IsType(t, map[string]any{}, e.Attrs["location"])
}

func TestAttrShapes_KeepsDocumentOrder(t *testing.T) {
	var rec TypeRecord
	body := `{"type":"Room","count":3,"attrs":{"zeta":{"types":["Text"]},"alpha":{"types":["Number","Integer"]},"mid":{"types":[]}}}`
	require.NoError(t, json.Unmarshal([]byte(body), &rec))

	assert.Equal(t, "Room", rec.Type)
	assert.Equal(t, 3, rec.Count)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, rec.Attrs.Names())

	types, ok := rec.Attrs.Types("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"Number", "Integer"}, types)
	assert.False(t, rec.Attrs.Has("missing"))

	out, err := json.Marshal(rec.Attrs)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":{"types":["Text"]},"alpha":{"types":["Number","Integer"]},"mid":{"types":[]}}`, string(out))
}

func TestAttrShapes_Null(t *testing.T) {
	var rec TypeRecord
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Empty","count":0,"attrs":null}`), &rec))
	assert.Equal(t, 0, rec.Attrs.Len())
}

func TestAttrShapes_RejectsArray(t *testing.T) {
	var rec TypeRecord
	assert.Error(t, json.Unmarshal([]byte(`{"attrs":["a"]}`), &rec))
}
