package validation

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	e := Errors{}
	assert.NoError(t, e.Err())

	e.Add("revenue", "must be >= 0")
	e.Add("date", "is required")
	e.Add("date", "second message is ignored")

	err := e.Err()
	assert.EqualError(t, err, "validation failed: date: is required; revenue: must be >= 0")

	wrapped := fmt.Errorf("create sale: %w", err)
	got, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "is required", got["date"])

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate(" 2021-03-04 ")
	assert.True(t, ok)
	assert.Equal(t, "2021-03-04", d)

	for _, bad := range []string{"", "04/03/2021", "2021-13-01", "2021-02-30"} {
		_, ok := ParseDate(bad)
		assert.False(t, ok, bad)
	}
}

func TestFromDecode(t *testing.T) {
	var target struct {
		Count *int     `json:"count"`
		Price *float64 `json:"price"`
		Name  *string  `json:"name"`
	}

	err := json.Unmarshal([]byte(`{"count":"5"}`), &target)
	fields, ok := FromDecode(err)
	assert.True(t, ok)
	assert.Equal(t, Errors{"count": "must be an integer"}, fields)

	fields, ok = FromDecode(json.Unmarshal([]byte(`{"count":2.5}`), &target))
	assert.True(t, ok)
	assert.Equal(t, "must be an integer", fields["count"])

	fields, ok = FromDecode(json.Unmarshal([]byte(`{"price":"cheap"}`), &target))
	assert.True(t, ok)
	assert.Equal(t, "must be a number", fields["price"])

	fields, ok = FromDecode(fmt.Errorf("parse body: %w", json.Unmarshal([]byte(`{"name":1}`), &target)))
	assert.True(t, ok)
	assert.Equal(t, "must be a string", fields["name"])

	_, ok = FromDecode(json.Unmarshal([]byte(`{"count":`), &target))
	assert.False(t, ok)
	_, ok = FromDecode(nil)
	assert.False(t, ok)
}
