package resource_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/catalog/pkg/resource"
)

type item struct {
	ID     int
	Secret string
}

func public(i item) resource.Map { return resource.Map{"id": i.ID} }

func TestManyHidesFields(t *testing.T) {
	b, err := json.Marshal(resource.Many([]item{{1, "x"}, {2, "y"}}, public))
	assert.NoError(t, err)
	assert.JSONEq(t, `[{"id":1},{"id":2}]`, string(b))

	b, _ = json.Marshal(resource.Many(nil, public))
	assert.Equal(t, "[]", string(b))
}

func TestWrap(t *testing.T) {
	b, _ := json.Marshal(resource.Wrap(resource.One(item{ID: 3}, public), nil))
	assert.JSONEq(t, `{"data":{"id":3}}`, string(b))

	b, _ = json.Marshal(resource.Wrap(nil, resource.Map{"total": 0}))
	assert.JSONEq(t, `{"data":null,"meta":{"total":0}}`, string(b))
}
