package orm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/catalog/pkg/orm"
)

func TestNormalize(t *testing.T) {
	page, per := orm.Normalize(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, orm.DefaultPerPage, per)

	page, per = orm.Normalize(-3, 25)
	assert.Equal(t, 1, page)
	assert.Equal(t, 25, per)
}

func TestNewPagination(t *testing.T) {
	p := orm.NewPagination(2, 10, 11)
	assert.Equal(t, orm.Pagination{Page: 2, PerPage: 10, Total: 11, LastPage: 2}, p)
	assert.Equal(t, 10, p.Offset())
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())

	empty := orm.NewPagination(1, 10, 0)
	assert.Equal(t, 1, empty.LastPage)
	assert.False(t, empty.HasNext())

	assert.Equal(t, 1, orm.NewPagination(1, 10, 10).LastPage)
}
