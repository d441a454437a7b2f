package pagination_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/shop-admin-console/internal/pagination"
)

func TestRequestQuery(t *testing.T) {
	req := pagination.Request{
		Page: 2,
		Size: 20,
		Sort: pagination.Sort{Field: "createdAt", Direction: pagination.Desc},
		Filters: map[string]string{
			"search": "  sale ",
			"status": "ACTIVE",
			"type":   "",
			"page":   "99", // must not override the real page
		},
	}

	q := req.Query()
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "20", q.Get("size"))
	assert.Equal(t, "createdAt,desc", q.Get("sort"))
	assert.Equal(t, "sale", q.Get("search"))
	assert.Equal(t, "ACTIVE", q.Get("status"))
	_, hasType := q["type"]
	assert.False(t, hasType, "empty filters are not sent")
}

func TestRequestQuery_Defaults(t *testing.T) {
	q := pagination.Request{Page: -3}.Query()
	assert.Equal(t, "0", q.Get("page"))
	assert.Empty(t, q.Get("size"))
	assert.Empty(t, q.Get("sort"))
}

func TestSortString(t *testing.T) {
	cases := []struct {
		name string
		in   pagination.Sort
		want string
	}{
		{"zero", pagination.Sort{}, ""},
		{"blank field", pagination.Sort{Field: "  ", Direction: pagination.Desc}, ""},
		{"asc default", pagination.Sort{Field: "name"}, "name,asc"},
		{"desc", pagination.Sort{Field: "name", Direction: pagination.Desc}, "name,desc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.String())
		})
	}
}

func TestResponseDecodeAndValidate(t *testing.T) {
	body := `{"content":[{"id":1},{"id":2}],"totalElements":12,"totalPages":6,"number":0,"size":2,"first":true,"last":false,"empty":false}`

	var resp pagination.Response[struct {
		ID int `json:"id"`
	}]
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	assert.Len(t, resp.Content, 2)
	assert.EqualValues(t, 12, resp.TotalElements)
	assert.True(t, resp.First)
	assert.False(t, resp.IsEmpty())
	assert.NoError(t, resp.Validate(2))
}

func TestResponseValidate_Oversized(t *testing.T) {
	resp := pagination.Response[int]{Content: []int{1, 2, 3}, Size: 2}
	err := resp.Validate(10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pagination.ErrOversizedPage))

	// size omitted by the server: the requested size is used instead
	resp = pagination.Response[int]{Content: []int{1, 2, 3}}
	assert.Error(t, resp.Validate(2))
	assert.NoError(t, resp.Validate(3))
}

func TestResponseIsEmpty(t *testing.T) {
	assert.True(t, pagination.Response[int]{Empty: true}.IsEmpty())
	assert.True(t, pagination.Response[int]{}.IsEmpty())
	assert.False(t, pagination.Response[int]{Content: []int{1}}.IsEmpty())
}
