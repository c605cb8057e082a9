package endpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		template string
		params   map[string]string
		want     string
	}{
		{"无占位符", Listings, nil, "/listings"},
		{"单个 id", Listing, ID(42), "/listings/42"},
		{"嵌套路径", SimilarListings, ID(7), "/listings/7/similar"},
		{"多个 id", ListingsByIDs, IDs(1, 2, 3), "/listings/1,2,3"},
		{"缺少参数原样返回", UserStats, map[string]string{"user": "9"}, "/users/{id}/stats"},
		{"多余参数忽略", Listing, map[string]string{"id": "5", "x": "y"}, "/listings/5"},
		{"重复 token", "/a/{id}/b/{id}", ID(3), "/a/3/b/3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.template, tt.params))
		})
	}
}

func TestMissing(t *testing.T) {
	assert.Empty(t, Missing(Listing, ID(1)))
	assert.Equal(t, []string{"id"}, Missing(UserStats, nil))
	assert.Equal(t, []string{"ids"}, Missing(FavoritesByIDs, ID(1)))
}

func TestJoinAndSplitIDs(t *testing.T) {
	assert.Equal(t, "", JoinIDs())
	assert.Equal(t, "5", JoinIDs(5))
	assert.Equal(t, "1,22,333", JoinIDs(1, 22, 333))

	assert.Equal(t, []int64{1, 22, 333}, SplitIDs("1, 22,333"))
	assert.Equal(t, []int64{4}, SplitIDs("abc,4,-1,0"))
	assert.Nil(t, SplitIDs(""))
}
