package state

import (
	"testing"

	"newsportal/app/models"

	"github.com/stretchr/testify/assert"
)

func posts(ids ...int) []models.Post {
	out := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Post{ID: id, Title: "t", Content: "c"})
	}
	return out
}

func idsOf(s ListState) []int {
	out := make([]int, 0, len(s.Items))
	for _, p := range s.Items {
		out = append(out, p.ID)
	}
	return out
}

func TestListStateLoad(t *testing.T) {
	var s ListState
	assert.True(t, s.CanLoadMore())

	s = s.Begin()
	assert.True(t, s.IsLoading)
	assert.False(t, s.CanLoadMore())

	s = s.Succeed(posts(3, 2, 1), 1)
	assert.False(t, s.IsLoading)
	assert.True(t, s.Loaded)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, []int{3, 2, 1}, idsOf(s))
}

func TestListStateSucceedEmpty(t *testing.T) {
	s := ListState{}.Begin().Succeed(nil, 1)
	assert.NotNil(t, s.Items)
	assert.Empty(t, s.Items)
	assert.True(t, s.Loaded)
}

func TestListStateFailKeepsItems(t *testing.T) {
	s := ListState{}.Succeed(posts(2, 1), 1)
	s = s.Begin().Fail(models.MsgFetchFailed)

	assert.False(t, s.IsLoading)
	assert.Equal(t, models.MsgFetchFailed, s.Error)
	assert.Equal(t, []int{2, 1}, idsOf(s))

	s = s.Begin().Succeed(posts(5), 1)
	assert.Empty(t, s.Error)
}

func TestListStateAppend(t *testing.T) {
	s := ListState{}.Succeed(posts(6, 5, 4), 1)

	s = s.Begin().Append(posts(4, 3, 2), 2)
	assert.Equal(t, []int{6, 5, 4, 3, 2}, idsOf(s))
	assert.Equal(t, 2, s.Page)
	assert.False(t, s.Exhausted)

	s = s.Begin().Append(nil, 3)
	assert.True(t, s.Exhausted)
	assert.Equal(t, 2, s.Page)
	assert.False(t, s.CanLoadMore())
	assert.Equal(t, []int{6, 5, 4, 3, 2}, idsOf(s))
}

func TestListStateAppendOnlyDuplicates(t *testing.T) {
	s := ListState{}.Succeed(posts(2, 1), 1)
	s = s.Begin().Append(posts(2, 1), 2)

	assert.Equal(t, []int{2, 1}, idsOf(s))
	assert.Equal(t, 1, s.Page)
	assert.True(t, s.Exhausted)
}

func TestListStatePrepend(t *testing.T) {
	s := ListState{}.Succeed(posts(2, 1), 1)
	s = s.Prepend(models.Post{ID: 3, Title: "new"})
	assert.Equal(t, []int{3, 2, 1}, idsOf(s))

	s = s.Prepend(models.Post{ID: 1, Title: "again"})
	assert.Equal(t, []int{1, 3, 2}, idsOf(s))
}

func TestListStateReplace(t *testing.T) {
	s := ListState{}.Succeed(posts(2, 1), 1)

	s = s.Replace(models.Post{ID: 1, Title: "edited"})
	assert.Equal(t, []int{2, 1}, idsOf(s))
	p, ok := s.Find(1)
	assert.True(t, ok)
	assert.Equal(t, "edited", p.Title)

	before := idsOf(s)
	s = s.Replace(models.Post{ID: 99, Title: "ghost"})
	assert.Equal(t, before, idsOf(s))
	_, ok = s.Find(99)
	assert.False(t, ok)
}

func TestListStateRemove(t *testing.T) {
	s := ListState{}.Succeed(posts(3, 2, 1), 1)

	s = s.Remove(2)
	assert.Equal(t, []int{3, 1}, idsOf(s))

	s = s.Remove(42)
	assert.Equal(t, []int{3, 1}, idsOf(s))
}

func TestListStateTransitionsDoNotAlias(t *testing.T) {
	orig := ListState{}.Succeed(posts(2, 1), 1)
	next := orig.Replace(models.Post{ID: 1, Title: "changed"})

	p, _ := orig.Find(1)
	assert.Equal(t, "t", p.Title)
	p, _ = next.Find(1)
	assert.Equal(t, "changed", p.Title)
}
