package store_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-gabbai/internal/store"
)

type item struct {
	ID   string
	Name string
	Tag  string
}

func newStore() *store.Memory[item] {
	return store.NewMemory(func(i *item) *string { return &i.ID })
}

func TestMemory_CreateAssignsID(t *testing.T) {
	s := newStore()

	a, err := s.Create(item{Name: "a"})
	require.NoError(t, err)
	_, err = uuid.Parse(a.ID)
	assert.NoError(t, err, "generated IDs are UUIDs")

	b, err := s.Create(item{ID: "fixed", Name: "b"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", b.ID)

	_, err = s.Create(item{ID: "fixed"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.Equal(t, 2, s.Len())
}

func TestMemory_ListKeepsOrder(t *testing.T) {
	s := newStore()
	for _, n := range []string{"c", "a", "b"} {
		_, err := s.Create(item{Name: n, Tag: "x"})
		require.NoError(t, err)
	}
	_, err := s.Create(item{Name: "z", Tag: "y"})
	require.NoError(t, err)

	all := s.List(nil)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"c", "a", "b", "z"}, []string{all[0].Name, all[1].Name, all[2].Name, all[3].Name})

	tagged := s.List(func(i item) bool { return i.Tag == "y" })
	require.Len(t, tagged, 1)
	assert.Equal(t, "z", tagged[0].Name)
}

func TestMemory_Update(t *testing.T) {
	s := newStore()
	a, _ := s.Create(item{Name: "a"})

	got, err := s.Update(a.ID, func(i *item) error {
		i.Name = "renamed"
		i.ID = "hijack"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID, "ID cannot be changed by an update")
	assert.Equal(t, "renamed", got.Name)

	boom := errors.New("boom")
	_, err = s.Update(a.ID, func(i *item) error {
		i.Name = "lost"
		return boom
	})
	assert.ErrorIs(t, err, boom)
	stored, _ := s.Get(a.ID)
	assert.Equal(t, "renamed", stored.Name, "failed updates are discarded")

	_, err = s.Update("missing", func(*item) error { return nil })
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemory_Delete(t *testing.T) {
	s := newStore()
	a, _ := s.Create(item{Name: "a", Tag: "t"})
	_, _ = s.Create(item{Name: "b", Tag: "t"})
	c, _ := s.Create(item{Name: "c"})

	require.NoError(t, s.Delete(a.ID))
	assert.ErrorIs(t, s.Delete(a.ID), store.ErrNotFound)

	_, err := s.Get(a.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	n := s.DeleteWhere(func(i item) bool { return i.Tag == "t" })
	assert.Equal(t, 1, n)
	all := s.List(nil)
	require.Len(t, all, 1)
	assert.Equal(t, c.ID, all[0].ID)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	s := newStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Create(item{Name: "n"})
		}()
		go func() {
			defer wg.Done()
			_ = s.List(nil)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}
