package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopeSet(t *testing.T) {
	t.Run("Should deduplicate preserving first-seen order", func(t *testing.T) {
		s := NewScopeSet("b", "a", "b", "", "c", "a")
		require.Equal(t, ScopeSet{"b", "a", "c"}, s)
	})

	t.Run("Should union order-preserving", func(t *testing.T) {
		u := NewScopeSet("a", "b").Union(NewScopeSet("b", "c"))
		require.Equal(t, ScopeSet{"a", "b", "c"}, u)
	})

	t.Run("Should compare order-sensitively", func(t *testing.T) {
		require.True(t, NewScopeSet("a", "b").Equal(NewScopeSet("a", "b")))
		require.False(t, NewScopeSet("a", "b").Equal(NewScopeSet("b", "a")))
		require.False(t, NewScopeSet("a").Equal(NewScopeSet("a", "b")))
	})

	t.Run("Should report membership", func(t *testing.T) {
		s := NewScopeSet("a", "b")
		require.True(t, s.Contains("a"))
		require.False(t, s.Contains("c"))
	})
}

func TestCatalog(t *testing.T) {
	c := Catalog{
		{Name: "Lecture 1 Intro", VideoID: "vid-1"},
		{Name: "Lecture 2 Graphs", VideoID: "vid-2"},
	}

	t.Run("Should list IDs in order", func(t *testing.T) {
		require.Equal(t, ScopeSet{"vid-1", "vid-2"}, c.IDs())
	})

	t.Run("Should resolve names case-insensitively", func(t *testing.T) {
		id, ok := c.ResolveName("lecture 2 graphs")
		require.True(t, ok)
		require.Equal(t, "vid-2", id)
		_, ok = c.ResolveName("lecture 9")
		require.False(t, ok)
	})

	t.Run("Should resolve ordinals one-based", func(t *testing.T) {
		id, ok := c.Ordinal(2)
		require.True(t, ok)
		require.Equal(t, "vid-2", id)
		_, ok = c.Ordinal(0)
		require.False(t, ok)
		_, ok = c.Ordinal(3)
		require.False(t, ok)
	})

	t.Run("Should validate scope sets against the catalog", func(t *testing.T) {
		_, ok := c.ValidateIDs(NewScopeSet("vid-1", "vid-2"))
		require.True(t, ok)
		unknown, ok := c.ValidateIDs(NewScopeSet("vid-1", "vid-9"))
		require.False(t, ok)
		require.Equal(t, "vid-9", unknown)
	})
}

func TestErrors(t *testing.T) {
	t.Run("Should unwrap routing cause", func(t *testing.T) {
		cause := errors.New("bad json")
		err := &RoutingError{Reason: "parse", Err: cause}
		require.ErrorIs(t, err, cause)
		require.Contains(t, err.Error(), "parse")
	})

	t.Run("Should unwrap every variant failure", func(t *testing.T) {
		a, b := errors.New("a"), errors.New("b")
		err := &RetrievalExhaustedError{Failures: []error{a, b}}
		require.ErrorIs(t, err, a)
		require.ErrorIs(t, err, b)
	})

	t.Run("Should render the offending scope", func(t *testing.T) {
		err := &InvalidScopeError{VideoIDs: []string{"x", "y"}, Reason: "not in catalog"}
		require.Contains(t, err.Error(), "x, y")
	})
}
