package cache

import (
	"testing"

	"ratesync/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestRowCache_SetAndGet(t *testing.T) {
	c, err := NewRowCache(128)
	require.NoError(t, err)
	defer c.Close()

	q := domain.RowQuery{{Property: "Currency", Type: domain.PropertySelect, Equals: "USD"}}
	c.Set(q, "page-usd")

	got, ok := c.Get(q)
	require.True(t, ok)
	require.Equal(t, "page-usd", got)
}

func TestRowCache_GetMissWhenEmpty(t *testing.T) {
	c, err := NewRowCache(64)
	require.NoError(t, err)
	defer c.Close()

	id, ok := c.Get(domain.RowQuery{{Property: "Currency", Type: domain.PropertySelect, Equals: "EUR"}})
	require.False(t, ok)
	require.Empty(t, id)
}

func TestRowCache_KeysDistinguishConditions(t *testing.T) {
	c, err := NewRowCache(256)
	require.NoError(t, err)
	defer c.Close()

	monday := domain.RowQuery{
		{Property: "Date", Type: domain.PropertyDate, Equals: "2025-09-29"},
		{Property: "Currency", Type: domain.PropertySelect, Equals: "USD"},
	}
	tuesday := domain.RowQuery{
		{Property: "Date", Type: domain.PropertyDate, Equals: "2025-09-30"},
		{Property: "Currency", Type: domain.PropertySelect, Equals: "USD"},
	}
	c.Set(monday, "page-mon")

	_, ok := c.Get(tuesday)
	require.False(t, ok)

	id, ok := c.Get(monday)
	require.True(t, ok)
	require.Equal(t, "page-mon", id)
}

func TestToKey_Stable(t *testing.T) {
	q := domain.RowQuery{{Property: "Name", Type: domain.PropertyTitle, Equals: "USD"}}
	require.Equal(t, "Name|title=USD", toKey(q))
}
