package rate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowList_EmptyAllowsEverything(t *testing.T) {
	require.True(t, ParseAllowList("").Allows("USD"))
	require.True(t, ParseAllowList(" , ").Allows("JPY"))

	var nilList *AllowList
	require.True(t, nilList.Allows("EUR"))
	require.Nil(t, nilList.Codes())
}

func TestAllowList_CaseInsensitive(t *testing.T) {
	allow := ParseAllowList("usd, Eur ,JPY")

	require.True(t, allow.Allows("USD"))
	require.True(t, allow.Allows("usd"))
	require.True(t, allow.Allows(" eur"))
	require.True(t, allow.Allows("jpy"))
	require.False(t, allow.Allows("GBP"))
	require.False(t, allow.Allows(""))
}

func TestAllowList_Codes_SortedCopy(t *testing.T) {
	allow := NewAllowList([]string{"jpy", "usd", "EUR", "usd"})

	got := allow.Codes()
	require.Equal(t, []string{"EUR", "JPY", "USD"}, got)

	got[0] = "XXX"
	require.Equal(t, []string{"EUR", "JPY", "USD"}, allow.Codes())
}
