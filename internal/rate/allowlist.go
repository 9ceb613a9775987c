package rate

import (
	"maps"
	"slices"
	"strings"
)

// AllowList restricts which currency codes are synced. An empty list allows everything.
type AllowList struct {
	codesSet map[string]struct{} // read only
}

func (a *AllowList) Allows(code string) bool {
	if a == nil || len(a.codesSet) == 0 {
		return true
	}
	_, ok := a.codesSet[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

func (a *AllowList) Codes() []string {
	if a == nil {
		return nil
	}
	codes := slices.Collect(maps.Keys(a.codesSet))
	slices.Sort(codes)
	return codes
}

func NewAllowList(codes []string) *AllowList {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			set[c] = struct{}{}
		}
	}
	return &AllowList{codesSet: set}
}

// ParseAllowList reads a comma separated list such as "usd, EUR,jpy".
func ParseAllowList(raw string) *AllowList {
	return NewAllowList(strings.Split(raw, ","))
}
