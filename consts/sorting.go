package consts

import "strings"

type SortOrder bool

const (
	Ascending  = SortOrder(false)
	Descending = SortOrder(true)
)

func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// SortOrderFrom parses the query representation of a sort order, anything
// other than "asc" is descending.
func SortOrderFrom(s string) SortOrder {
	if strings.EqualFold(s, "asc") {
		return Ascending
	}
	return Descending
}
