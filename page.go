package ekdsend

// ListPage is one page of a list response. Order is the server-assigned
// order (creation time descending) and is never reordered by the SDK.
type ListPage[T any] struct {
	Data    []T  `json:"data"`
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}
