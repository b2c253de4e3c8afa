package common

// HttpResponse is the common envelope of every HTTP API response.
type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}
