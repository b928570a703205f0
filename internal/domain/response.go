package domain

const (
	StatusFail = 0
	StatusOK   = 1
)

// Response is the {status, msg, data} envelope every service speaks.
type Response[T any] struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
	Data   *T     `json:"data"`
}

func OK[T any](msg string, data *T) Response[T] {
	return Response[T]{Status: StatusOK, Msg: msg, Data: data}
}

// Fail builds a status 0 envelope; data is always nil.
func Fail[T any](msg string) Response[T] {
	return Response[T]{Status: StatusFail, Msg: msg}
}

func (r Response[T]) Succeeded() bool {
	return r.Status == StatusOK
}
