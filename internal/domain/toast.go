package domain

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a transient notification; at most one is visible per chat.
type Toast struct {
	Kind ToastKind
	Text string
}
