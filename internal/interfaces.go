package internal

type Into[T any] interface {
	Into() T
}
