package source

import (
	"cmp"
	"fmt"
)

// Located pairs a value with the span it was read from. Comparison helpers
// look at the value only; the span is metadata.
type Located[T any] struct {
	value T
	span  Span
}

// At wraps v with its span.
func At[T any](v T, span Span) Located[T] {
	return Located[T]{value: v, span: span}
}

func (l Located[T]) Value() T {
	return l.value
}

func (l Located[T]) Span() Span {
	return l.span
}

// Unpack returns both parts.
func (l Located[T]) Unpack() (T, Span) {
	return l.value, l.span
}

// String formats the wrapped value.
func (l Located[T]) String() string {
	return fmt.Sprint(l.value)
}

// Map transforms the value and keeps the span.
func Map[T, U any](l Located[T], f func(T) U) Located[U] {
	return Located[U]{value: f(l.value), span: l.span}
}

// MapErr is Map for fallible transforms: the error is returned unwrapped.
func MapErr[T, U any](l Located[T], f func(T) (U, error)) (Located[U], error) {
	v, err := f(l.value)
	if err != nil {
		return Located[U]{}, err
	}
	return Located[U]{value: v, span: l.span}, nil
}

// Equal compares the wrapped values and ignores the spans.
func Equal[T comparable](a, b Located[T]) bool {
	return a.value == b.value
}

// Compare orders by wrapped value only.
func Compare[T cmp.Ordered](a, b Located[T]) int {
	return cmp.Compare(a.value, b.value)
}

// Key returns the value for use as a map key, so that located values with
// equal contents hash together.
func Key[T comparable](l Located[T]) T {
	return l.value
}
