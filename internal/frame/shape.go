package frame

import (
	"errors"
	"fmt"
	"strings"
)

// Shape selects the container an Output uses.
type Shape string

const (
	ShapeRecordSet Shape = "record-set"
	ShapeTable     Shape = "table"
)

// ErrInvalidShape is returned for any unrecognized shape selector.
var ErrInvalidShape = errors.New("invalid shape")

var shapeAliases = map[string]Shape{
	"record-set": ShapeRecordSet,
	"records":    ShapeRecordSet,
	"dict":       ShapeRecordSet,
	"table":      ShapeTable,
	"df":         ShapeTable,
}

// ParseShape maps a user-supplied selector to a Shape.
func ParseShape(s string) (Shape, error) {
	shape, ok := shapeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w %q: use %q or %q", ErrInvalidShape, s, ShapeRecordSet, ShapeTable)
	}
	return shape, nil
}

// Validate reports whether s is one of the known shapes.
func (s Shape) Validate() error {
	switch s {
	case ShapeRecordSet, ShapeTable:
		return nil
	default:
		return fmt.Errorf("%w %q: use %q or %q", ErrInvalidShape, string(s), ShapeRecordSet, ShapeTable)
	}
}

func (s Shape) String() string {
	return string(s)
}
