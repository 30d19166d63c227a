package songbook

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStorageUnavailable marks any failure talking to the backend.
// Storage errors wrap it so callers can test with errors.Is.
var ErrStorageUnavailable = errors.New("storage unavailable")

// InvalidFieldError lists requested fields that are not in the allow-list.
type InvalidFieldError struct {
	Fields []string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("Campos no válidos: %s", strings.Join(e.Fields, ", "))
}

// MalformedFilterError reports a filter entry that could not be parsed.
type MalformedFilterError struct {
	Param string
	Entry string
}

func (e *MalformedFilterError) Error() string {
	return fmt.Sprintf("Filtro no válido en %s: %s", e.Param, e.Entry)
}
