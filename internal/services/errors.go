package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFeedFetch         = errors.New("feed fetch failed")
	ErrUnsupportedSource = errors.New("unsupported feed source")
	ErrUnsupportedEntry  = errors.New("unsupported feed entry")
	ErrDispatch          = errors.New("download dispatch failed")
	ErrStoreRead         = errors.New("store read failed")
	ErrStoreWrite        = errors.New("store write failed")
	ErrConfiguration     = errors.New("configuration error")
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
)

// kinds is ordered so the most specific marker wins when an error chain
// carries more than one.
var kinds = []struct {
	marker error
	name   string
}{
	{ErrUnsupportedSource, "unsupported_source"},
	{ErrUnsupportedEntry, "unsupported_entry"},
	{ErrFeedFetch, "feed_fetch"},
	{ErrDispatch, "dispatch"},
	{ErrStoreRead, "store_read"},
	{ErrStoreWrite, "store_write"},
	{ErrConfiguration, "configuration"},
	{ErrValidation, "validation"},
	{ErrNotFound, "not_found"},
}

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		if err != nil {
			return fmt.Errorf("%s: %w", detail, err)
		}
		return errors.New(detail)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns the short classification used for the error_kind log field.
// Errors without a known marker report "unknown"; nil reports "".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			return k.name
		}
	}
	return "unknown"
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
