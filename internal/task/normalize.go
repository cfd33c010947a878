package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseError reports an import payload that is not a JSON array.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "invalid JSON: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

var errNotArray = errors.New("expected an array of tasks")

// ParseImport decodes raw into the elements of a top-level JSON array.
// Numbers are kept as json.Number so "42" stays "42".
func ParseImport(raw []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, &ParseError{Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Err: errors.New("unexpected data after top-level value")}
	}

	items, ok := root.([]any)
	if !ok {
		return nil, &ParseError{Err: errNotArray}
	}
	return items, nil
}

// Normalize turns decoded import elements into tasks.
// Elements that are not objects with a string or numeric "text" are dropped.
func Normalize(items []any, now func() time.Time, newID func() string) []Task {
	tasks := make([]Task, 0, len(items))
	seen := make(map[string]bool, len(items))

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		text, ok := scalarString(obj["text"])
		if !ok {
			continue
		}

		id, ok := idString(obj["id"])
		if !ok || seen[id] {
			id = newID()
		}
		seen[id] = true

		tasks = append(tasks, Task{
			ID:        id,
			Text:      truncateRunes(text, MaxImportTextLen),
			Completed: truthy(obj["completed"]),
			Created:   createdMillis(obj["created"], now),
		})
	}
	return tasks
}

// scalarString coerces a JSON string or number to text.
func scalarString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

func idString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, v != ""
	case json.Number:
		f, err := v.Float64()
		if err != nil || f == 0 || math.IsNaN(f) {
			return "", false
		}
		return v.String(), true
	default:
		return "", false
	}
}

// truthy follows JSON-value truthiness: null, false, 0 and "" are false.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0 && !math.IsNaN(f)
	default:
		return true
	}
}

func createdMillis(v any, now func() time.Time) int64 {
	f := math.NaN()
	switch v := v.(type) {
	case json.Number:
		if n, err := v.Float64(); err == nil {
			f = n
		}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			f = 0
		} else if n, err := strconv.ParseFloat(s, 64); err == nil {
			f = n
		}
	case bool:
		if v {
			f = 1
		} else {
			f = 0
		}
	case nil:
		f = 0
	}

	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return now().UnixMilli()
	}
	return int64(f)
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
