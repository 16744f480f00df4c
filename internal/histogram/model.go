package histogram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Category keys used by the statistics index.
const (
	CategoryExamA  = "Exam_A"
	CategoryFinalA = "Final_A"
	CategoryExamB  = "Exam_B"
	CategoryFinalB = "Final_B"
	CategoryFinals = "Finals"
)

var errNotObject = errors.New("expected JSON object")

// Value is a raw statistics field as published in the index. The empty value
// means the field was not computed.
type Value string

// Present reports whether the value carries any text.
func (v Value) Present() bool { return v != "" }

func (v Value) String() string { return string(v) }

// UnmarshalJSON accepts strings, numbers (literal preserved) and null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*v = Value(data)
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("invalid statistics value %s", data)
		}
		*v = Value(data)
	}
	return nil
}

// CategoryStats is the precomputed summary of one exam category.
type CategoryStats struct {
	Students    Value `json:"students"`
	PassFail    Value `json:"passFail"`
	PassPercent Value `json:"passPercent"`
	Min         Value `json:"min"`
	Max         Value `json:"max"`
	Average     Value `json:"average"`
	Median      Value `json:"median"`
}

// Cell is one column of the detail table.
type Cell struct {
	Name  string
	Value Value
}

// Cells returns the detail table row in column order.
func (s CategoryStats) Cells() []Cell {
	return []Cell{
		{Name: "students", Value: s.Students},
		{Name: "passFail", Value: s.PassFail},
		{Name: "passPercent", Value: s.PassPercent},
		{Name: "min", Value: s.Min},
		{Name: "max", Value: s.Max},
		{Name: "average", Value: s.Average},
		{Name: "median", Value: s.Median},
	}
}

type Category struct {
	Key   string
	Stats CategoryStats
}

// Semester holds the categories of one semester in source order.
type Semester struct {
	Key        string
	Categories []Category
}

// Lookup returns the stats of category key.
func (s Semester) Lookup(key string) (CategoryStats, bool) {
	for _, c := range s.Categories {
		if c.Key == key {
			return c.Stats, true
		}
	}
	return CategoryStats{}, false
}

// Last returns the last category in source order.
func (s Semester) Last() (Category, bool) {
	if len(s.Categories) == 0 {
		return Category{}, false
	}
	return s.Categories[len(s.Categories)-1], true
}

// UnmarshalJSON decodes a category object keeping document order.
func (s *Semester) UnmarshalJSON(data []byte) error {
	s.Categories = s.Categories[:0]
	return decodeOrdered(data, func(key string, raw json.RawMessage) error {
		var stats CategoryStats
		if err := json.Unmarshal(raw, &stats); err != nil {
			return fmt.Errorf("category %q: %w", key, err)
		}
		for i := range s.Categories {
			if s.Categories[i].Key == key {
				s.Categories[i].Stats = stats
				return nil
			}
		}
		s.Categories = append(s.Categories, Category{Key: key, Stats: stats})
		return nil
	})
}

// Index is the per-course statistics index. Semesters keep the order the
// data source produced, which is assumed to be chronological.
type Index struct {
	Semesters []Semester
}

// Len returns the number of semesters.
func (idx Index) Len() int { return len(idx.Semesters) }

// Lookup returns the semester with key.
func (idx Index) Lookup(key string) (Semester, bool) {
	for _, s := range idx.Semesters {
		if s.Key == key {
			return s, true
		}
	}
	return Semester{}, false
}

// Last returns the most recent semester.
func (idx Index) Last() (Semester, bool) {
	if len(idx.Semesters) == 0 {
		return Semester{}, false
	}
	return idx.Semesters[len(idx.Semesters)-1], true
}

// UnmarshalJSON decodes a semester object keeping document order.
func (idx *Index) UnmarshalJSON(data []byte) error {
	idx.Semesters = idx.Semesters[:0]
	return decodeOrdered(data, func(key string, raw json.RawMessage) error {
		var sem Semester
		if err := json.Unmarshal(raw, &sem); err != nil {
			return fmt.Errorf("semester %q: %w", key, err)
		}
		sem.Key = key
		for i := range idx.Semesters {
			if idx.Semesters[i].Key == key {
				idx.Semesters[i] = sem
				return nil
			}
		}
		idx.Semesters = append(idx.Semesters, sem)
		return nil
	})
}

// ParseIndex decodes an index.json document.
func ParseIndex(data []byte) (Index, error) {
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return Index{}, err
	}
	return idx, nil
}

func decodeOrdered(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errNotObject
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
