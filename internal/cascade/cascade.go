package cascade

import (
	"errors"
	"fmt"

	"github.com/godilite/histogram-browser/internal/histogram"
)

var (
	ErrEmptyIndex       = errors.New("no histograms for this course")
	ErrNoCategories     = errors.New("semester has no categories")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrNoIndex          = errors.New("no index loaded")
)

// ImageURLFunc locates the histogram image of a course/semester/category.
type ImageURLFunc func(course, semester, category string) string

// Option is one entry of a dropdown.
type Option struct {
	Value    string
	Text     string
	Selected bool
}

// Selection is the resolved state shown below the dropdowns.
type Selection struct {
	Course   string
	Semester string
	Category string
	Stats    histogram.CategoryStats
	ImageURL string
}

// Cascade drives the semester -> category dropdown pair of one course.
// It is not safe for concurrent use.
type Cascade struct {
	course   string
	locale   histogram.Locale
	imageURL ImageURLFunc
	onChange func(Selection)

	index    histogram.Index
	loaded   bool
	semester int
	category int
}

// New creates a cascade for course. onChange runs after every explicit
// selection, including the implicit ones made by SetIndex and SelectSemester.
func New(course string, locale histogram.Locale, imageURL ImageURLFunc, onChange func(Selection)) *Cascade {
	if imageURL == nil {
		imageURL = func(string, string, string) string { return "" }
	}
	if onChange == nil {
		onChange = func(Selection) {}
	}
	if locale.Categories == nil {
		locale = histogram.English
	}
	return &Cascade{
		course:   course,
		locale:   locale,
		imageURL: imageURL,
		onChange: onChange,
		semester: -1,
		category: -1,
	}
}

// SetIndex replaces the index and selects its last semester and that
// semester's last category.
func (c *Cascade) SetIndex(idx histogram.Index) error {
	c.index = idx
	c.loaded = true
	c.semester = -1
	c.category = -1

	if idx.Len() == 0 {
		return ErrEmptyIndex
	}
	last, _ := idx.Last()
	return c.SelectSemester(last.Key)
}

// SelectSemester selects key and resets the category to the semester's last one.
func (c *Cascade) SelectSemester(key string) error {
	if !c.loaded {
		return ErrNoIndex
	}
	pos := c.semesterPos(key)
	if pos < 0 {
		return fmt.Errorf("%w: semester %q", ErrInvalidSelection, key)
	}
	sem := c.index.Semesters[pos]
	if len(sem.Categories) == 0 {
		return fmt.Errorf("%w: %q", ErrNoCategories, key)
	}

	c.semester = pos
	last, _ := sem.Last()
	return c.SelectCategory(last.Key)
}

// SelectCategory selects key within the current semester.
func (c *Cascade) SelectCategory(key string) error {
	if c.semester < 0 {
		return ErrNoIndex
	}
	sem := c.index.Semesters[c.semester]
	pos := -1
	for i, cat := range sem.Categories {
		if cat.Key == key {
			pos = i
			break
		}
	}
	if pos < 0 {
		return fmt.Errorf("%w: category %q in semester %q", ErrInvalidSelection, key, sem.Key)
	}

	c.category = pos
	c.onChange(c.Selection())
	return nil
}

// Selection returns the current selection. It is the zero value until a
// category has been selected.
func (c *Cascade) Selection() Selection {
	if c.semester < 0 || c.category < 0 {
		return Selection{Course: c.course}
	}
	sem := c.index.Semesters[c.semester]
	cat := sem.Categories[c.category]
	return Selection{
		Course:   c.course,
		Semester: sem.Key,
		Category: cat.Key,
		Stats:    cat.Stats,
		ImageURL: c.imageURL(c.course, sem.Key, cat.Key),
	}
}

// SemesterOptions lists every semester in source order.
func (c *Cascade) SemesterOptions() []Option {
	opts := make([]Option, 0, c.index.Len())
	for i, sem := range c.index.Semesters {
		opts = append(opts, Option{
			Value:    sem.Key,
			Text:     c.locale.SemesterSummary(sem.Key, sem),
			Selected: i == c.semester,
		})
	}
	return opts
}

// CategoryOptions lists the categories of the selected semester.
func (c *Cascade) CategoryOptions() []Option {
	if c.semester < 0 {
		return nil
	}
	sem := c.index.Semesters[c.semester]
	opts := make([]Option, 0, len(sem.Categories))
	for i, cat := range sem.Categories {
		opts = append(opts, Option{
			Value:    cat.Key,
			Text:     c.locale.CategoryOption(cat.Key, cat.Stats),
			Selected: i == c.category,
		})
	}
	return opts
}

func (c *Cascade) semesterPos(key string) int {
	for i, sem := range c.index.Semesters {
		if sem.Key == key {
			return i
		}
	}
	return -1
}
