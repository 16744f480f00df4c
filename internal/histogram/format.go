package histogram

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	nbsp             = "\u00a0"
	summaryPadWidth  = 16
	fragmentJoin     = nbsp + nbsp
	semesterKeyWidth = 6
)

// leadingNumber matches the numeric prefix a browser parseFloat accepts.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Locale holds the display strings for semester and category labels.
type Locale struct {
	Winter     string
	Spring     string
	Summer     string
	MoedA      string
	MoedB      string
	Finals     string
	Categories map[string]string
}

// English is the default locale.
var English = Locale{
	Winter: "Winter",
	Spring: "Spring",
	Summer: "Summer",
	MoedA:  "A",
	MoedB:  "B",
	Finals: "Finals",
	Categories: map[string]string{
		CategoryExamA:  "Exam A",
		CategoryFinalA: "Final A",
		CategoryExamB:  "Exam B",
		CategoryFinalB: "Final B",
		CategoryFinals: "Finals",
	},
}

// Hebrew carries the labels of the original course site.
var Hebrew = Locale{
	Winter: "חורף",
	Spring: "אביב",
	Summer: "קיץ",
	MoedA:  "א'",
	MoedB:  "ב'",
	Finals: "סופי",
	Categories: map[string]string{
		CategoryExamA:  "מבחן מועד א'",
		CategoryFinalA: "סופי מועד א'",
		CategoryExamB:  "מבחן מועד ב'",
		CategoryFinalB: "סופי מועד ב'",
		CategoryFinals: "סופי",
	},
}

// LocaleByName resolves a configured locale name, falling back to English.
func LocaleByName(name string) Locale {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "he", "hebrew":
		return Hebrew
	default:
		return English
	}
}

// RoundGrade renders raw with one fractional digit. Input that does not parse,
// or parses to zero, is returned unchanged.
func RoundGrade(raw string) string {
	m := leadingNumber.FindString(strings.TrimLeft(raw, " \t\n\r\f\v"))
	if m == "" {
		return raw
	}
	grade, err := strconv.ParseFloat(m, 64)
	if err != nil && !isRangeErr(err) {
		return raw
	}
	if grade == 0 || math.IsInf(grade, 0) || math.IsNaN(grade) {
		return raw
	}
	return toFixed1(grade)
}

// toFixed1 formats f with one fractional digit, rounding exact halves away
// from zero.
func toFixed1(f float64) string {
	a := math.Abs(f)
	if q := a * 4; q == math.Trunc(q) && math.Mod(q, 2) == 1 && a < 1<<50 {
		n := int64(math.Floor(a*10)) + 1
		s := strconv.FormatInt(n/10, 10) + "." + strconv.FormatInt(n%10, 10)
		if f < 0 {
			s = "-" + s
		}
		return s
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// SemesterLabel formats a YYYYSS semester key.
func SemesterLabel(key string) string { return English.SemesterLabel(key) }

// CategoryLabel formats a category key.
func CategoryLabel(key string) string { return English.CategoryLabel(key) }

// SemesterSummary builds the semester dropdown text.
func SemesterSummary(key string, sem Semester) string { return English.SemesterSummary(key, sem) }

// CategoryOption builds the category dropdown text.
func CategoryOption(key string, stats CategoryStats) string {
	return English.CategoryOption(key, stats)
}

func (l Locale) SemesterLabel(key string) string {
	if len(key) != semesterKeyWidth {
		return key
	}
	year, err := strconv.Atoi(key[:4])
	if err != nil {
		return key
	}

	switch key[4:] {
	case "01":
		return l.Winter + " " + strconv.Itoa(year) + "-" + strconv.Itoa(year+1)
	case "02":
		return l.Spring + " " + strconv.Itoa(year+1)
	case "03":
		return l.Summer + " " + strconv.Itoa(year+1)
	default:
		return key
	}
}

func (l Locale) CategoryLabel(key string) string {
	if label, ok := l.Categories[key]; ok {
		return label
	}
	return key
}

func (l Locale) SemesterSummary(key string, sem Semester) string {
	text := l.SemesterLabel(key)

	var fragments []string
	if avg, ok := moedAverage(sem, CategoryFinalA, CategoryExamA); ok {
		fragments = append(fragments, l.MoedA+" "+RoundGrade(avg))
	}
	if avg, ok := moedAverage(sem, CategoryFinalB, CategoryExamB); ok {
		fragments = append(fragments, l.MoedB+" "+RoundGrade(avg))
	}
	if avg, ok := moedAverage(sem, CategoryFinals); ok {
		fragments = append(fragments, l.Finals+" "+RoundGrade(avg))
	}
	if len(fragments) == 0 {
		return text
	}

	if pad := summaryPadWidth - utf8.RuneCountInString(text); pad > 0 {
		text += strings.Repeat(nbsp, pad)
	}
	return text + strings.Join(fragments, fragmentJoin)
}

func (l Locale) CategoryOption(key string, stats CategoryStats) string {
	text := l.CategoryLabel(key)
	if !stats.Average.Present() {
		return text
	}
	return text + ": " + RoundGrade(string(stats.Average))
}

// moedAverage picks the first category among keys that exists and reports
// its average when one was computed.
func moedAverage(sem Semester, keys ...string) (string, bool) {
	for _, k := range keys {
		stats, ok := sem.Lookup(k)
		if !ok {
			continue
		}
		if !stats.Average.Present() {
			return "", false
		}
		return string(stats.Average), true
	}
	return "", false
}
