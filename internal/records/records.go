package records

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/pavelanni/portfolio/internal/model"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("student not found")
	ErrEmpty        = errors.New("no student records")
	ErrUnknownField = errors.New("unknown sort field")
)

// Field names a sortable column.
type Field string

const (
	FieldCode       Field = "code"
	FieldName       Field = "name"
	FieldCoursework Field = "coursework"
	FieldExam       Field = "exam"
	FieldTotal      Field = "total"
	FieldPercent    Field = "percent"
	FieldGrade      Field = "grade"
)

var fieldAliases = map[string]Field{
	"code":       FieldCode,
	"name":       FieldName,
	"coursework": FieldCoursework,
	"cw":         FieldCoursework,
	"exam":       FieldExam,
	"total":      FieldTotal,
	"percent":    FieldPercent,
	"pct":        FieldPercent,
	"grade":      FieldGrade,
}

// ParseField resolves a column name.
func ParseField(s string) (Field, error) {
	f, ok := fieldAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	return f, nil
}

// Summary is the count and mean percent of all records.
type Summary struct {
	Count          int
	AveragePercent float64
}

// Manager owns the in-memory records and rewrites the backing file on every change.
type Manager struct {
	path    string
	records []model.Record

	sortField Field
	sortDesc  bool
}

// Open loads the records file at path, creating it when absent. A
// *CorruptDataError is returned together with a usable Manager holding
// every line that did parse.
func Open(path string) (*Manager, error) {
	m := &Manager{path: path, sortField: FieldPercent, sortDesc: true}
	err := m.Load()
	if err != nil && !errors.Is(err, ErrCorruptData) {
		return nil, err
	}
	return m, err
}

// Path returns the backing file.
func (m *Manager) Path() string { return m.path }

// Load replaces the in-memory records with the file contents.
func (m *Manager) Load() error {
	recs, err := ReadFile(m.path)
	m.records = recs
	if err != nil {
		slog.Warn("records loaded with errors", "path", m.path, "loaded", len(recs), "error", err)
		return err
	}
	slog.Info("loaded records", "path", m.path, "count", len(recs))
	return nil
}

// Save writes all records to the backing file.
func (m *Manager) Save() error {
	if err := WriteFile(m.path, m.records); err != nil {
		slog.Error("failed to save records", "path", m.path, "error", err)
		return err
	}
	slog.Debug("saved records", "path", m.path, "count", len(m.records))
	return nil
}

// All returns the records in stored order.
func (m *Manager) All() []model.Record {
	return slices.Clone(m.records)
}

// Len returns the number of records.
func (m *Manager) Len() int { return len(m.records) }

// ParseStudent validates raw form input.
func ParseStudent(code, name, cw1, cw2, cw3, exam string) (model.Student, error) {
	s, err := parseStudent(code, name, cw1, cw2, cw3, exam)
	if err != nil {
		return model.Student{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if strings.ContainsAny(s.Code+s.Name, ",\r\n") {
		return model.Student{}, fmt.Errorf("%w: code and name cannot contain commas or line breaks", ErrInvalidInput)
	}
	return s, nil
}

// Add validates and appends a new record, then saves.
func (m *Manager) Add(code, name, cw1, cw2, cw3, exam string) (model.Record, error) {
	s, err := ParseStudent(code, name, cw1, cw2, cw3, exam)
	if err != nil {
		return model.Record{}, err
	}
	rec := model.NewRecord(s)
	m.records = append(m.records, rec)
	slog.Info("added student", "code", rec.Code, "percent", rec.Percent)
	return rec, m.Save()
}

// Update replaces the marks of the first record with the given code, then saves.
func (m *Manager) Update(code, name, cw1, cw2, cw3, exam string) (model.Record, error) {
	s, err := ParseStudent(code, name, cw1, cw2, cw3, exam)
	if err != nil {
		return model.Record{}, err
	}
	i := slices.IndexFunc(m.records, func(r model.Record) bool { return r.Code == s.Code })
	if i < 0 {
		return model.Record{}, fmt.Errorf("%w: code %q", ErrNotFound, s.Code)
	}
	m.records[i] = model.NewRecord(s)
	slog.Info("updated student", "code", s.Code, "percent", m.records[i].Percent)
	return m.records[i], m.Save()
}

// Delete removes every record with the given code, then saves.
func (m *Manager) Delete(code string) (int, error) {
	code = strings.TrimSpace(code)
	before := len(m.records)
	m.records = slices.DeleteFunc(m.records, func(r model.Record) bool { return r.Code == code })
	removed := before - len(m.records)
	if removed == 0 {
		return 0, fmt.Errorf("%w: code %q", ErrNotFound, code)
	}
	slog.Info("deleted student", "code", code, "removed", removed)
	return removed, m.Save()
}

// Get returns the first record with exactly the given code.
func (m *Manager) Get(code string) (model.Record, error) {
	for _, r := range m.records {
		if r.Code == code {
			return r, nil
		}
	}
	return model.Record{}, fmt.Errorf("%w: code %q", ErrNotFound, code)
}

// Find returns the first record whose code equals query or whose name
// contains it, ignoring case.
func (m *Manager) Find(query string) (model.Record, error) {
	lq := strings.ToLower(query)
	for _, r := range m.records {
		if r.Code == query || strings.Contains(strings.ToLower(r.Name), lq) {
			return r, nil
		}
	}
	return model.Record{}, fmt.Errorf("%w: %q", ErrNotFound, query)
}

// Highest returns the record with the greatest percent.
func (m *Manager) Highest() (model.Record, error) {
	if len(m.records) == 0 {
		return model.Record{}, ErrEmpty
	}
	return slices.MaxFunc(m.records, byPercent), nil
}

// Lowest returns the record with the smallest percent.
func (m *Manager) Lowest() (model.Record, error) {
	if len(m.records) == 0 {
		return model.Record{}, ErrEmpty
	}
	return slices.MinFunc(m.records, byPercent), nil
}

func byPercent(a, b model.Record) int {
	return cmp.Compare(a.Percent, b.Percent)
}

// SortBy sets the view order. Choosing the current field again flips the
// direction; a new field starts descending.
func (m *Manager) SortBy(f Field) (Field, bool) {
	if f == m.sortField {
		m.sortDesc = !m.sortDesc
	} else {
		m.sortField = f
		m.sortDesc = true
	}
	return m.sortField, m.sortDesc
}

// SortOrder returns the current view order.
func (m *Manager) SortOrder() (Field, bool) {
	return m.sortField, m.sortDesc
}

// View returns the records in the current sort order. Stored order is untouched.
func (m *Manager) View() []model.Record {
	view := slices.Clone(m.records)
	cmpFn := comparator(m.sortField)
	if m.sortDesc {
		slices.SortStableFunc(view, func(a, b model.Record) int { return cmpFn(b, a) })
	} else {
		slices.SortStableFunc(view, cmpFn)
	}
	return view
}

// Search filters the sorted view to records whose name (ignoring case) or
// code contains sub. An empty sub matches everything.
func (m *Manager) Search(sub string) []model.Record {
	view := m.View()
	if sub == "" {
		return view
	}
	lsub := strings.ToLower(sub)
	return slices.DeleteFunc(view, func(r model.Record) bool {
		return !strings.Contains(strings.ToLower(r.Name), lsub) && !strings.Contains(r.Code, sub)
	})
}

// Summary returns the record count and mean percent.
func (m *Manager) Summary() Summary {
	return summarize(m.records)
}

func summarize(recs []model.Record) Summary {
	if len(recs) == 0 {
		return Summary{}
	}
	var sum float64
	for _, r := range recs {
		sum += r.Percent
	}
	return Summary{Count: len(recs), AveragePercent: sum / float64(len(recs))}
}

// Export builds a JSON-ready snapshot of all records with their derived marks.
func (m *Manager) Export() model.RecordsExport {
	sum := m.Summary()
	recs := m.All()
	if recs == nil {
		recs = []model.Record{}
	}
	return model.RecordsExport{
		Source:         m.path,
		ExportedAt:     time.Now().UTC(),
		Count:          sum.Count,
		AveragePercent: sum.AveragePercent,
		Records:        recs,
	}
}

func comparator(f Field) func(a, b model.Record) int {
	switch f {
	case FieldCode:
		return func(a, b model.Record) int { return cmp.Compare(a.Code, b.Code) }
	case FieldName:
		return func(a, b model.Record) int { return cmp.Compare(a.Name, b.Name) }
	case FieldCoursework:
		return func(a, b model.Record) int { return cmp.Compare(a.Coursework, b.Coursework) }
	case FieldExam:
		return func(a, b model.Record) int { return cmp.Compare(a.Exam, b.Exam) }
	case FieldTotal:
		return func(a, b model.Record) int { return cmp.Compare(a.Total, b.Total) }
	case FieldGrade:
		return func(a, b model.Record) int { return cmp.Compare(a.Grade, b.Grade) }
	}
	return byPercent
}
