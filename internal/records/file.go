package records

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pavelanni/portfolio/internal/model"
)

var (
	ErrCorruptData = errors.New("corrupt data")
	ErrWrite       = errors.New("write error")
)

// LineError describes one stored line that could not be parsed.
type LineError struct {
	Line int
	Err  error
}

// CorruptDataError lists the lines skipped while loading.
type CorruptDataError struct {
	Lines []LineError
}

func (e *CorruptDataError) Error() string {
	nums := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		nums[i] = strconv.Itoa(l.Line)
	}
	return fmt.Sprintf("%s: bad line %s", ErrCorruptData, strings.Join(nums, ", "))
}

func (e *CorruptDataError) Unwrap() error { return ErrCorruptData }

const (
	fieldCount = 6

	// MaxLineLength bounds one stored line; longer lines are reported as corrupt.
	MaxLineLength = 64 * 1024
)

// ErrLineTooLong marks a stored line longer than MaxLineLength.
var ErrLineTooLong = errors.New("line too long")

// Decode reads the records text format: a count header followed by one
// "code,name,cw1,cw2,cw3,exam" line per student. Blank lines are ignored,
// short lines are skipped, and lines with a non-integer score or over
// MaxLineLength are skipped and reported in a *CorruptDataError alongside
// the records that did parse.
func Decode(r io.Reader) ([]model.Record, error) {
	var (
		recs    []model.Record
		corrupt []LineError
		header  = true
		lineNo  int
	)
	br := bufio.NewReader(r)
	for {
		raw, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return recs, fmt.Errorf("read records: %w", err)
		}
		if raw == "" && err != nil {
			break
		}
		lineNo++
		if len(raw) > MaxLineLength {
			corrupt = append(corrupt, LineError{Line: lineNo, Err: fmt.Errorf("%w: %d bytes", ErrLineTooLong, len(raw))})
			header = false
		} else if rec, ok, lerr := decodeLine(raw, &header); lerr != nil {
			corrupt = append(corrupt, LineError{Line: lineNo, Err: lerr})
		} else if ok {
			recs = append(recs, rec)
		}
		if err != nil {
			break
		}
	}
	if len(corrupt) > 0 {
		return recs, &CorruptDataError{Lines: corrupt}
	}
	return recs, nil
}

// decodeLine parses one raw line. ok is false for blank, header and short lines.
func decodeLine(raw string, header *bool) (model.Record, bool, error) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return model.Record{}, false, nil
	}
	if *header {
		*header = false
		return model.Record{}, false, nil
	}
	parts := strings.Split(line, ",")
	if len(parts) < fieldCount {
		return model.Record{}, false, nil
	}
	s, err := parseStudent(parts[0], parts[1], parts[2], parts[3], parts[4], parts[5])
	if err != nil {
		return model.Record{}, false, err
	}
	return model.NewRecord(s), true, nil
}

// Encode writes recs in the records text format. Derived marks are not written.
func Encode(w io.Writer, recs []model.Record) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(recs))
	for _, r := range recs {
		fmt.Fprintf(bw, "%s,%s,%d,%d,%d,%d\n", r.Code, r.Name, r.CW1, r.CW2, r.CW3, r.Exam)
	}
	return bw.Flush()
}

// ReadFile loads records from path, creating the file with an empty
// header when it does not exist.
func ReadFile(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, []byte("0\n"), 0o644); err != nil {
			return nil, fmt.Errorf("%w: create %s: %w", ErrWrite, path, err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile overwrites path with recs.
func WriteFile(path string, recs []model.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := Encode(f, recs); err != nil {
		f.Close()
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func parseStudent(code, name, cw1, cw2, cw3, exam string) (model.Student, error) {
	s := model.Student{
		Code: strings.TrimSpace(code),
		Name: strings.TrimSpace(name),
	}
	fields := []struct {
		label string
		text  string
		dst   *int
	}{
		{"cw1", cw1, &s.CW1},
		{"cw2", cw2, &s.CW2},
		{"cw3", cw3, &s.CW3},
		{"exam", exam, &s.Exam},
	}
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f.text))
		if err != nil {
			return model.Student{}, fmt.Errorf("%s: %q is not a whole number", f.label, f.text)
		}
		*f.dst = n
	}
	return s, nil
}
