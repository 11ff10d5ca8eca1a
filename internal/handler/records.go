package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/pavelanni/portfolio/internal/console"
	"github.com/pavelanni/portfolio/internal/model"
	"github.com/pavelanni/portfolio/internal/records"
)

const (
	usageAdd    = "add <code> <name> <cw1> <cw2> <cw3> <exam>"
	usageUpdate = "update <code> <name> <cw1> <cw2> <cw3> <exam>"
	usageDelete = "delete <code>"
	usageFind   = "find <code or name>"
	usageSort   = "sort <code|name|coursework|exam|total|percent|grade>"
)

// Records manages the student table.
type Records struct {
	base
	m *records.Manager
}

func NewRecords(c *console.Console, m *records.Manager) *Records {
	return &Records{base: newBase(c), m: m}
}

func (h *Records) Routes(c *console.Console) {
	c.Handle([]string{"list", "view", "search"}, "HelpRecordsList", h.handleList)
	c.Handle([]string{"find"}, "HelpRecordsFind", h.handleFind)
	c.Handle([]string{"highest"}, "HelpRecordsHighest", h.handleHighest)
	c.Handle([]string{"lowest"}, "HelpRecordsLowest", h.handleLowest)
	c.Handle([]string{"sort"}, "HelpRecordsSort", h.handleSort)
	c.Handle([]string{"add"}, "HelpRecordsAdd", h.handleAdd)
	c.Handle([]string{"update"}, "HelpRecordsUpdate", h.handleUpdate)
	c.Handle([]string{"delete", "remove"}, "HelpRecordsDelete", h.handleDelete)
	c.Handle([]string{"summary", "stats"}, "HelpRecordsSummary", h.handleSummary)
}

// Start prints the title and the full table.
func (h *Records) Start() {
	h.say("RecordsTitle")
	h.printTable("")
}

// ReportLoadError tells the user about lines skipped while loading.
func (h *Records) ReportLoadError(err error) {
	h.sayd("RecordsDataError", map[string]any{"Error": err.Error()})
}

func (h *Records) handleList(_ context.Context, args []string) error {
	h.printTable(strings.Join(args, " "))
	return nil
}

func (h *Records) printTable(query string) {
	recs := h.m.Search(query)
	if len(recs) == 0 {
		h.say("RecordsNone")
	} else {
		header := []string{
			h.loc.T("ColCode"), h.loc.T("ColName"), h.loc.T("ColCoursework"),
			h.loc.T("ColExam"), h.loc.T("ColPercent"), h.loc.T("ColGrade"),
		}
		rows := make([][]string, 0, len(recs))
		for _, r := range recs {
			rows = append(rows, []string{
				r.Code, r.Name, strconv.Itoa(r.Coursework),
				strconv.Itoa(r.Exam), formatPercent(r.Percent, 2), r.Grade,
			})
		}
		h.c.Table(header, rows)
	}
	h.printSummary()
}

func (h *Records) printSummary() {
	sum := h.m.Summary()
	h.sayd("RecordsSummary", map[string]any{
		"Count":   sum.Count,
		"Average": formatPercent(sum.AveragePercent, 2),
	})
}

func (h *Records) printDetails(r model.Record) {
	h.sayd("RecordsDetails", map[string]any{
		"Name":       r.Name,
		"Code":       r.Code,
		"Coursework": r.Coursework,
		"Exam":       r.Exam,
		"Percent":    formatPercent(r.Percent, 2),
		"Grade":      r.Grade,
	})
}

func (h *Records) usage(u string) {
	h.sayd("RecordsUsage", map[string]any{"Usage": u})
}

func (h *Records) handleFind(_ context.Context, args []string) error {
	if len(args) == 0 {
		h.usage(usageFind)
		return nil
	}
	r, err := h.m.Find(strings.Join(args, " "))
	if errors.Is(err, records.ErrNotFound) {
		h.say("RecordsNotFound")
		return nil
	}
	if err != nil {
		return err
	}
	h.printDetails(r)
	return nil
}

func (h *Records) handleHighest(context.Context, []string) error {
	return h.showExtreme("RecordsHighest", h.m.Highest)
}

func (h *Records) handleLowest(context.Context, []string) error {
	return h.showExtreme("RecordsLowest", h.m.Lowest)
}

func (h *Records) showExtreme(titleID string, pick func() (model.Record, error)) error {
	r, err := pick()
	if errors.Is(err, records.ErrEmpty) {
		h.say("RecordsEmpty")
		return nil
	}
	if err != nil {
		return err
	}
	h.say(titleID)
	h.printDetails(r)
	return nil
}

func (h *Records) handleSort(_ context.Context, args []string) error {
	name := string(records.FieldPercent)
	if len(args) > 0 {
		name = args[0]
	}
	f, err := records.ParseField(name)
	if err != nil {
		h.sayd("RecordsUnknownField", map[string]any{"Field": name})
		h.usage(usageSort)
		return nil
	}
	field, desc := h.m.SortBy(f)
	dir := h.loc.T("Ascending")
	if desc {
		dir = h.loc.T("Descending")
	}
	h.sayd("RecordsSorted", map[string]any{"Field": string(field), "Direction": dir})
	h.printTable("")
	return nil
}

func (h *Records) handleAdd(_ context.Context, args []string) error {
	if len(args) != 6 {
		h.usage(usageAdd)
		return nil
	}
	_, err := h.m.Add(args[0], spaceName(args[1]), args[2], args[3], args[4], args[5])
	if h.mutationFailed(err) {
		return nil
	}
	h.say("RecordsAdded")
	h.printTable("")
	return nil
}

func (h *Records) handleUpdate(_ context.Context, args []string) error {
	if len(args) != 6 {
		h.usage(usageUpdate)
		return nil
	}
	r, err := h.m.Update(args[0], spaceName(args[1]), args[2], args[3], args[4], args[5])
	if h.mutationFailed(err) {
		return nil
	}
	h.say("RecordsUpdated")
	h.printDetails(r)
	return nil
}

// spaceName lets a name be typed as one word: Ann_Lee is stored as "Ann Lee".
func spaceName(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

func (h *Records) handleDelete(_ context.Context, args []string) error {
	if len(args) != 1 {
		h.usage(usageDelete)
		return nil
	}
	r, err := h.m.Get(args[0])
	if errors.Is(err, records.ErrNotFound) {
		h.say("RecordsNotFound")
		return nil
	}
	if err != nil {
		return err
	}
	h.sayd("RecordsConfirmDelete", map[string]any{"Code": r.Code, "Name": r.Name})
	h.c.Expect(func(_ context.Context, line string) error {
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
		default:
			h.say("RecordsDeleteCancelled")
			return nil
		}
		n, err := h.m.Delete(r.Code)
		if h.mutationFailed(err) {
			return nil
		}
		h.sayp("RecordsDeleted", n)
		h.printTable("")
		return nil
	})
	return nil
}

func (h *Records) handleSummary(context.Context, []string) error {
	h.printSummary()
	return nil
}

// mutationFailed reports err to the user and says whether the command should stop.
// A write error still leaves the change in memory.
func (h *Records) mutationFailed(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, records.ErrInvalidInput):
		h.say("RecordsInputError")
	case errors.Is(err, records.ErrNotFound):
		h.say("RecordsNotFound")
	case errors.Is(err, records.ErrWrite):
		h.sayd("RecordsSaveError", map[string]any{"Error": err.Error()})
	default:
		h.c.Println(err)
	}
	return true
}
