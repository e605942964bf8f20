package benefits

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultPageSize is the list page size when the caller gives none.
const DefaultPageSize = 20

// Filter returns the employees whose name, or any dependent's name, contains
// query case-insensitively. A blank query matches everyone. The result
// shares no slices with the input.
func Filter(employees []Employee, query string) []Employee {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Employee, 0, len(employees))
	for _, e := range employees {
		if q == "" || matches(e, q) {
			out = append(out, e.Clone())
		}
	}
	return out
}

func matches(e Employee, q string) bool {
	if strings.Contains(strings.ToLower(e.Name), q) {
		return true
	}
	for _, d := range e.Dependents {
		if strings.Contains(strings.ToLower(d.Name), q) {
			return true
		}
	}
	return false
}

// SortByName sorts in place by name, ignoring case and accents, with ties
// broken by id so the order is stable across calls.
func SortByName(employees []Employee) {
	// Collators are not safe for concurrent use; build one per call.
	c := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(employees, func(i, j int) bool {
		if cmp := c.CompareString(employees[i].Name, employees[j].Name); cmp != 0 {
			return cmp < 0
		}
		return employees[i].ID < employees[j].ID
	})
}

// Page is one slice of a longer list.
type Page struct {
	Items      []Employee `json:"items"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	TotalItems int        `json:"total_items"`
	TotalPages int        `json:"total_pages"`
}

// Paginate cuts 1-based page number page out of employees. Non-positive
// arguments fall back to page 1 and DefaultPageSize; a page past the end is
// empty.
func Paginate(employees []Employee, page, perPage int) Page {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	total := len(employees)
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	p := Page{
		Items:      []Employee{},
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: pages,
	}
	// Compare page indexes before multiplying; page*perPage can overflow.
	if total == 0 || page-1 > (total-1)/perPage {
		return p
	}
	start := (page - 1) * perPage
	end := total
	if total-start > perPage {
		end = start + perPage
	}
	p.Items = employees[start:end]
	return p
}
