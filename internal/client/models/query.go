package models

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/rentdesk/internal/validate"
)

// ListQuery holds the server-side filters of the list endpoint. Zero
// values are omitted from the query string.
type ListQuery struct {
	Category Category
	MinPrice float64
	MaxPrice float64
	Start    time.Time
	End      time.Time
	Page     int
}

func (q ListQuery) Validate() error {
	v := &validate.Validator{}
	if q.Category != "" {
		v.OneOf("category", string(q.Category), stringsOf(Categories)...)
	}
	v.Custom("min_price", q.MinPrice < 0, "must not be negative")
	v.Custom("max_price", q.MaxPrice < 0, "must not be negative")
	v.Custom("max_price", q.MinPrice > 0 && q.MaxPrice > 0 && q.MinPrice > q.MaxPrice,
		"must not be below min_price")
	v.Custom("start", q.Start.IsZero() != q.End.IsZero(), "start and end must be set together")
	v.Custom("end", !q.Start.IsZero() && !q.End.IsZero() && !q.Start.Before(q.End),
		"must be after start")
	v.Custom("page", q.Page < 0, "must not be negative")
	return v.Err()
}

// Values encodes q as URL query parameters.
func (q ListQuery) Values() url.Values {
	vals := url.Values{}
	if q.Category != "" {
		vals.Set("category", string(q.Category))
	}
	if q.MinPrice > 0 {
		vals.Set("min_price", strconv.FormatFloat(q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice > 0 {
		vals.Set("max_price", strconv.FormatFloat(q.MaxPrice, 'f', -1, 64))
	}
	if !q.Start.IsZero() && !q.End.IsZero() {
		vals.Set("start", q.Start.Format(time.RFC3339))
		vals.Set("end", q.End.Format(time.RFC3339))
	}
	if q.Page > 0 {
		vals.Set("page", strconv.Itoa(q.Page))
	}
	return vals
}

// FilterAll disables a Filter criterion, as does the empty string.
const FilterAll = "all"

// Filter narrows an already fetched list on the client.
type Filter struct {
	// Search matches title, description, city or country, case-insensitively.
	Search   string
	Status   string
	Category string
}

// Apply returns the apartments matching every set criterion, preserving order.
func (f Filter) Apply(in []Apartment) []Apartment {
	query := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]Apartment, 0, len(in))
	for _, a := range in {
		if query != "" && !matchesSearch(a, query) {
			continue
		}
		if isSet(f.Status) && string(a.Status) != f.Status {
			continue
		}
		if isSet(f.Category) && string(a.Category) != f.Category {
			continue
		}
		out = append(out, a)
	}
	return out
}

func isSet(v string) bool {
	return v != "" && v != FilterAll
}

func matchesSearch(a Apartment, query string) bool {
	for _, field := range []string{a.Title, a.Description, a.City, a.Country} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// RecentLimit is how many listings the dashboard shows.
const RecentLimit = 5

// DashboardStats summarizes the listings of the current account.
type DashboardStats struct {
	Total       int
	Available   int
	Occupied    int
	Maintenance int
	Inactive    int
	Recent      []Apartment
}

// NewDashboardStats counts apartments per status. Occupied covers both the
// dashboard's "occupe" and the backend's "indisponible"/"en_cours".
func NewDashboardStats(apartments []Apartment) DashboardStats {
	s := DashboardStats{Total: len(apartments)}
	for _, a := range apartments {
		switch a.Status {
		case StatusDisponible:
			s.Available++
		case StatusOccupe, StatusIndisponible, StatusEnCours:
			s.Occupied++
		case StatusMaintenance:
			s.Maintenance++
		case StatusInactif:
			s.Inactive++
		}
	}

	n := min(RecentLimit, len(apartments))
	s.Recent = append([]Apartment(nil), apartments[:n]...)
	return s
}

// Share returns part as a percentage of Total, 0 when there are no listings.
func (s DashboardStats) Share(part int) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(s.Total)
}
