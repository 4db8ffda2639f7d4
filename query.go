package openpanel

import (
	"net/url"
	"strconv"
	"strings"
)

// DateRange is a named relative time window understood by the export API.
type DateRange string

// Date ranges accepted by the export API.
const (
	Last30Mins   DateRange = "30m"
	LastHour     DateRange = "lastHour"
	Today        DateRange = "today"
	Yesterday    DateRange = "yesterday"
	Last7Days    DateRange = "7d"
	Last30Days   DateRange = "30d"
	Last6Months  DateRange = "6m"
	Last12Months DateRange = "12m"
	MonthToDate  DateRange = "monthToDate"
	LastMonth    DateRange = "lastMonth"
	YearToDate   DateRange = "yearToDate"
	LastYear     DateRange = "lastYear"
)

var dateRanges = map[DateRange]struct{}{
	Last30Mins: {}, LastHour: {}, Today: {}, Yesterday: {},
	Last7Days: {}, Last30Days: {}, Last6Months: {}, Last12Months: {},
	MonthToDate: {}, LastMonth: {}, YearToDate: {}, LastYear: {},
}

// Valid reports whether r is one of the known date ranges.
func (r DateRange) Valid() bool {
	_, ok := dateRanges[r]
	return ok
}

// Query filters export requests. Zero-valued fields are omitted.
type Query struct {
	// ProfileID restricts results to one profile.
	ProfileID string
	// Event restricts results to one event name.
	Event string
	// Start is the first day included, e.g. "2026-01-01".
	Start string
	// End is the last day included.
	End string
	// Range selects a relative window instead of Start/End.
	Range DateRange
	// Page is the 1-based result page.
	Page int
	// Limit is the page size.
	Limit int
	// Includes lists related data to embed, e.g. "profile".
	Includes []string
}

// Values returns the query parameters for the set fields.
func (q *Query) Values() url.Values {
	v := url.Values{}
	if q == nil {
		return v
	}
	if q.ProfileID != "" {
		v.Set("profileId", q.ProfileID)
	}
	if q.Event != "" {
		v.Set("event", q.Event)
	}
	if q.Start != "" {
		v.Set("start", q.Start)
	}
	if q.End != "" {
		v.Set("end", q.End)
	}
	if q.Range != "" {
		v.Set("range", string(q.Range))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(q.Includes) > 0 {
		v.Set("includes", strings.Join(q.Includes, ","))
	}
	return v
}

// Encode returns the URL-encoded query string, without a leading "?".
func (q *Query) Encode() string {
	return q.Values().Encode()
}
