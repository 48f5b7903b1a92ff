package contactsearch

import (
	"net/url"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// Query parameter names for the non-text filters.
const (
	ParamCoilExp       = "coilExp"
	ParamMobilityFin   = "mobilityFin"
	ParamCreatedAfter  = "createdAfter"
	ParamCreatedBefore = "createdBefore"
	ParamUpdatedAfter  = "updatedAfter"
	ParamUpdatedBefore = "updatedBefore"
)

// FromQuery binds criteria from URL query parameters. Text fields use their
// Field names. Booleans accept true/false, yes/no, 1/0 and y/n; anything
// else leaves the filter absent. Dates accept yyyy-MM-dd or
// yyyy-MM-ddTHH:mm; a date-only upper bound covers the whole day.
func FromQuery(v url.Values) Criteria {
	var c Criteria
	for _, f := range Fields() {
		c.Set(f, v.Get(string(f)))
	}
	c.SetCoilExp(parseFlag(v.Get(ParamCoilExp)))
	c.SetMobilityFin(parseFlag(v.Get(ParamMobilityFin)))
	c.SetCreatedAfter(parseBound(v.Get(ParamCreatedAfter), false))
	c.SetCreatedBefore(parseBound(v.Get(ParamCreatedBefore), true))
	c.SetUpdatedAfter(parseBound(v.Get(ParamUpdatedAfter), false))
	c.SetUpdatedBefore(parseBound(v.Get(ParamUpdatedBefore), true))
	return c
}

// Query renders c back into URL query parameters that FromQuery accepts.
func (c Criteria) Query() url.Values {
	v := url.Values{}
	for _, f := range Fields() {
		if s, ok := c.Get(f); ok {
			v.Set(string(f), s)
		}
	}
	if c.coilExp != nil {
		v.Set(ParamCoilExp, formatFlag(*c.coilExp))
	}
	if c.mobilityFin != nil {
		v.Set(ParamMobilityFin, formatFlag(*c.mobilityFin))
	}
	setBound(v, ParamCreatedAfter, c.createdAfter, false)
	setBound(v, ParamCreatedBefore, c.createdBefore, true)
	setBound(v, ParamUpdatedAfter, c.updatedAfter, false)
	setBound(v, ParamUpdatedBefore, c.updatedBefore, true)
	return v
}

// FlagValue returns "true", "false" or "" for a boolean filter. Used by the
// search form's select boxes.
func FlagValue(b *bool) string {
	if b == nil {
		return ""
	}
	return formatFlag(*b)
}

// BoundValue renders a date bound the way it is written in a query:
// yyyy-MM-dd when it sits on a day boundary (start of day for a lower
// bound, end of day for an upper one), yyyy-MM-ddTHH:mm otherwise. Nil
// yields "".
func BoundValue(t *time.Time, upper bool) string {
	if t == nil {
		return ""
	}
	return formatBound(*t, upper)
}

func parseFlag(s string) *bool {
	var b bool
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "y":
		b = true
	case "false", "no", "0", "n":
		b = false
	default:
		return nil
	}
	return &b
}

func formatFlag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func parseBound(s string, upper bool) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.ParseInLocation(dateTimeLayout, s, time.UTC); err == nil {
		return &t
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil
	}
	if upper {
		t = endOfDay(t)
	}
	return &t
}

func setBound(v url.Values, key string, t *time.Time, upper bool) {
	if t == nil {
		return
	}
	v.Set(key, formatBound(*t, upper))
}

func formatBound(t time.Time, upper bool) string {
	u := t.UTC()
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	if (!upper && u.Equal(day)) || (upper && u.Equal(endOfDay(day))) {
		return u.Format(dateLayout)
	}
	return u.Format(dateTimeLayout)
}

func endOfDay(day time.Time) time.Time {
	return day.Add(24*time.Hour - time.Nanosecond)
}
