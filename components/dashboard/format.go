package dashboard

import (
	"strings"
	"time"
)

// InvalidDate is shown for approval dates that cannot be parsed.
const InvalidDate = "Invalid Date"

const displayDateLayout = "02 Jan 2006"

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"01-02-2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006",
}

// FormatDate renders a date as "02 Jan 2006". Unparseable input renders as
// InvalidDate rather than failing.
func FormatDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return InvalidDate
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(displayDateLayout)
		}
	}
	return InvalidDate
}

// UseBadgeClass maps a use-type category to its badge classes.
func UseBadgeClass(useType string) string {
	switch useType {
	case "Residential":
		return "bg-earth-100 text-earth-800"
	case "Industrial":
		return "bg-sage-600 text-white"
	case "Commercial":
		return "bg-terracotta-500 text-white"
	default:
		return "bg-earth-100 text-earth-600"
	}
}
