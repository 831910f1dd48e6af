package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	cases := map[string]string{
		"1995-03-12":           "12 Mar 1995",
		"2004-07-01T10:00:00Z": "01 Jul 2004",
		"12/03/1995":           "03 Dec 1995",
		"03/04/2019":           "04 Mar 2019",
		"03-04-2019":           "04 Mar 2019",
		"25/12/2019":           InvalidDate,
		"":                     InvalidDate,
		"not-a-date":           InvalidDate,
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatDate(in), "input %q", in)
	}
}

func TestUseBadgeClass(t *testing.T) {
	assert.Contains(t, UseBadgeClass("Industrial"), "sage")
	assert.Contains(t, UseBadgeClass("Commercial"), "terracotta")
	assert.Equal(t, UseBadgeClass("Residential"), "bg-earth-100 text-earth-800")
	assert.Equal(t, "bg-earth-100 text-earth-600", UseBadgeClass("Mixed"))
}

func TestBuildLayoutRows(t *testing.T) {
	rows := BuildLayoutRows(fixtureLayoutRecords(t))
	assert.Len(t, rows, 3)
	assert.Equal(t, LayoutRow{
		ID:           "1",
		Name:         "HSR Layout",
		Location:     "Agara, Bangalore South",
		Extent:       "10-20",
		ApprovalDate: "12 Mar 1995",
		UseType:      "Residential",
		BadgeClass:   "bg-earth-100 text-earth-800",
	}, rows[0])
	assert.Equal(t, InvalidDate, rows[2].ApprovalDate, "a bad date only affects its own cell")
	assert.Equal(t, "Banashankari Stage", rows[2].Name)
}
