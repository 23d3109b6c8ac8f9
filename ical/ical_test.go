package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWriteToBasicDocument(t *testing.T) {
	calendar := Calendar{Name: "Fagnettverk"}
	calendar.AddEvent(Event{
		UID:      "fagdag-mars@fagnett",
		Summary:  "Fagdag om datadeling",
		Location: "Oslo",
		Start:    time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC),
	})

	var b strings.Builder
	err := calendar.WriteTo(&b)
	assert.NoError(t, err)

	out := b.String()
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Contains(t, out, "X-WR-CALNAME:Fagnettverk\r\n")
	assert.Contains(t, out, "UID:fagdag-mars@fagnett\r\n")
	assert.Contains(t, out, "DTSTART:20260310T160000Z\r\n")
	assert.Contains(t, out, "DTEND:20260310T190000Z\r\n")
	assert.Contains(t, out, "SUMMARY:Fagdag om datadeling\r\n")
}

func TestWriteToOmitsZeroEnd(t *testing.T) {
	var calendar Calendar
	calendar.AddEvent(Event{
		UID:     "x@fagnett",
		Summary: "Uten sluttid",
		Start:   time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC),
	})

	var b strings.Builder
	assert.NoError(t, calendar.WriteTo(&b))
	assert.NotContains(t, b.String(), "DTEND:")
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `a\,b\;c\\d`, escape(`a,b;c\d`))
	assert.Equal(t, `linje en\nlinje to`, escape("linje en\nlinje to"))
	assert.Equal(t, `linje en\nlinje to`, escape("linje en\r\nlinje to"))
}

func TestWriteLineFoldsLongLines(t *testing.T) {
	var b strings.Builder
	writeLine(&b, "DESCRIPTION:"+strings.Repeat("a", 200))

	for _, line := range strings.Split(strings.TrimSuffix(b.String(), "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 76)
	}
	assert.Contains(t, b.String(), "\r\n a")
}

func TestWriteLineFoldRespectsUTF8(t *testing.T) {
	var b strings.Builder
	writeLine(&b, "SUMMARY:"+strings.Repeat("æøå", 40))

	unfolded := strings.ReplaceAll(b.String(), "\r\n ", "")
	assert.Equal(t, "SUMMARY:"+strings.Repeat("æøå", 40)+"\r\n", unfolded)
	for _, line := range strings.Split(strings.TrimSuffix(b.String(), "\r\n"), "\r\n") {
		assert.True(t, len(line) <= 76)
		assert.True(t, strings.HasSuffix(line, "æ") || strings.HasSuffix(line, "ø") || strings.HasSuffix(line, "å"))
	}
}
