// Package ical serializes events to an iCalendar (RFC 5545) feed.
package ical

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	prodID     = "-//Offentlig fagnettverk//Arrangementer//NO"
	dateFormat = "20060102T150405Z"
)

type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	URL         string
	Start       time.Time
	End         time.Time
}

type Calendar struct {
	Name        string
	Description string

	events []Event
}

func (c *Calendar) AddEvent(event Event) {
	c.events = append(c.events, event)
}

func (c *Calendar) WriteTo(w io.Writer) error {
	var b strings.Builder

	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+prodID)
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "METHOD:PUBLISH")
	if c.Name != "" {
		writeLine(&b, "X-WR-CALNAME:"+escape(c.Name))
	}
	if c.Description != "" {
		writeLine(&b, "X-WR-CALDESC:"+escape(c.Description))
	}

	now := time.Now().UTC().Format(dateFormat)
	for _, e := range c.events {
		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, "UID:"+e.UID)
		writeLine(&b, "DTSTAMP:"+now)
		writeLine(&b, "DTSTART:"+e.Start.UTC().Format(dateFormat))
		if !e.End.IsZero() {
			writeLine(&b, "DTEND:"+e.End.UTC().Format(dateFormat))
		}
		writeLine(&b, "SUMMARY:"+escape(e.Summary))
		if e.Description != "" {
			writeLine(&b, "DESCRIPTION:"+escape(e.Description))
		}
		if e.Location != "" {
			writeLine(&b, "LOCATION:"+escape(e.Location))
		}
		if e.URL != "" {
			writeLine(&b, "URL:"+e.URL)
		}
		writeLine(&b, "STATUS:CONFIRMED")
		writeLine(&b, "END:VEVENT")
	}

	writeLine(&b, "END:VCALENDAR")

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}

// writeLine folds content lines longer than 75 octets with a CRLF followed
// by a single space, per RFC 5545 §3.1.
func writeLine(b *strings.Builder, line string) {
	for len(line) > 75 {
		cut := 75
		// never split inside a UTF-8 sequence
		for cut > 1 && line[cut]&0xC0 == 0x80 {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\r\n", `\n`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
