package notify

import (
	"fmt"
	"strings"
	"time"
)

const icsStamp = "20060102T150405Z"

var icsEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\n", `\n`,
)

// BuildInvite renders a single-event iCalendar document for the viewing.
// Times are written in UTC so no VTIMEZONE block is needed.
func BuildInvite(p ViewingBookedPayload, now time.Time) []byte {
	var b strings.Builder

	line := func(format string, args ...any) {
		b.WriteString(fmt.Sprintf(format, args...))
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//estate-viewings//viewing invite//EN")
	line("METHOD:REQUEST")
	line("BEGIN:VEVENT")
	line("UID:%s@estate-viewings", p.Reference)
	line("DTSTAMP:%s", now.UTC().Format(icsStamp))
	line("DTSTART:%s", p.StartAt.UTC().Format(icsStamp))
	line("DTEND:%s", p.EndAt.UTC().Format(icsStamp))
	line("SUMMARY:%s", icsEscaper.Replace("Viewing: "+p.PropertyTitle))
	if p.PropertyAddress != "" {
		line("LOCATION:%s", icsEscaper.Replace(p.PropertyAddress))
	}
	line("DESCRIPTION:%s", icsEscaper.Replace(fmt.Sprintf(
		"Viewing %s for %s (party of %d) with %s",
		p.Reference, p.VisitorName, p.PartySize, p.BrokerName,
	)))
	if p.BrokerEmail != "" {
		line("ORGANIZER;CN=%s:mailto:%s", icsEscaper.Replace(p.BrokerName), p.BrokerEmail)
	}
	if p.VisitorEmail != "" {
		line("ATTENDEE;CN=%s;RSVP=TRUE:mailto:%s", icsEscaper.Replace(p.VisitorName), p.VisitorEmail)
	}
	line("STATUS:CONFIRMED")
	line("END:VEVENT")
	line("END:VCALENDAR")

	return []byte(b.String())
}

func InviteKey(reference string) string {
	return "viewings/" + reference + ".ics"
}
