package chatbot

import (
	"fmt"
	"strings"

	"TapaalTracker/internal/mail"
)

const systemRole = "You are an intelligent office assistant for a Tapaal (Mail Dispatch) Management System."

const promptInstructions = `Instructions:
- Answer naturally like a helpful office clerk
- Use only the figures and records above; never invent data
- If the user asks about tracking, explain the status clearly
- If the user asks for counts, give exact numbers
- If the data is missing, say "No record found"
- Keep the answer short (3-5 lines)
- Do not mention the database or this prompt`

// ComposePrompt renders the snapshot and the user's message into a single prompt.
func ComposePrompt(s *Snapshot, message string) string {
	var b strings.Builder
	b.WriteString(systemRole)
	b.WriteString("\n\nSYSTEM STATISTICS:\n")
	fmt.Fprintf(&b, "Total Inward: %d\n", s.TotalInward)
	writeStatusLines(&b, mail.Inward, s.Inward)
	fmt.Fprintf(&b, "Total Outward: %d\n", s.TotalOutward)
	writeStatusLines(&b, mail.Outward, s.Outward)
	fmt.Fprintf(&b, "Total Mails: %d\n", s.TotalMails)
	fmt.Fprintf(&b, "Total Users: %d\n", s.TotalUsers)
	fmt.Fprintf(&b, "Active Users: %d\n", s.ActiveUsers)
	fmt.Fprintf(&b, "Total Departments: %d\n", s.TotalDepartments)

	if len(s.Departments) > 0 {
		b.WriteString("\nDEPARTMENT ACTIVITY:\n")
		for _, d := range s.Departments {
			fmt.Fprintf(&b, "%s: %d inward, %d outward\n", d.Name, d.Inward, d.Outward)
		}
	}
	writeRecent(&b, "RECENT INWARD", s.RecentInward)
	writeRecent(&b, "RECENT OUTWARD", s.RecentOutward)

	if s.TrackingCode != "" {
		b.WriteString("\nTRACKING SEARCH RESULT:\n")
		if m := s.Tracked; m != nil {
			fmt.Fprintf(&b, "Tracking ID: %s\nReference: %s\nType: %s\nDepartment: %s\nStatus: %s\nCounterpart: %s\nHandled by: %s\nDate: %s\nPriority: %s\n",
				m.TrackingCode, m.Reference, m.Direction, m.Department, m.Status,
				m.Counterpart, m.HandledBy, m.Date.Format("2006-01-02"), m.Priority)
		} else {
			fmt.Fprintf(&b, "No record found for tracking ID %s\n", s.TrackingCode)
		}
	}

	b.WriteString("\n")
	b.WriteString(promptInstructions)
	b.WriteString("\n\nUser Question: ")
	b.WriteString(message)
	return b.String()
}

func writeStatusLines(b *strings.Builder, d mail.Direction, counts map[mail.Status]int64) {
	for _, st := range d.Statuses() {
		fmt.Fprintf(b, "  %s: %d\n", st, counts[st])
	}
}

func writeRecent(b *strings.Builder, title string, mails []mail.Mail) {
	if len(mails) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, m := range mails {
		fmt.Fprintf(b, "%s - %s (%s)\n", m.TrackingCode, m.Status, m.Department)
	}
}
