package utils

import "time"

const meetingLinkBase = "https://meet.zoho.com/j/"

// MeetingLink embeds an opaque meeting id into the fixed meeting URL template.
func MeetingLink(meetingID string) string {
	return meetingLinkBase + meetingID
}

// FormatBookedAt renders the human-readable booked-at timestamp shown on the
// success screen and stored with the booking, e.g. "21 Aug 2026, 3:04 pm".
func FormatBookedAt(t time.Time) string {
	return t.Format("02 Jan 2006, 3:04 pm")
}
