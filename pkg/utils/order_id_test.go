package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderIDShapeAndUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := GenerateOrderID()
		assert.NoError(t, err)
		assert.Regexp(t, `^ORDER_[0-9a-z]{9}$`, id)
		assert.False(t, seen[id], "duplicate order id: %s", id)
		seen[id] = true
	}
}

func TestGenerateGuestIDShape(t *testing.T) {
	id, err := GenerateGuestID()
	assert.NoError(t, err)
	assert.Regexp(t, `^GUEST_[0-9a-z]{9}$`, id)
}

func TestGenerateMeetingIDShape(t *testing.T) {
	id, err := GenerateMeetingID()
	assert.NoError(t, err)
	assert.Regexp(t, `^[0-9a-z]{8}$`, id)
}

func TestGenerateRandomTokenLength(t *testing.T) {
	tok, err := GenerateRandomToken(32)
	assert.NoError(t, err)
	assert.Len(t, tok, 42)

	other, err := GenerateRandomToken(32)
	assert.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestMeetingLink(t *testing.T) {
	assert.Equal(t, "https://meet.zoho.com/j/a1b2c3d4", MeetingLink("a1b2c3d4"))
}

func TestFormatBookedAt(t *testing.T) {
	at := time.Date(2026, 8, 21, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, "21 Aug 2026, 3:04 pm", FormatBookedAt(at))

	morning := time.Date(2026, 8, 5, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "05 Aug 2026, 9:30 am", FormatBookedAt(morning))
}
