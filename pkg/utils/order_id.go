package utils

import (
	"crypto/rand"
	"encoding/binary"
)

func randomBase36(length int) (string, error) {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, 8)
	out := make([]byte, 0, length)
	for len(out) < length {
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		num := binary.LittleEndian.Uint64(b)
		for num > 0 && len(out) < length {
			out = append(out, alphabet[num%36])
			num /= 36
		}
	}
	return string(out), nil
}

// GenerateOrderID returns a fresh order identifier. One id per payment
// attempt; ids are never reused even when retrying the same booking.
func GenerateOrderID() (string, error) {
	s, err := randomBase36(9)
	if err != nil {
		return "", err
	}
	return "ORDER_" + s, nil
}

// GenerateGuestID synthesizes a customer id for unauthenticated checkouts.
func GenerateGuestID() (string, error) {
	s, err := randomBase36(9)
	if err != nil {
		return "", err
	}
	return "GUEST_" + s, nil
}

// GenerateMeetingID returns the opaque 8-character id embedded in meeting
// links.
func GenerateMeetingID() (string, error) {
	return randomBase36(8)
}

// GenerateRandomToken returns a random token string of roughly n bytes of
// entropy, base36 encoded.
func GenerateRandomToken(n int) (string, error) {
	return randomBase36(n + n/3)
}
