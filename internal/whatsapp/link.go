// Package whatsapp builds wa.me deep links for the public site's chat
// call-to-action.
package whatsapp

import (
	"errors"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultCountryCode replaces a leading local "0" when normalizing numbers.
const DefaultCountryCode = "62"

var ErrEmptyNumber = errors.New("whatsapp: phone number has no digits")

// NormalizeNumber strips every non-digit character and converts a leading
// local zero to the country code: "0812-3456-7890" -> "6281234567890".
// Numbers already starting with the country code are kept as-is.
func NormalizeNumber(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", ErrEmptyNumber
	}
	if strings.HasPrefix(digits, "0") {
		digits = DefaultCountryCode + digits[1:]
	}
	return digits, nil
}

// BuildLink composes a wa.me deep link with the message pre-filled.
func BuildLink(rawNumber, message string) (string, error) {
	number, err := NormalizeNumber(rawNumber)
	if err != nil {
		return "", err
	}
	link := "https://wa.me/" + number
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link, nil
}

// LinkQR renders the deep link as a PNG QR code of the given pixel size.
func LinkQR(rawNumber, message string, size int) ([]byte, error) {
	link, err := BuildLink(rawNumber, message)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(link, qrcode.Medium, size)
}
