// Package qr renders payment QR codes.
package qr

import (
	"encoding/base64"

	"github.com/skip2/go-qrcode"
)

const size = 300

// PNG encodes content as a PNG QR code.
func PNG(content string) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, size)
}

// DataURL returns the QR code as a base64 PNG data URL for <img src>.
func DataURL(content string) (string, error) {
	png, err := PNG(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
