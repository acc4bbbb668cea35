package services

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// JoinQRCode renders the event registration URL as a QR code and returns the
// URL plus the PNG as a base64 string, ready to inline in a data URL.
func JoinQRCode(publicBaseURL string, eventID uint, size int) (string, string, error) {
	if size <= 0 {
		size = 256
	}
	url := fmt.Sprintf("%s/event/%d/register", publicBaseURL, eventID)

	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return "", "", err
	}
	return url, base64.StdEncoding.EncodeToString(png), nil
}
