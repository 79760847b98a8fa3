package email

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"gigcity/internal/domain"
)

type qrEncoder struct {
	size int
}

// NewQREncoder returns a QREncoder rendering PNG data URIs at the given
// pixel size (default 256 when size <= 0).
func NewQREncoder(size int) domain.QREncoder {
	if size <= 0 {
		size = 256
	}
	return &qrEncoder{size: size}
}

func (e *qrEncoder) EncodeDataURI(payload string) (string, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, e.size)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
