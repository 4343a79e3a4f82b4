package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/skip2/go-qrcode"
)

const checkoutQRTTL = 30 * time.Minute

var ErrQRNotFound = errors.New("invalid or expired QR code")

// QRService renders gateway checkout links as scannable PNGs so a payment
// started on one device can be finished on a phone.
type QRService struct {
	redis *redis.Client
}

func NewQRService(redis *redis.Client) *QRService {
	return &QRService{
		redis: redis,
	}
}

// CheckoutQR returns a base64 PNG of the authorization URL and caches it under
// the deposit reference for the lifetime of the checkout.
func (s *QRService) CheckoutQR(ctx context.Context, reference, authorizationURL string) (string, error) {
	qr, err := qrcode.New(authorizationURL, qrcode.Medium)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		return "", err
	}

	qrImage := base64.StdEncoding.EncodeToString(buf.Bytes())

	if s.redis != nil {
		key := fmt.Sprintf("qr:checkout:%s", reference)
		if err := s.redis.Set(ctx, key, qrImage, checkoutQRTTL).Err(); err != nil {
			log.Printf("[QR] Failed to cache checkout QR for %s: %v", reference, err)
		}
	}

	return qrImage, nil
}

// CachedCheckoutQR returns a previously rendered checkout QR
func (s *QRService) CachedCheckoutQR(ctx context.Context, reference string) (string, error) {
	if s.redis == nil {
		return "", ErrQRNotFound
	}

	qrImage, err := s.redis.Get(ctx, fmt.Sprintf("qr:checkout:%s", reference)).Result()
	if err == redis.Nil {
		return "", ErrQRNotFound
	}
	if err != nil {
		return "", err
	}
	return qrImage, nil
}
