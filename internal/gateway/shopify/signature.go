package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// ValidateSignature checks the HMAC-SHA256 digest the platform computes over
// the raw request body, transmitted base64-encoded in the signature header.
// Both digests are decoded before comparison; a decoded-length mismatch is
// rejected outright (digest lengths are fixed, so length is not a timing
// side channel) and equal-length digests are compared in constant time.
// A missing secret or missing header is an immediate rejection.
func (g *Gateway) ValidateSignature(rawBody []byte, signatureHeader string, secret string) bool {
	webhookSecret := secret
	if webhookSecret == "" {
		webhookSecret = g.cfg.WebhookSecret
	}

	if webhookSecret == "" {
		g.logger.Warn().Msg("webhook secret not configured, rejecting webhook")
		return false
	}
	if signatureHeader == "" {
		g.logger.Warn().Str("header", SignatureHeader).Msg("signature header missing, rejecting webhook")
		return false
	}

	received, err := base64.StdEncoding.DecodeString(signatureHeader)
	if err != nil {
		g.logger.Warn().Err(err).Msg("signature header is not valid base64")
		return false
	}

	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(rawBody)
	computed := mac.Sum(nil)

	if len(received) != len(computed) {
		g.logger.Warn().Msg("signature length mismatch")
		return false
	}

	valid := subtle.ConstantTimeCompare(received, computed) == 1
	if !valid {
		g.logger.Warn().Msg("invalid webhook signature")
	}
	return valid
}
