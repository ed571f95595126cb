// Package common contains shared constants and sentinel errors used across
// Family Vault components.
package common

import "time"

// AccessTokenHeaderName is the gRPC/HTTP metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// NomineeTokenHeaderName carries the short-lived token minted for a nominee
// after a successful emergency-access verification.
const NomineeTokenHeaderName = "nominee_token"

const (
	// OTPValidity is how long an issued one-time password stays acceptable.
	OTPValidity = 10 * time.Minute

	// OTPRetention is how long a code row outlives its expiry before the
	// evaluator deletes it. Until then Verify still reports it as expired or used.
	OTPRetention = 24 * time.Hour

	// SignedURLValidity bounds presigned document download links.
	SignedURLValidity = time.Hour

	// UploadURLValidity bounds presigned document upload links.
	UploadURLValidity = 15 * time.Minute

	// MinInactiveDays and MaxInactiveDays bound the inactivity threshold.
	MinInactiveDays = 1
	MaxInactiveDays = 365
)
