package autherr

import "net/http"

// ProviderCode is an error code returned by TikTok on the authorize
// redirect. Closed set; anything unrecognized maps to CodeUnknown.
type ProviderCode string

const (
	CodeAccessDenied   ProviderCode = "access_denied"
	CodeInvalidScope   ProviderCode = "invalid_scope"
	CodeInvalidClient  ProviderCode = "invalid_client"
	CodeInvalidRequest ProviderCode = "invalid_request"
	CodeInvalidGrant   ProviderCode = "invalid_grant"
	CodeUnknown        ProviderCode = "unknown"
)

// ParseProviderCode normalizes a raw error query parameter into the closed
// ProviderCode set.
func ParseProviderCode(raw string) ProviderCode {
	switch ProviderCode(raw) {
	case CodeAccessDenied, CodeInvalidScope, CodeInvalidClient, CodeInvalidRequest, CodeInvalidGrant:
		return ProviderCode(raw)
	default:
		return CodeUnknown
	}
}

// deniedCatalog is the fixed human-readable text shown when the provider
// rejects an authorization. Raw provider payloads are never surfaced.
var deniedCatalog = map[ProviderCode]string{
	CodeAccessDenied:   "You denied access to the application. Connect again and approve the requested permissions.",
	CodeInvalidScope:   "Missing Ads permission. Ensure your TikTok app has the ads.manage scope and try again.",
	CodeInvalidClient:  "Invalid app configuration. Please check your TikTok app client ID and settings.",
	CodeInvalidRequest: "Invalid sign-in request. Please try again from the app.",
	CodeInvalidGrant:   "Authorization expired or invalid. Please try connecting again.",
	CodeUnknown:        "We couldn't complete sign-in. Please try again or contact support.",
}

// Denied builds an AuthorizationDenied error for a provider error code.
func Denied(code ProviderCode) *Error {
	msg, ok := deniedCatalog[code]
	if !ok {
		msg = deniedCatalog[CodeUnknown]
	}
	return &Error{Kind: KindAuthorizationDenied, Message: msg}
}

// MessageForStatus maps a backend HTTP status to the fixed user-facing text
// used when normalizing proxy error responses.
func MessageForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "Authentication failed. Please reconnect your TikTok account."
	case status == http.StatusForbidden:
		return "Permission denied. This feature may be geo-restricted or require additional permissions."
	case status == http.StatusTooManyRequests:
		return "Too many requests. Please wait a moment and try again."
	case status >= http.StatusInternalServerError:
		return "TikTok service is temporarily unavailable. Please try again later."
	default:
		return fallbackMessage
	}
}
