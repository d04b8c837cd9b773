package logx

import (
	"regexp"
)

type SensitiveDataMaskerInterface interface {
	Mask(input []byte) []byte
}

// Marketplace API keys, socket auth material and trade URLs must never
// reach the log output.
//
//nolint:gochecknoglobals
var sensitiveDataPatterns = []*regexp.Regexp{
	regexp.MustCompile("(?s)(Authorization: Bearer ).+?(\r)"),
	regexp.MustCompile(`(?s)("api_key":\s?").+?(")`),
	regexp.MustCompile(`(?s)("socket_token":\s?").+?(")`),
	regexp.MustCompile(`(?s)("socket_signature":\s?").+?(")`),
	regexp.MustCompile(`(?s)("authorizationToken":\s?").+?(")`),
	regexp.MustCompile(`(?s)("signature":\s?").+?(")`),
	regexp.MustCompile(`(?s)("trade_url":\s?").+?(")`),
	regexp.MustCompile(`(?s)("account_name":\s?").+?(")`),
	regexp.MustCompile(`(?s)("shared_secret":\s?").+?(")`),
	regexp.MustCompile(`(?s)("identity_secret":\s?").+?(")`),
}

type SensitiveDataMasker struct{}

func NewSensitiveDataMasker() SensitiveDataMasker {
	return SensitiveDataMasker{}
}

func (s SensitiveDataMasker) Mask(input []byte) []byte {
	for _, pattern := range sensitiveDataPatterns {
		input = pattern.ReplaceAll(input, []byte("${1}[MASKED]${2}"))
	}

	return input
}
