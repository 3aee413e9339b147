package utils

import "github.com/microcosm-cc/bluemonday"

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans user-generated HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}

// SanitizePlain strips all markup from fields that must stay plain text,
// such as titles and usernames.
func SanitizePlain(input string) string {
	return strictPolicy.Sanitize(input)
}
