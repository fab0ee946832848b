package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	htmlPattern  = regexp.MustCompile(`<[^>]*>`)
)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.ReplaceAll(phone, " ", ""))
}

// EmailDomain returns the lowercased domain part of an email address, or an
// empty string if the address has no @.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// IsAllowedEmailDomain checks an address against the institutional allow-list.
// Subdomains of an allowed domain are accepted (cs.state.edu matches state.edu).
func IsAllowedEmailDomain(email string, allowedDomains []string) bool {
	domain := EmailDomain(email)
	if domain == "" {
		return false
	}
	for _, allowed := range allowedDomains {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if allowed == "" {
			continue
		}
		if domain == allowed || strings.HasSuffix(domain, "."+allowed) {
			return true
		}
	}
	return false
}

// IsValidName accepts letters, spaces, hyphens and apostrophes, at least two
// characters long.
func IsValidName(name string) bool {
	if len(strings.TrimSpace(name)) < 2 {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) && r != '-' && r != '\'' {
			return false
		}
	}
	return true
}

// SanitizeString strips HTML tags and surrounding whitespace from free-text
// input before it is stored.
func SanitizeString(input string) string {
	return strings.TrimSpace(htmlPattern.ReplaceAllString(input, ""))
}
