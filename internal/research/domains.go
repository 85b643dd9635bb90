package research

import (
	"net/url"
	"strings"
)

// academicSuffixes are public suffixes under which a university owns the next label.
var academicSuffixes = []string{".edu", ".ac.uk", ".edu.au", ".ac.jp", ".ac.in", ".edu.cn", ".ac.nz", ".ac.za"}

// extractDomainFromURL extracts the host from a URL without a leading "www."
func extractDomainFromURL(urlStr string) string {
	if urlStr == "" {
		return ""
	}

	// Prepend scheme if missing
	if !strings.Contains(urlStr, "://") {
		urlStr = "https://" + urlStr
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}

	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// IsFromDomain checks if a URL is on one of domains or a subdomain of one.
func IsFromDomain(urlStr string, domains []string) bool {
	urlDomain := extractDomainFromURL(urlStr)
	if urlDomain == "" {
		return false
	}

	for _, d := range domains {
		d = strings.ToLower(d)
		if urlDomain == d || strings.HasSuffix(urlDomain, "."+d) {
			return true
		}
	}
	return false
}

// UniversityDomain returns the institution's registrable domain for a department URL,
// e.g. "illinois.edu" for "https://cs.illinois.edu/people". It returns "" for non-academic hosts.
func UniversityDomain(departmentURL string) string {
	host := extractDomainFromURL(departmentURL)
	for _, suffix := range academicSuffixes {
		if !strings.HasSuffix(host, suffix) {
			continue
		}
		rest := strings.TrimSuffix(host, suffix)
		if rest == "" {
			return ""
		}
		labels := strings.Split(rest, ".")
		return labels[len(labels)-1] + suffix
	}
	return ""
}

// GuessUniversityURL derives the university homepage from the department URL's domain.
func GuessUniversityURL(departmentURL string) string {
	domain := UniversityDomain(departmentURL)
	if domain == "" {
		return ""
	}
	return "https://" + domain + "/"
}
