package myhttp

import (
	"fmt"
	"net/http"
	"os"
	"strings"
)

// HostnameWithScheme returns the public origin of the site; PUBLIC_BASE_URL wins over the request host
func HostnameWithScheme(r *http.Request) string {
	publicBaseURL := os.Getenv("PUBLIC_BASE_URL")
	if publicBaseURL != "" {
		return strings.TrimSuffix(publicBaseURL, "/")
	}

	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header
func BearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "

	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))

	return token, token != ""
}
