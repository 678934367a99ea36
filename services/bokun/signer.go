package bokun

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/MarcGrol/bookingbackend/lib/myerrors"
	"github.com/MarcGrol/bookingbackend/lib/mytime"
)

const (
	HeaderDate      = "X-Bokun-Date"
	HeaderAccessKey = "X-Bokun-AccessKey"
	HeaderSignature = "X-Bokun-Signature"

	timestampLayout = "2006-01-02 15:04:05"
)

// Credentials are process-wide and read-only. They must never be logged or sent to a browser.
type Credentials struct {
	AccessKey string
	SecretKey string
}

func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{AccessKey:%s, SecretKey:***}", c.AccessKey)
}

type SignedRequest struct {
	Path      string
	Method    string
	Timestamp string
	Headers   map[string]string
}

type Signer struct {
	credentials Credentials
	nower       mytime.Nower
}

// NewSigner fails when credentials are incomplete, so that no request with empty signature fields is ever sent
func NewSigner(credentials Credentials, nower mytime.Nower) (*Signer, error) {
	if credentials.AccessKey == "" || credentials.SecretKey == "" {
		return nil, myerrors.NewConfigurationErrorf("missing provider credentials (access-key present:%t, secret-key present:%t)",
			credentials.AccessKey != "", credentials.SecretKey != "")
	}
	return &Signer{
		credentials: credentials,
		nower:       nower,
	}, nil
}

// Sign signs path (including its query string) with the current time
func (s *Signer) Sign(path string, method string) SignedRequest {
	return SignAt(s.credentials, path, method, s.nower.Now())
}

func SignAt(credentials Credentials, path string, method string, at time.Time) SignedRequest {
	timestamp := at.UTC().Format(timestampLayout)

	mac := hmac.New(sha1.New, []byte(credentials.SecretKey))
	mac.Write([]byte(timestamp + credentials.AccessKey + method + path))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	headers := map[string]string{
		HeaderDate:      timestamp,
		HeaderAccessKey: credentials.AccessKey,
		HeaderSignature: signature,
		"Accept":        "application/json",
	}
	if method == http.MethodPost || method == http.MethodPut {
		headers["Content-Type"] = "application/json"
	}

	return SignedRequest{
		Path:      path,
		Method:    method,
		Timestamp: timestamp,
		Headers:   headers,
	}
}
