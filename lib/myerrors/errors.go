package myerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type httpErrorCoder interface {
	error
	GetHTTPErrorCode() int
}

type httpError struct {
	httpCode int
	err      error
}

func (e httpError) Error() string {
	return fmt.Sprintf("status: %d, err: %s", e.httpCode, e.err.Error())
}

func (e httpError) GetHTTPErrorCode() int {
	return e.httpCode
}

func (e httpError) Unwrap() error {
	return e.err
}

func newError(httpCode int, err error) *httpError {
	return &httpError{
		httpCode: httpCode,
		err:      err,
	}
}

func NewInvalidInputError(err error) *httpError {
	return newError(http.StatusBadRequest, err)
}

func NewInvalidInputErrorf(format string, args ...any) *httpError {
	return NewInvalidInputError(fmt.Errorf(format, args...))
}

func NewAuthenticationError(err error) *httpError {
	return newError(http.StatusForbidden, err)
}

func NewNotFoundError(err error) *httpError {
	return newError(http.StatusNotFound, err)
}

func NewConflictError(err error) *httpError {
	return newError(http.StatusConflict, err)
}

func NewInternalError(err error) *httpError {
	return newError(http.StatusInternalServerError, err)
}

func NewUnavailableError(err error) *httpError {
	return newError(http.StatusServiceUnavailable, err)
}

// ConfigurationError signals a setup problem (credentials, payment routing data) that no retry can fix
type ConfigurationError struct {
	Err error
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Err)
}

func (e ConfigurationError) Unwrap() error {
	return e.Err
}

func NewConfigurationError(err error) *httpError {
	return newError(http.StatusInternalServerError, ConfigurationError{Err: err})
}

func NewConfigurationErrorf(format string, args ...any) *httpError {
	return NewConfigurationError(fmt.Errorf(format, args...))
}

func IsConfigurationError(err error) bool {
	var configErr ConfigurationError
	return errors.As(err, &configErr)
}

// UpstreamError describes a failed call to a remote system. Status is 0 when no response was received.
type UpstreamError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s failed with status %d: %s", e.Endpoint, e.Status, e.Body)
}

func NewUpstreamError(endpoint string, status int, body string) *httpError {
	return newError(http.StatusBadGateway, UpstreamError{
		Endpoint: endpoint,
		Status:   status,
		Body:     body,
	})
}

func AsUpstreamError(err error) (UpstreamError, bool) {
	var upstreamErr UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}
	return UpstreamError{}, false
}

func IsInvalidInputError(err error) bool {
	return err != nil && GetHTTPStatus(err) == http.StatusBadRequest
}

// WithMessage prefixes err with a message while keeping its http-status
func WithMessage(message string, err error) error {
	var coder *httpError
	if errors.As(err, &coder) {
		return newError(coder.httpCode, fmt.Errorf("%s: %w", message, coder.err))
	}
	return newError(http.StatusInternalServerError, fmt.Errorf("%s: %w", message, err))
}

func GetHTTPStatus(err error) int {
	var coder httpErrorCoder
	if err != nil && errors.As(err, &coder) {
		return coder.GetHTTPErrorCode()
	}
	return http.StatusInternalServerError
}
