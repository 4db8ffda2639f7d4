package validation

import (
	"errors"
	"net/url"
)

var (
	// ErrClientIDEmpty indicates the client id is missing.
	ErrClientIDEmpty = errors.New("client ID is required")
	// ErrClientSecretEmpty indicates the client secret is missing.
	ErrClientSecretEmpty = errors.New("client secret is required")
	// ErrProjectIDEmpty indicates the export project id is missing.
	ErrProjectIDEmpty = errors.New("project ID is required")
)

// ValidateCredentials checks that both client credentials are present.
// The API rejects server-side requests that carry only a client id.
func ValidateCredentials(clientID, clientSecret string) error {
	if clientID == "" {
		return ErrClientIDEmpty
	}
	if clientSecret == "" {
		return ErrClientSecretEmpty
	}
	return nil
}

// ValidateProjectID checks the project scope used by export requests.
func ValidateProjectID(projectID string) error {
	if projectID == "" {
		return ErrProjectIDEmpty
	}
	return nil
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(field, raw string) error {
	if raw == "" {
		return &FieldError{Field: field, Message: "is required"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &FieldError{Field: field, Message: "must be a valid URL", Value: raw}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &FieldError{Field: field, Message: "must use http or https", Value: raw}
	}
	if u.Host == "" {
		return &FieldError{Field: field, Message: "must include a host", Value: raw}
	}
	return nil
}
