package validator

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 255
	minPasswordLength = 8
	maxPasswordLength = 128
	maxNameLength     = 100

	dataURIImagePrefix = "data:image/"
	dataURIBase64Mark  = ";base64,"

	errEmailEmptyFmt        = "email cannot be empty"
	errEmailLengthFmt       = "email must be between %d and %d characters"
	errEmailInvalidFmt      = "invalid email format"
	errPasswordMinLengthFmt = "password must be at least %d characters"
	errPasswordMaxLengthFmt = "password must not exceed %d characters"
	errNameMaxLengthFmt     = "name must not exceed %d characters"
	errNameControlCharsFmt  = "name cannot contain control characters"
	errSignatureEmptyFmt    = "signature cannot be empty"
	errSignatureTooLargeFmt = "signature must not exceed %d bytes"
	errSignatureFormatFmt   = "signature must be a base64 image data URI or an https URL"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}

	return nil
}

// Password checks length only. Bytes are counted since bcrypt hashes bytes.
func Password(password string) error {
	switch n := len(password); {
	case n < minPasswordLength:
		return fmt.Errorf(errPasswordMinLengthFmt, minPasswordLength)
	case n > maxPasswordLength:
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	default:
		return nil
	}
}

// PersonName validates an optional first or last name.
func PersonName(name string) error {
	if len(name) > maxNameLength {
		return fmt.Errorf(errNameMaxLengthFmt, maxNameLength)
	}

	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return fmt.Errorf(errNameControlCharsFmt)
	}

	return nil
}

// Signature accepts a base64 image data URI or an https URL no larger than
// maxBytes. The payload itself is treated as opaque.
func Signature(signature string, maxBytes int) error {
	if signature == "" {
		return fmt.Errorf(errSignatureEmptyFmt)
	}

	if maxBytes > 0 && len(signature) > maxBytes {
		return fmt.Errorf(errSignatureTooLargeFmt, maxBytes)
	}

	if strings.HasPrefix(signature, dataURIImagePrefix) {
		if !strings.Contains(signature, dataURIBase64Mark) {
			return fmt.Errorf(errSignatureFormatFmt)
		}
		return nil
	}

	u, err := url.Parse(signature)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf(errSignatureFormatFmt)
	}

	return nil
}
