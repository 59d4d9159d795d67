package security

import (
	"github.com/pquerna/otp/totp"
)

// GenerateTOTPSecret creates a new TOTP enrolment for an admin and
// returns the shared secret plus the provisioning URL.
func GenerateTOTPSecret(username string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "corpreport",
		AccountName: username,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// ValidateTOTP checks a one-time code against the stored secret.
func ValidateTOTP(secret, code string) bool {
	if secret == "" || code == "" {
		return false
	}
	return totp.Validate(code, secret)
}
