package model

// Credential is an opaque bearer token presented to the hosting provider.
// Source records where it came from ("manual" or an environment variable
// name) so the UI can show it without revealing the value.
type Credential struct {
	Token  string
	Source string
}

// CredentialSourceManual marks a token typed in by the operator.
const CredentialSourceManual = "manual"

// IsZero returns true when no token is held.
func (c Credential) IsZero() bool {
	return c.Token == ""
}

// String redacts the token so a Credential is safe to log.
func (c Credential) String() string {
	if c.Token == "" {
		return "credential(none)"
	}
	return "credential(" + c.Source + ")"
}
