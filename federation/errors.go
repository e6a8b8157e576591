package federation

import "github.com/goliatone/go-errors"

const (
	TextCodeNoVerifiedEmail = "federation_no_primary_verified_email"
)

// ErrNoVerifiedEmail is returned when the provider's email list lacks an
// entry that is both primary and verified. Distinct from an unreachable
// provider so operators can tell the cases apart in logs; externally it
// still carries an unauthorized code.
var ErrNoVerifiedEmail = errors.New("no valid primary verified email", errors.CategoryValidation).
	WithTextCode(TextCodeNoVerifiedEmail).
	WithCode(errors.CodeUnauthorized)

// IsFederationDataError reports whether err means the provider answered
// but its data cannot provision a principal.
func IsFederationDataError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeNoVerifiedEmail
	}

	return false
}
