package kernel

import (
	"regexp"
	"strings"

	"kargotrack/internal/pkg/errs"
	"kargotrack/internal/pkg/guard"
)

// TrackNumberMaxLength is the maximum accepted length of a tracking code
// after normalization.
const TrackNumberMaxLength = 64

// ErrTrackNumberIsNotConstructed is returned when attempting to use an improperly
// initialized TrackNumber. Track numbers must be created via NewTrackNumber.
var ErrTrackNumberIsNotConstructed = errs.NewValueIsRequiredError(
	"track number must be created via NewTrackNumber constructor")

// trackNumberPattern matches normalized tracking codes: latin letters, digits
// and a small set of separator characters used by carrier label formats.
var trackNumberPattern = regexp.MustCompile(`^[A-Z0-9._-]+$`)

// TrackNumber is the normalized tracking code identifying a parcel across
// both checkpoints and the client portal. It is an immutable value object:
// the raw scanner input is stripped of whitespace and uppercased before
// validation, so "ab c123" and "ABC123" denote the same parcel.
//
// The zero value is invalid and fails Validate; use NewTrackNumber.
//
// Example:
//
//	track, err := kernel.NewTrackNumber(" lp0012 3456 cn ")
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(track.String()) // Output: LP00123456CN
type TrackNumber struct { //nolint:recvcheck //using for validation
	value string
	guard guard.ConstructorGuard
}

// NewTrackNumber normalizes and validates a raw tracking code.
// Normalization removes all whitespace and uppercases the result.
// Validation requires 1..TrackNumberMaxLength characters from
// [A-Z0-9._-]. Invalid input is rejected without side effects.
func NewTrackNumber(raw string) (TrackNumber, error) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(raw), ""))

	if normalized == "" {
		return TrackNumber{}, errs.NewValueIsRequiredError("trackNumber")
	}

	if len(normalized) > TrackNumberMaxLength {
		return TrackNumber{}, errs.NewValueIsOutOfRangeError(
			"trackNumber length", len(normalized), 1, TrackNumberMaxLength)
	}

	if !trackNumberPattern.MatchString(normalized) {
		return TrackNumber{}, errs.NewValueIsInvalidError("trackNumber")
	}

	return TrackNumber{
		value: normalized,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// String returns the normalized tracking code.
func (t TrackNumber) String() string {
	return t.value
}

// IsEqual compares two track numbers by their normalized value.
func (t TrackNumber) IsEqual(other TrackNumber) bool {
	return t.value == other.value
}

// Validate checks that the track number was created via NewTrackNumber.
func (t TrackNumber) Validate() error {
	return t.guard.Validate(ErrTrackNumberIsNotConstructed)
}
