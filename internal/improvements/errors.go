package improvements

import (
	"errors"

	"resume-service/internal/resumes"
)

var (
	// ErrNotFound is shared with the resumes package so either can be matched.
	ErrNotFound = resumes.ErrNotFound

	// ErrInvalidTimezone indicates a time_zone value that is not an IANA zone name.
	ErrInvalidTimezone = errors.New("invalid time zone")

	// ErrImproverUnavailable indicates the improvement provider failed.
	ErrImproverUnavailable = errors.New("improver unavailable")
)

// DetailInvalidTimezone is the client-facing detail for ErrInvalidTimezone.
const DetailInvalidTimezone = "Неизвестный часовой пояс"
