package improver

import (
	"context"
	"errors"
)

// Client abstracts the text-improvement provider.
type Client interface {
	Improve(ctx context.Context, text string) (string, error)
}

// ErrUnavailable is returned when the provider cannot produce an improvement.
var ErrUnavailable = errors.New("improver unavailable")

const improvedSuffix = " [Improved]"

// PlaceholderClient marks the text as improved without calling any provider.
type PlaceholderClient struct{}

// Improve appends the improvement marker. Applying it twice appends twice.
func (PlaceholderClient) Improve(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return text + improvedSuffix, nil
}

var _ Client = PlaceholderClient{}
