package commentary

import "context"

// Static always returns the same text.
type Static struct {
	Text string
}

func (s Static) Generate(_ context.Context, _ Facts) string {
	if s.Text == "" {
		return FallbackDisabled
	}
	return s.Text
}
