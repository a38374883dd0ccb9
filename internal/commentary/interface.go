package commentary

import "context"

// Generator produces a short recap of a finished match. Generate never fails:
// when the text service cannot be reached it returns a fixed fallback.
type Generator interface {
	Generate(ctx context.Context, facts Facts) string
}
