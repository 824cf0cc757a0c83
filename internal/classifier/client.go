package classifier

import "context"

// Client sends one classification request to an inference service and
// returns the model's raw text response.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
