package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/chalkline/assistant-api/internal/httpclient"
	"github.com/chalkline/assistant-api/internal/llm"
)

// errorPrefix is the documented string convention the formatting and
// parsing pipeline downstream depends on. Nothing below the client's
// public boundary uses it; internally failures stay typed.
const errorPrefix = "Error generating response: "

// result is the typed outcome of one transport call. It is serialized
// to the string convention only at the client's outer boundary.
type result struct {
	text string
	err  error
}

func (r result) serialize() string {
	if r.err == nil {
		return r.text
	}
	return errorPrefix + failureReason(r.err)
}

func failureReason(err error) string {
	var upstream *httpclient.UpstreamError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "the request timed out"
	case errors.Is(err, context.Canceled):
		return "the request was cancelled"
	case errors.Is(err, llm.ErrEmptyResponse):
		return "the provider returned an empty response"
	case errors.As(err, &upstream):
		return fmt.Sprintf("the provider returned status %d", upstream.StatusCode)
	default:
		return err.Error()
	}
}
