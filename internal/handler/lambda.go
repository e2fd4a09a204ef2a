package handler

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// HandleLambda serves an API Gateway v2 HTTP event (also used by Lambda
// function URLs) through the same routes as the standalone server.
func (h *Handler) HandleLambda(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	// Named stages keep their prefix in RawPath; $default has none.
	if stage := event.RequestContext.Stage; stage != "" && stage != "$default" {
		if rest, ok := strings.CutPrefix(event.RawPath, "/"+stage); ok && (rest == "" || strings.HasPrefix(rest, "/")) {
			event.RawPath = "/" + strings.TrimPrefix(rest, "/")
		}
	}
	return h.lambda.ProxyWithContext(ctx, event)
}
