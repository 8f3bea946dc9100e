// Package lambda serves an http.Handler behind API Gateway HTTP APIs (payload v2).
package lambda

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

type Handler func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// NewHandler adapts h. The caller's source IP is forwarded as X-Forwarded-For when the
// gateway did not set it, so rate limiting keys on the real client.
func NewHandler(h http.Handler) Handler {
	adapter := httpadapter.NewV2(h)
	return func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		if ip := req.RequestContext.HTTP.SourceIP; ip != "" && forwardedFor(req.Headers) == "" {
			headers := make(map[string]string, len(req.Headers)+1)
			for k, v := range req.Headers {
				headers[k] = v
			}
			headers["x-forwarded-for"] = ip
			req.Headers = headers
		}
		return adapter.ProxyWithContext(ctx, req)
	}
}

func forwardedFor(headers map[string]string) string {
	for k, v := range headers {
		if http.CanonicalHeaderKey(k) == "X-Forwarded-For" {
			return v
		}
	}
	return ""
}
