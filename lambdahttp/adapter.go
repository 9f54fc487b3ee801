// Package lambdahttp serves the gin engine from AWS Lambda API Gateway events,
// so the same router runs behind `serve` and behind Lambda.
package lambdahttp

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
)

// SourceIPHeader carries the caller address reported by API Gateway. Any
// client-supplied value is replaced before the request reaches gin.
const SourceIPHeader = "X-Apigw-Source-Ip"

// Adapter translates API Gateway proxy events into requests for the engine.
type Adapter struct {
	v1 *ginadapter.GinLambda
	v2 *ginadapter.GinLambdaV2
}

// New wraps r. gin.Context.ClientIP resolves to the API Gateway source IP,
// which keeps per-IP rate limiting and reCAPTCHA remoteip off forwarded
// headers the client controls.
func New(r *gin.Engine) *Adapter {
	r.TrustedPlatform = SourceIPHeader
	return &Adapter{
		v1: ginadapter.New(r),
		v2: ginadapter.NewV2(r),
	}
}

// Proxy handles REST API (payload format 1.0) events.
func (a *Adapter) Proxy(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	sourceIP := event.RequestContext.Identity.SourceIP
	event.Headers = withHeader(event.Headers, sourceIP)
	if event.MultiValueHeaders != nil {
		event.MultiValueHeaders = withMultiHeader(event.MultiValueHeaders, sourceIP)
	}
	return a.v1.ProxyWithContext(ctx, event)
}

// ProxyV2 handles HTTP API and function URL (payload format 2.0) events.
func (a *Adapter) ProxyV2(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	event.Headers = withHeader(event.Headers, event.RequestContext.HTTP.SourceIP)
	return a.v2.ProxyWithContext(ctx, event)
}

func withHeader(in map[string]string, sourceIP string) map[string]string {
	out := make(map[string]string, len(in)+1)
	for k, v := range in {
		if !strings.EqualFold(k, SourceIPHeader) {
			out[k] = v
		}
	}
	if sourceIP != "" {
		out[SourceIPHeader] = sourceIP
	}
	return out
}

func withMultiHeader(in map[string][]string, sourceIP string) map[string][]string {
	out := make(map[string][]string, len(in)+1)
	for k, vs := range in {
		if !strings.EqualFold(k, SourceIPHeader) {
			out[k] = vs
		}
	}
	if sourceIP != "" {
		out[SourceIPHeader] = []string{sourceIP}
	}
	return out
}
