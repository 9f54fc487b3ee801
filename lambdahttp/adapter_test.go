package lambdahttp_test

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/alanherrera2015-beep/examexperts/lambdahttp"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seen struct {
	method    string
	path      string
	query     string
	body      string
	signature string
	clientIP  string
}

func echoRouter(s *seen) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Any("/.netlify/functions/:fn", func(c *gin.Context) {
		raw, _ := io.ReadAll(c.Request.Body)
		*s = seen{
			method:    c.Request.Method,
			path:      c.Request.URL.Path,
			query:     c.Request.URL.RawQuery,
			body:      string(raw),
			signature: c.GetHeader("Stripe-Signature"),
			clientIP:  c.ClientIP(),
		}
		c.Header("X-Request-ID", "rid-1")
		c.JSON(http.StatusAccepted, gin.H{"fn": c.Param("fn")})
	})
	return r
}

func TestProxyV1(t *testing.T) {
	var s seen
	a := lambdahttp.New(echoRouter(&s))

	resp, err := a.Proxy(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/.netlify/functions/stripe-webhook",
		Headers: map[string]string{
			"Stripe-Signature": "t=1,v1=abc",
			"Content-Type":     "application/json",
		},
		MultiValueHeaders: map[string][]string{
			"Stripe-Signature": {"t=1,v1=abc"},
			"Content-Type":     {"application/json"},
		},
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"id":"evt_1"}`)),
		IsBase64Encoded: true,
		RequestContext: events.APIGatewayProxyRequestContext{
			Identity: events.APIGatewayRequestIdentity{SourceIP: "203.0.113.9"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, s.method)
	assert.Equal(t, "/.netlify/functions/stripe-webhook", s.path)
	assert.Equal(t, `{"id":"evt_1"}`, s.body)
	assert.Equal(t, "t=1,v1=abc", s.signature)
	assert.Equal(t, "203.0.113.9", s.clientIP)

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.JSONEq(t, `{"fn":"stripe-webhook"}`, resp.Body)
	assert.False(t, resp.IsBase64Encoded)
	assert.Equal(t, []string{"rid-1"}, resp.MultiValueHeaders["X-Request-Id"])
}

func TestProxyV1QueryString(t *testing.T) {
	var s seen
	a := lambdahttp.New(echoRouter(&s))

	_, err := a.Proxy(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		Path:                  "/.netlify/functions/contact",
		QueryStringParameters: map[string]string{"x": "y z"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, s.method)
	assert.Equal(t, "x=y+z", s.query)
	assert.Equal(t, "", s.body)
}

func TestProxyV1ClientIPIgnoresForwardedHeaders(t *testing.T) {
	var s seen
	a := lambdahttp.New(echoRouter(&s))

	_, err := a.Proxy(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/.netlify/functions/contact",
		Headers: map[string]string{
			"X-Forwarded-For":   "10.0.0.1, 203.0.113.9",
			"x-apigw-source-ip": "10.0.0.2",
		},
		MultiValueHeaders: map[string][]string{
			"X-Forwarded-For":   {"10.0.0.1, 203.0.113.9"},
			"X-Apigw-Source-Ip": {"10.0.0.2"},
		},
		RequestContext: events.APIGatewayProxyRequestContext{
			Identity: events.APIGatewayRequestIdentity{SourceIP: "203.0.113.9"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", s.clientIP)
}

func TestProxyV1BadBase64(t *testing.T) {
	a := lambdahttp.New(echoRouter(&seen{}))
	_, err := a.Proxy(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/.netlify/functions/contact",
		Body:            "%%%",
		IsBase64Encoded: true,
	})
	assert.Error(t, err)
}

func TestProxyV2(t *testing.T) {
	var s seen
	a := lambdahttp.New(echoRouter(&s))

	req := events.APIGatewayV2HTTPRequest{
		RawPath:        "/.netlify/functions/create-checkout",
		RawQueryString: "debug=1",
		Headers: map[string]string{
			"content-type":    "application/json",
			"x-forwarded-for": "10.9.9.9",
		},
		Body: `{"productId":"sat-math-workbook"}`,
	}
	req.RequestContext.HTTP.Method = http.MethodPost
	req.RequestContext.HTTP.Path = "/.netlify/functions/create-checkout"
	req.RequestContext.HTTP.SourceIP = "198.51.100.1"

	resp, err := a.ProxyV2(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "/.netlify/functions/create-checkout", s.path)
	assert.Equal(t, "debug=1", s.query)
	assert.Equal(t, `{"productId":"sat-math-workbook"}`, s.body)
	assert.Equal(t, "198.51.100.1", s.clientIP)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.JSONEq(t, `{"fn":"create-checkout"}`, resp.Body)
}

func TestBinaryBodiesAreBase64Encoded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/download", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/octet-stream", []byte{0xff, 0xfe, 0x00})
	})

	resp, err := lambdahttp.New(r).Proxy(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/download"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.IsBase64Encoded)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0x00}), resp.Body)
}
