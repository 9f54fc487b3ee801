package aws

import (
	"context"
	"fmt"
	"sort"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const DefaultMetricsNamespace = "ExamExperts"

// Request metrics, recorded by middleware.
const (
	MetricHTTPRequests = "HTTPRequests"
	MetricHTTPErrors   = "HTTPErrors"
	MetricHTTPLatency  = "HTTPLatency"
	MetricHTTP4xx      = "HTTP4xxErrors"
	MetricHTTP5xx      = "HTTP5xxErrors"
)

// Business metrics, recorded by the function services.
const (
	MetricContactMessagesSent      = "ContactMessagesSent"
	MetricContactVerificationFails = "ContactVerificationFailed"
	MetricCheckoutSessionsCreated  = "CheckoutSessionsCreated"
	MetricCheckoutFailed           = "CheckoutFailed"
	MetricWebhookSignatureInvalid  = "WebhookSignatureInvalid"
	MetricPurchasesFulfilled       = "PurchasesFulfilled"
	MetricFulfillmentEmailFailed   = "FulfillmentEmailFailed"
)

type cloudwatchAPI interface {
	PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricsClient publishes single data points to CloudWatch. A nil or
// disabled client drops every call.
type MetricsClient struct {
	api       cloudwatchAPI
	namespace string
	enabled   bool
}

func NewMetricsClient(cfg sdkaws.Config, namespace string) *MetricsClient {
	if namespace == "" {
		namespace = DefaultMetricsNamespace
	}
	return &MetricsClient{
		api:       cloudwatch.NewFromConfig(cfg),
		namespace: namespace,
		enabled:   true,
	}
}

func (m *MetricsClient) IsEnabled() bool {
	return m != nil && m.enabled
}

func (m *MetricsClient) RecordCount(ctx context.Context, name string, dims map[string]string) error {
	return m.put(ctx, name, 1, types.StandardUnitCount, dims)
}

// RecordLatency records d in milliseconds.
func (m *MetricsClient) RecordLatency(ctx context.Context, name string, d time.Duration, dims map[string]string) error {
	return m.put(ctx, name, float64(d.Milliseconds()), types.StandardUnitMilliseconds, dims)
}

func (m *MetricsClient) put(ctx context.Context, name string, value float64, unit types.StandardUnit, dims map[string]string) error {
	if !m.IsEnabled() {
		return nil
	}

	datum := types.MetricDatum{
		MetricName: sdkaws.String(name),
		Value:      sdkaws.Float64(value),
		Unit:       unit,
		Timestamp:  sdkaws.Time(time.Now().UTC()),
		Dimensions: dimensions(dims),
	}
	if _, err := m.api.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  sdkaws.String(m.namespace),
		MetricData: []types.MetricDatum{datum},
	}); err != nil {
		return fmt.Errorf("metrics: put %s: %w", name, err)
	}
	return nil
}

// dimensions drops empty values and orders by name so repeated calls
// land in the same CloudWatch series.
func dimensions(in map[string]string) []types.Dimension {
	names := make([]string, 0, len(in))
	for k, v := range in {
		if v != "" {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	out := make([]types.Dimension, 0, len(names))
	for _, k := range names {
		out = append(out, types.Dimension{Name: sdkaws.String(k), Value: sdkaws.String(in[k])})
	}
	return out
}
