package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

const (
	DefaultLogGroup  = "/examexperts/functions"
	logRetentionDays = 30
	logWriteTimeout  = 5 * time.Second
)

type cloudwatchLogsAPI interface {
	CreateLogGroup(ctx context.Context, in *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
	PutRetentionPolicy(ctx context.Context, in *cloudwatchlogs.PutRetentionPolicyInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutRetentionPolicyOutput, error)
	CreateLogStream(ctx context.Context, in *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, in *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// CloudWatchLogsClient is an io.Writer that ships each write as one log
// event. It is tee'd into the zap core by the logger package.
type CloudWatchLogsClient struct {
	api    cloudwatchLogsAPI
	group  string
	stream string
	mu     sync.Mutex
}

// NewCloudWatchLogsClient prepares group (created on first use, 30 day
// retention) and opens a new stream in it.
func NewCloudWatchLogsClient(ctx context.Context, cfg sdkaws.Config, group, stream string) (*CloudWatchLogsClient, error) {
	if group == "" {
		group = DefaultLogGroup
	}
	c := &CloudWatchLogsClient{
		api:    cloudwatchlogs.NewFromConfig(cfg),
		group:  group,
		stream: stream,
	}
	if err := c.open(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// StreamName derives a unique stream per process start.
func StreamName(service string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "local"
	}
	return fmt.Sprintf("%s/%s/%d", service, host, time.Now().Unix())
}

func (c *CloudWatchLogsClient) open(ctx context.Context) error {
	var exists *types.ResourceAlreadyExistsException

	_, err := c.api.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{LogGroupName: sdkaws.String(c.group)})
	switch {
	case err == nil:
		if _, err := c.api.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
			LogGroupName:    sdkaws.String(c.group),
			RetentionInDays: sdkaws.Int32(logRetentionDays),
		}); err != nil {
			return fmt.Errorf("cloudwatch logs: retention for %s: %w", c.group, err)
		}
	case !errors.As(err, &exists):
		return fmt.Errorf("cloudwatch logs: create group %s: %w", c.group, err)
	}

	_, err = c.api.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  sdkaws.String(c.group),
		LogStreamName: sdkaws.String(c.stream),
	})
	if err != nil && !errors.As(err, &exists) {
		return fmt.Errorf("cloudwatch logs: create stream %s: %w", c.stream, err)
	}
	return nil
}

// Write never fails the caller. Shipping errors go to stderr.
func (c *CloudWatchLogsClient) Write(p []byte) (int, error) {
	msg := string(bytes.TrimRight(p, "\n"))
	if msg == "" {
		return len(p), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), logWriteTimeout)
	defer cancel()

	c.mu.Lock()
	_, err := c.api.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  sdkaws.String(c.group),
		LogStreamName: sdkaws.String(c.stream),
		LogEvents: []types.InputLogEvent{{
			Message:   sdkaws.String(msg),
			Timestamp: sdkaws.Int64(time.Now().UnixMilli()),
		}},
	})
	c.mu.Unlock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cloudwatch logs: %v\n", err)
	}
	return len(p), nil
}
