package main

import (
	"context"
	"fmt"

	"github.com/alanherrera2015-beep/examexperts/lambdahttp"
	"github.com/alanherrera2015-beep/examexperts/server"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func lambdaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Run inside AWS Lambda behind API Gateway or a function URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, _ := cmd.Flags().GetString("payload")
			if payload != "v1" && payload != "v2" {
				return fmt.Errorf("unknown payload format %q (want v1 or v2)", payload)
			}

			rt, err := server.Bootstrap(context.Background())
			if err != nil {
				return err
			}
			rt.Logger.Info("Starting Lambda handler", zap.String("payload", payload))

			adapter := lambdahttp.New(rt.Router)
			if payload == "v2" {
				lambda.Start(adapter.ProxyV2)
			} else {
				lambda.Start(adapter.Proxy)
			}
			return nil
		},
	}
	cmd.Flags().String("payload", "v1", "API Gateway payload format: v1 (REST API) or v2 (HTTP API, function URL)")
	return cmd
}
