package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/db"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/lifecycle"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/notify"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/service"
)

type secretPayload struct {
	DatabaseURL string `json:"DATABASE_URL"`
}

func getSecret(ctx context.Context, sm *secretsmanager.Client, secretArn string) (string, error) {
	out, err := sm.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &secretArn})
	if err != nil {
		return "", fmt.Errorf("get secret: %w", err)
	}
	return parseSecret(out.SecretString)
}

func parseSecret(raw *string) (string, error) {
	if raw == nil {
		return "", fmt.Errorf("secret has no string value")
	}
	var payload secretPayload
	if err := json.Unmarshal([]byte(*raw), &payload); err != nil {
		return "", fmt.Errorf("parse secret json: %w", err)
	}
	if payload.DatabaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL missing in secret")
	}
	return payload.DatabaseURL, nil
}

func metricData(res *service.TransitionResult, now time.Time) []cwtypes.MetricDatum {
	counts := map[string]int{}
	for _, c := range res.Changes {
		counts[string(c.LifecycleState)]++
	}
	metrics := []cwtypes.MetricDatum{
		{MetricName: awsStr("TransitionsApplied"), Timestamp: &now, Unit: cwtypes.StandardUnitCount, Value: awsFloat(int64(res.Applied))},
	}
	for state, n := range counts {
		metrics = append(metrics, cwtypes.MetricDatum{
			MetricName: awsStr("TransitionsApplied"),
			Timestamp:  &now,
			Unit:       cwtypes.StandardUnitCount,
			Value:      awsFloat(int64(n)),
			Dimensions: dims("TargetState", state),
		})
	}
	return metrics
}

func putMetrics(ctx context.Context, cw *cloudwatch.Client, ns string, res *service.TransitionResult) error {
	_, err := cw.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  &ns,
		MetricData: metricData(res, time.Now()),
	})
	return err
}

func handler(ctx context.Context) (string, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "eu-central-1"
	}
	secretArn := os.Getenv("SECRET_ARN")
	if secretArn == "" {
		return "", fmt.Errorf("SECRET_ARN env var is required")
	}
	ns := os.Getenv("METRIC_NAMESPACE")
	if ns == "" {
		ns = "MadeInWorld/PlanogramSweeper"
	}

	// AWS SDK clients
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return "", fmt.Errorf("aws config: %w", err)
	}
	sm := secretsmanager.NewFromConfig(awsCfg)
	cw := cloudwatch.NewFromConfig(awsCfg)

	dbURL, err := getSecret(ctx, sm, secretArn)
	if err != nil {
		return "", err
	}

	database, err := db.NewDatabaseWithRetry(dbURL, 3, time.Second)
	if err != nil {
		return "", fmt.Errorf("connect db: %w", err)
	}
	defer database.Close()

	policy, err := lifecycle.PolicyByName(os.Getenv("TRANSITION_POLICY"))
	if err != nil {
		return "", err
	}
	transitions := service.NewTransitions(database, policy, notify.FromTopic(awsCfg, os.Getenv("SNS_TOPIC_ARN")))

	res, err := transitions.SweepDue(ctx, "lambda")
	if err != nil {
		return "", fmt.Errorf("sweep: %w", err)
	}
	log.Printf("[SWEEPER] Applied %d scheduled transitions (batch %s)", res.Applied, res.BatchID)

	if err := putMetrics(ctx, cw, ns, res); err != nil {
		log.Printf("PutMetricData failed: %v", err)
	}
	return fmt.Sprintf("applied=%d", res.Applied), nil
}

func awsStr(s string) *string { return &s }

func awsFloat(v int64) *float64 {
	f := float64(v)
	return &f
}

func dims(name, value string) []cwtypes.Dimension {
	return []cwtypes.Dimension{{Name: &name, Value: &value}}
}

func main() {
	lambda.Start(handler)
}
