package config

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

const DefaultRegion = "us-east-1"

// LoadAWSConfig resolves SDK configuration for the DynamoDB and S3 clients. An empty
// profile uses the default credential chain (environment, instance or Lambda role).
func LoadAWSConfig(ctx context.Context, c AWSConfig) (awssdk.Config, error) {
	region := c.Region
	if region == "" {
		region = DefaultRegion
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithDefaultRegion(region),
	}
	if c.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(c.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	if c.Profile != "" {
		if _, err := awsCfg.Credentials.Retrieve(ctx); err != nil {
			return awssdk.Config{}, fmt.Errorf("invalid AWS credentials for profile %s: %w", c.Profile, err)
		}
	}
	return awsCfg, nil
}
