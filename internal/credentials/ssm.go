package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// DefaultParameter is the SSM parameter holding the robot account password.
const DefaultParameter = "dockerhub_robot_password"

// ParameterGetter is the subset of the SSM client the provider needs.
type ParameterGetter interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMProvider reads the password from AWS SSM Parameter Store.
type SSMProvider struct {
	Client    ParameterGetter
	Parameter string // defaults to DefaultParameter
}

// NewSSMProvider creates a provider backed by an SSM client built from the
// default AWS configuration chain.
func NewSSMProvider(ctx context.Context, parameter string) (*SSMProvider, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &SSMProvider{Client: ssm.NewFromConfig(cfg), Parameter: parameter}, nil
}

// Password implements Provider.
func (p *SSMProvider) Password(ctx context.Context) (string, error) {
	name := p.Parameter
	if name == "" {
		name = DefaultParameter
	}

	rsp, err := p.Client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("parameter `%s` not found: %w", name, ErrNoCredentials)
		}
		return "", fmt.Errorf("fetching parameter `%s`: %w", name, err)
	}

	if rsp.Parameter == nil || aws.ToString(rsp.Parameter.Value) == "" {
		return "", fmt.Errorf("parameter `%s` is empty: %w", name, ErrNoCredentials)
	}
	return aws.ToString(rsp.Parameter.Value), nil
}
