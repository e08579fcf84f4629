// Package paramstore loads chat routing tables from AWS SSM Parameter Store.
package paramstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"chat-backend/internal/domain"
)

// ssmAPI is the subset of *ssm.Client used here.
type ssmAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Client reads parameters through an SSM API.
type Client struct {
	api ssmAPI
}

// New creates a Client with the given SSM API implementation.
func New(api ssmAPI) (*Client, error) {
	if api == nil {
		return nil, errors.New("paramstore: api must not be nil")
	}
	return &Client{api: api}, nil
}

// GetParameter returns the decrypted value of the named parameter.
func (c *Client) GetParameter(ctx context.Context, name string) (string, error) {
	if c.api == nil {
		return "", errors.New("paramstore: client not initialized")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("paramstore: name is required")
	}

	out, err := c.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("paramstore: get parameter %q: %w", name, err)
	}
	if out == nil || out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("paramstore: parameter %q missing value", name)
	}
	return *out.Parameter.Value, nil
}

// Routes reads a JSON array of {"keyword","response"} objects from the named
// parameter. Order is preserved. Keywords must be non-blank and carry no
// leading or trailing whitespace.
func (c *Client) Routes(ctx context.Context, name string) ([]domain.Route, error) {
	raw, err := c.GetParameter(ctx, name)
	if err != nil {
		return nil, err
	}

	var routes []domain.Route
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &routes); err != nil {
		return nil, fmt.Errorf("paramstore: decode routes from %q: %w", name, err)
	}
	for i, r := range routes {
		switch kw := strings.TrimSpace(r.Keyword); {
		case kw == "":
			return nil, fmt.Errorf("paramstore: route %d in %q has an empty keyword", i, name)
		case kw != r.Keyword:
			return nil, fmt.Errorf("paramstore: route %d in %q has a padded keyword %q", i, name, r.Keyword)
		}
	}
	return routes, nil
}
