package state

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// ParameterAPI is the slice of the SSM client the parameter store needs.
type ParameterAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

// ParamStore keeps the address in an SSM Parameter Store String parameter.
// The backup goes to a second parameter named "<Name>.old".
type ParamStore struct {
	API  ParameterAPI
	Name string
}

var _ Store = (*ParamStore)(nil)

func NewParamStore(api ParameterAPI, name string) *ParamStore {
	return &ParamStore{API: api, Name: name}
}

func (p *ParamStore) BackupName() string {
	return p.Name + ".old"
}

func (p *ParamStore) Load(ctx context.Context) (string, bool, error) {
	value, ok, err := p.get(ctx)
	if err != nil || !ok {
		return "", false, err
	}

	if err := p.put(ctx, p.BackupName(), value); err != nil {
		return "", false, fmt.Errorf("writing backup parameter: %w", err)
	}

	addr := strings.TrimSpace(value)
	return addr, addr != "", nil
}

func (p *ParamStore) Peek(ctx context.Context) (string, bool, error) {
	value, ok, err := p.get(ctx)
	if err != nil || !ok {
		return "", false, err
	}
	addr := strings.TrimSpace(value)
	return addr, addr != "", nil
}

func (p *ParamStore) Save(ctx context.Context, addr string) error {
	if err := p.put(ctx, p.Name, addr); err != nil {
		return fmt.Errorf("writing parameter %s: %w", p.Name, err)
	}
	return nil
}

func (p *ParamStore) put(ctx context.Context, name, value string) error {
	_, err := p.API.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(name),
		Value:     aws.String(value),
		Type:      types.ParameterTypeString,
		Overwrite: aws.Bool(true),
	})
	return err
}

func (p *ParamStore) get(ctx context.Context) (string, bool, error) {
	out, err := p.API.GetParameter(ctx, &ssm.GetParameterInput{
		Name: aws.String(p.Name),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading parameter %s: %w", p.Name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", false, nil
	}
	return aws.ToString(out.Parameter.Value), true, nil
}
