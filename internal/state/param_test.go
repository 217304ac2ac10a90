package state

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

type fakeParameters struct {
	values map[string]string
	getErr error
	putErr error
	putLog []string
}

func (f *fakeParameters) GetParameter(ctx context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.values[aws.ToString(in.Name)]
	if !ok {
		return nil, &types.ParameterNotFound{Message: aws.String("not found")}
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: in.Name, Value: aws.String(v)}}, nil
}

func (f *fakeParameters) PutParameter(ctx context.Context, in *ssm.PutParameterInput, _ ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	if f.values == nil {
		f.values = map[string]string{}
	}
	name := aws.ToString(in.Name)
	f.values[name] = aws.ToString(in.Value)
	f.putLog = append(f.putLog, name)
	return &ssm.PutParameterOutput{}, nil
}

func TestParamStoreAbsent(t *testing.T) {
	api := &fakeParameters{}
	ps := NewParamStore(api, "/amazonip/ip")

	addr, ok, err := ps.Load(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, addr)
	require.Empty(t, api.putLog)
}

func TestParamStoreRoundTrip(t *testing.T) {
	api := &fakeParameters{values: map[string]string{"/amazonip/ip": "1.2.3.4"}}
	ps := NewParamStore(api, "/amazonip/ip")
	ctx := context.Background()

	addr, ok, err := ps.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1.2.3.4", addr)

	require.NoError(t, ps.Save(ctx, "5.6.7.8"))
	require.Equal(t, "5.6.7.8", api.values["/amazonip/ip"])
	require.Equal(t, "1.2.3.4", api.values["/amazonip/ip.old"])
	require.Equal(t, []string{"/amazonip/ip.old", "/amazonip/ip"}, api.putLog)
}

func TestParamStoreErrors(t *testing.T) {
	ctx := context.Background()

	ps := NewParamStore(&fakeParameters{getErr: errors.New("access denied")}, "/amazonip/ip")
	_, _, err := ps.Load(ctx)
	require.ErrorContains(t, err, "access denied")

	ps = NewParamStore(&fakeParameters{
		values: map[string]string{"/amazonip/ip": "1.2.3.4"},
		putErr: errors.New("throttled"),
	}, "/amazonip/ip")
	_, _, err = ps.Load(ctx)
	require.ErrorContains(t, err, "backup")
	require.Error(t, ps.Save(ctx, "5.6.7.8"))
}

func TestParamStorePeek(t *testing.T) {
	api := &fakeParameters{values: map[string]string{"/amazonip/ip": "1.2.3.4"}}
	ps := NewParamStore(api, "/amazonip/ip")

	addr, ok, err := ps.Peek(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1.2.3.4", addr)
	require.Empty(t, api.putLog)
}

func TestParamStoreBlankIsAbsent(t *testing.T) {
	api := &fakeParameters{values: map[string]string{"/amazonip/ip": "  "}}
	ps := NewParamStore(api, "/amazonip/ip")

	_, ok, err := ps.Load(context.Background())
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = ps.Peek(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}
