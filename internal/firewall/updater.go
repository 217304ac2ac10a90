// Package firewall rewrites the single-host ingress rule in an EC2 security group.
package firewall

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/K0NGR3SS/amazonip/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
)

var (
	// ErrRuleNotFound means revoke found nothing matching the old address.
	ErrRuleNotFound = errors.New("ingress rule not found")
	// ErrRuleExists means authorize found the rule already in place.
	ErrRuleExists = errors.New("ingress rule already exists")
)

// EC2API is the subset of *ec2.Client used here.
type EC2API interface {
	RevokeSecurityGroupIngress(ctx context.Context, params *ec2.RevokeSecurityGroupIngressInput, optFns ...func(*ec2.Options)) (*ec2.RevokeSecurityGroupIngressOutput, error)
	AuthorizeSecurityGroupIngress(ctx context.Context, params *ec2.AuthorizeSecurityGroupIngressInput, optFns ...func(*ec2.Options)) (*ec2.AuthorizeSecurityGroupIngressOutput, error)
	DescribeSecurityGroups(ctx context.Context, params *ec2.DescribeSecurityGroupsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error)
}

type Updater struct {
	API         EC2API
	GroupID     string
	Protocol    string
	Port        int32
	Description string
	Timeout     time.Duration
}

func New(api EC2API, groupID string, protocol string, port int32) *Updater {
	return &Updater{
		API:      api,
		GroupID:  groupID,
		Protocol: protocol,
		Port:     port,
	}
}

// Rule returns the ingress rule this updater manages for addr.
func (u *Updater) Rule(addr string) models.IngressRule {
	return models.IngressRule{
		GroupID:     u.GroupID,
		Protocol:    u.Protocol,
		FromPort:    u.Port,
		ToPort:      u.Port,
		CIDR:        models.HostCIDR(addr),
		Description: u.Description,
	}
}

// Revoke removes the rule granting addr access.
func (u *Updater) Revoke(ctx context.Context, addr string) error {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	rule := u.Rule(addr)
	rule.Description = ""

	out, err := u.API.RevokeSecurityGroupIngress(ctx, &ec2.RevokeSecurityGroupIngressInput{
		GroupId:       aws.String(u.GroupID),
		IpPermissions: []types.IpPermission{toPermission(rule)},
	})
	if err != nil {
		if apiErrorCode(err) == "InvalidPermission.NotFound" {
			return fmt.Errorf("revoking %s: %w", rule.CIDR, ErrRuleNotFound)
		}
		return fmt.Errorf("revoking %s: %w", rule.CIDR, err)
	}
	if out != nil && len(out.UnknownIpPermissions) > 0 {
		return fmt.Errorf("revoking %s: %w", rule.CIDR, ErrRuleNotFound)
	}
	return nil
}

// Authorize adds a rule granting addr access.
func (u *Updater) Authorize(ctx context.Context, addr string) error {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	rule := u.Rule(addr)
	_, err := u.API.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId:       aws.String(u.GroupID),
		IpPermissions: []types.IpPermission{toPermission(rule)},
	})
	if err != nil {
		if apiErrorCode(err) == "InvalidPermission.Duplicate" {
			return fmt.Errorf("authorizing %s: %w", rule.CIDR, ErrRuleExists)
		}
		return fmt.Errorf("authorizing %s: %w", rule.CIDR, err)
	}
	return nil
}

func (u *Updater) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.Timeout)
}

func toPermission(rule models.IngressRule) types.IpPermission {
	ipRange := types.IpRange{CidrIp: aws.String(rule.CIDR)}
	if rule.Description != "" {
		ipRange.Description = aws.String(rule.Description)
	}
	return types.IpPermission{
		IpProtocol: aws.String(rule.Protocol),
		FromPort:   aws.Int32(rule.FromPort),
		ToPort:     aws.Int32(rule.ToPort),
		IpRanges:   []types.IpRange{ipRange},
	}
}

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
