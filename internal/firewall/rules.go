package firewall

import (
	"context"
	"fmt"

	"github.com/K0NGR3SS/amazonip/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// Rules lists the IPv4 ingress rules of the group that let traffic reach
// the managed port over the managed protocol.
func (u *Updater) Rules(ctx context.Context) ([]models.IngressRule, error) {
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()

	res, err := u.API.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		GroupIds: []string{u.GroupID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe security group %s: %w", u.GroupID, err)
	}
	if len(res.SecurityGroups) == 0 {
		return nil, fmt.Errorf("security group %s not found", u.GroupID)
	}

	var rules []models.IngressRule
	for _, perm := range res.SecurityGroups[0].IpPermissions {
		if !matchesProtocol(perm, u.Protocol) || !ruleCoversPort(perm, u.Port) {
			continue
		}
		for _, r := range perm.IpRanges {
			rules = append(rules, models.IngressRule{
				GroupID:     u.GroupID,
				Protocol:    aws.ToString(perm.IpProtocol),
				FromPort:    aws.ToInt32(perm.FromPort),
				ToPort:      aws.ToInt32(perm.ToPort),
				CIDR:        aws.ToString(r.CidrIp),
				Description: aws.ToString(r.Description),
			})
		}
	}
	return rules, nil
}

func matchesProtocol(perm types.IpPermission, protocol string) bool {
	proto := aws.ToString(perm.IpProtocol)
	return proto == "" || proto == "-1" || proto == protocol
}

func ruleCoversPort(perm types.IpPermission, port int32) bool {
	if perm.FromPort == nil || perm.ToPort == nil {
		return true
	}
	return port >= *perm.FromPort && port <= *perm.ToPort
}
