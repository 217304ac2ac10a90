package commands

import (
	"context"
	"fmt"

	"github.com/K0NGR3SS/amazonip/internal/aws"
	"github.com/K0NGR3SS/amazonip/internal/firewall"
	"github.com/K0NGR3SS/amazonip/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the SSH ingress rules of the security group",
	Long:  `Lists the ingress rules that open the managed port and marks the one matching the address recorded by the last run.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ui.PrintBanner(version)

		ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
		defer cancel()

		awsClient, err := aws.NewClient(ctx, cfg.Region)
		if err != nil {
			return fmt.Errorf("error initializing AWS client: %w", err)
		}

		stored, _, err := newStore(cfg, awsClient).Peek(ctx)
		if err != nil {
			pterm.Warning.Printf("Could not read last recorded address: %v\n", err)
		}

		spinner := ui.StartSpinner(fmt.Sprintf("Fetching rules for %s in %s...", cfg.SecurityGroup, awsClient.Region))
		fw := firewall.New(awsClient.EC2, cfg.SecurityGroup, cfg.Protocol, cfg.Port)
		fw.Timeout = cfg.APITimeout
		rules, err := fw.Rules(ctx)
		if err != nil {
			spinner.Fail(err.Error())
			return err
		}
		spinner.Success(fmt.Sprintf("Found %d rules for port %d", len(rules), cfg.Port))

		if stored != "" {
			pterm.Info.Printf("Last recorded address: %s\n", stored)
		}
		ui.PrintRules(rules, stored)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
