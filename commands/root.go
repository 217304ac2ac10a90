package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/K0NGR3SS/amazonip/internal/aws"
	"github.com/K0NGR3SS/amazonip/internal/config"
	"github.com/K0NGR3SS/amazonip/internal/firewall"
	"github.com/K0NGR3SS/amazonip/internal/notifications"
	"github.com/K0NGR3SS/amazonip/internal/publicip"
	"github.com/K0NGR3SS/amazonip/internal/runner"
	"github.com/K0NGR3SS/amazonip/internal/state"
	"github.com/K0NGR3SS/amazonip/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const runTimeout = 5 * time.Minute

var rootCmd = &cobra.Command{
	Use:   "amazonip",
	Short: "Keep an EC2 security group's SSH rule pointed at your public IP",
	Long: `amazonip looks up this machine's public IP address, records it in ~/.amazonip
and, when it changed since the last run, revokes the SSH ingress rule for the old
address and authorizes one for the new address in the given security group.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runUpdate,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("region", "r", config.DefaultRegion, "AWS region")
	flags.StringP("secgroup", "s", "", "Security group ID")
	flags.String("config", "", "Config file (default ~/.amazonip.yaml)")
	flags.String("state-file", "", "File holding the last known address (default ~/.amazonip)")
	flags.String("ssm-parameter", "", "Keep the last known address in this SSM parameter instead of a file")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().BoolP("force", "f", false, "Force update even if the address did not change")
	rootCmd.Flags().Int32P("port", "p", config.DefaultPort, "TCP port to open")
	rootCmd.Flags().String("ip-service", config.DefaultIPService, "Plain text public IP echo service")
	rootCmd.Flags().Bool("best-effort", false, "Exit 0 even when the new address could not be authorized")
}

// loadConfig layers flags the user actually set over the file and
// environment configuration, then validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	required := path != ""
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("region") {
		cfg.Region, _ = flags.GetString("region")
	}
	if flags.Changed("secgroup") {
		cfg.SecurityGroup, _ = flags.GetString("secgroup")
	}
	if flags.Changed("state-file") {
		path, _ := flags.GetString("state-file")
		cfg.StateFile = config.ExpandHome(path)
	}
	if flags.Changed("ssm-parameter") {
		cfg.SSMParameter, _ = flags.GetString("ssm-parameter")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Lookup("force") != nil && flags.Changed("force") {
		cfg.Force, _ = flags.GetBool("force")
	}
	if flags.Lookup("port") != nil && flags.Changed("port") {
		cfg.Port, _ = flags.GetInt32("port")
	}
	if flags.Lookup("ip-service") != nil && flags.Changed("ip-service") {
		cfg.IPService, _ = flags.GetString("ip-service")
	}
	if flags.Lookup("best-effort") != nil && flags.Changed("best-effort") {
		cfg.BestEffort, _ = flags.GetBool("best-effort")
	}

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrNoSecurityGroup) {
			return nil, err
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newStore(cfg *config.Config, client *aws.Client) state.Store {
	if cfg.SSMParameter != "" {
		return state.NewParamStore(client.SSM, cfg.SSMParameter)
	}
	return state.NewFileStore(cfg.StateFile, cfg.BackupFile())
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ui.PrintTarget(cfg.Region, cfg.SecurityGroup)

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	awsClient, err := aws.NewClient(ctx, cfg.Region)
	if err != nil {
		return fmt.Errorf("error initializing AWS client: %w", err)
	}

	fw := firewall.New(awsClient.EC2, cfg.SecurityGroup, cfg.Protocol, cfg.Port)
	fw.Description = cfg.RuleDescription
	fw.Timeout = cfg.APITimeout

	r := &runner.Runner{
		Resolver:      publicip.New(cfg.IPService, cfg.HTTPTimeout),
		Store:         newStore(cfg, awsClient),
		Firewall:      fw,
		Logger:        ui.NewLogger(cfg.Verbose),
		Region:        cfg.Region,
		SecurityGroup: cfg.SecurityGroup,
		Force:         cfg.Force,
	}
	if cfg.Slack.WebhookURL != "" {
		r.Notifier = notifications.NewSlackNotifier(cfg.Slack.WebhookURL, cfg.Slack.Channel)
	}

	outcome, err := r.Run(ctx)
	ui.PrintOutcome(outcome)
	return exitErr(cfg, err)
}

// exitErr decides whether a run error fails the process. With best_effort
// only an authorize failure is downgraded to a warning.
func exitErr(cfg *config.Config, err error) error {
	if err == nil {
		return nil
	}
	if cfg.BestEffort && errors.Is(err, runner.ErrAuthorize) {
		pterm.Warning.Printf("Error: %v\n", err)
		return nil
	}
	return err
}
