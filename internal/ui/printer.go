package ui

import (
	"strconv"

	"github.com/K0NGR3SS/amazonip/internal/models"
	"github.com/pterm/pterm"
)

func PrintTarget(region, group string) {
	pterm.Info.Printf("Region: %s\n", region)
	pterm.Info.Printf("Security Group: %s\n", group)
}

func PrintOutcome(o models.Outcome) {
	switch o.Status {
	case models.StatusUnchanged:
		pterm.Success.Println("No update required")
	case models.StatusUpdated:
		pterm.Success.Printf("IP address updated to %s\n", o.Current)
		if o.RevokeError != "" {
			pterm.Warning.Printf("Old rule may still be present: %s\n", o.RevokeError)
		}
	case models.StatusFailed:
		pterm.Error.Printf("Could not authorize %s in %s\n", o.Current, o.SecurityGroup)
	}
}

// PrintRules renders the group's rules for the managed port. The rule for
// stored, the address recorded by the last run, is flagged.
func PrintRules(rules []models.IngressRule, stored string) {
	if len(rules) == 0 {
		pterm.Warning.Println("No matching ingress rules found.")
		return
	}

	data := [][]string{
		{"CIDR", "Protocol", "Ports", "Description", "Managed"},
	}

	for _, r := range rules {
		ports := "all"
		if r.FromPort != 0 || r.ToPort != 0 {
			ports = strconv.Itoa(int(r.FromPort))
			if r.ToPort != r.FromPort {
				ports += "-" + strconv.Itoa(int(r.ToPort))
			}
		}

		managed := ""
		if stored != "" && r.CIDR == models.HostCIDR(stored) {
			managed = pterm.FgGreen.Sprint("current")
		}

		data = append(data, []string{
			pterm.FgCyan.Sprint(r.CIDR),
			r.Protocol,
			ports,
			r.Description,
			managed,
		})
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func StartSpinner(text string) *pterm.SpinnerPrinter {
	spinner, _ := pterm.DefaultSpinner.Start(text)
	return spinner
}

// NewLogger returns the pterm logger used by the update pipeline.
func NewLogger(verbose bool) *pterm.Logger {
	level := pterm.LogLevelInfo
	if verbose {
		level = pterm.LogLevelDebug
	}
	return pterm.DefaultLogger.WithLevel(level)
}
