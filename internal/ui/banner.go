package ui

import (
	"github.com/pterm/pterm"
)

func PrintBanner(version string) {
	logo := `
   __ _ _ __ ___   __ _ _______  _ __ (_)_ __
  / _' | '_ ' _ \ / _' |_  / _ \| '_ \| | '_ \
 | (_| | | | | | | (_| |/ / (_) | | | | | |_) |
  \__,_|_| |_| |_|\__,_/___\___/|_| |_|_| .__/
                                        |_|
`
	pterm.FgCyan.Println(logo)
	pterm.DefaultCenter.Println(pterm.FgGray.Sprint(version + " - SSH ingress follows your public IP"))
	pterm.Println()
}
