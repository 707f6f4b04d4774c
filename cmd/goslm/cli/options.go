package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Output formats accepted by --format
const (
	FormatText = "text"
	FormatJSON = "json"
)

// GlobalOptions are the flags shared by every command. Empty strings mean
// "use the config file or environment".
type GlobalOptions struct {
	Solution    string
	Backend     string
	SettingsDSN string
	ConfigFile  string
	Verbosity   string
	Format      string
}

// AddFlags registers the options as persistent flags of cmd
func (o *GlobalOptions) AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.Solution, "solution", "", "Solution file (.sln); detected in the current directory when omitted")
	flags.StringVar(&o.Backend, "backend", "", "Profile storage: xml, settings or memory")
	flags.StringVar(&o.SettingsDSN, "settings-dsn", "", "Settings database for the settings backend (sqlite path or mysql://...)")
	flags.StringVar(&o.ConfigFile, "config", "", "goslm configuration file to use")
	flags.StringVar(&o.Verbosity, "verbosity", "", "Display verbosity (quiet, normal, detailed, diagnostic)")
	flags.StringVar(&o.Format, "format", FormatText, "Output format (text, json)")
}

// JSON reports whether --format json was given
func (o *GlobalOptions) JSON() bool {
	return strings.EqualFold(o.Format, FormatJSON)
}

// ValidateFormat rejects unknown --format values
func (o *GlobalOptions) ValidateFormat() error {
	switch strings.ToLower(o.Format) {
	case "", FormatText, FormatJSON:
		return nil
	}
	return fmt.Errorf("invalid format %q (use text or json)", o.Format)
}
