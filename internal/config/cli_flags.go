package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Write logs as JSON")
	cmd.PersistentFlags().String("proxy", "", "HTTP/SOCKS5 proxy, or a comma separated list to rotate through")
	cmd.PersistentFlags().StringArrayP("header", "H", nil, "Extra request header (e.g., -H \"Cookie: a=1\")")
	cmd.PersistentFlags().String("timeout", "", "Per-request timeout (e.g., 30s)")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().String("config", "", "Path to a YAML or JSON configuration file")
	cmd.PersistentFlags().Float64("rate", 0, "Maximum requests per second to the site (0 keeps the default)")
	cmd.PersistentFlags().Bool("metrics", false, "Print fetch metrics after the run")
	cmd.PersistentFlags().String("base-url", "", "Site root to crawl")
	_ = cmd.PersistentFlags().MarkHidden("base-url")
}
