package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/aquacharge/app"
	"github.com/kilianp07/aquacharge/infra/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the metrics endpoint and event forwarders until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(svc *app.Service) error {
			logger.New("cli").Infof("serving, press ctrl-c to stop")
			return svc.Serve(cmd.Context())
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
