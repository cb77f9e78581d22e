package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

// newMCPCmd serves the acquisition tools over MCP stdio, for use as an
// agent skill backend.
func newMCPCmd(root *rootFlags) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve acquire_images and acquire_videos tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.setup(cmd)
			if err != nil {
				return err
			}

			s, err := buildStack(cfg, logger, stackOptions{account: account})
			if err != nil {
				return err
			}
			defer s.Close()

			srv := mcp.NewServer(&mcp.Implementation{
				Name:    "browseruse",
				Version: version,
			}, nil)
			s.orch.RegisterMCP(srv)

			logger.Info("mcp: serving on stdio")
			return srv.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "use a saved login profile")
	return cmd
}
