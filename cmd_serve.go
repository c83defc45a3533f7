package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s := server.NewMCPServer(serverName, serverVersion)
			registerTools(s, a.conv, a.log)

			a.log.Info("serving MCP tools on stdio")
			return server.ServeStdio(s)
		},
	}
}
