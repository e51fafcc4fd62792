package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcAdapter "github.com/andrescamacho/idleprofit-go/internal/adapters/grpc"
	"github.com/andrescamacho/idleprofit-go/internal/infrastructure/config"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the health of a running server",
		Long:  `Query the gRPC health service of 'idleprofit serve'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address == "" {
				address = config.LoadConfigOrDefault(configPath).Server.GRPCAddress
			}

			conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("failed to connect to server: %w", err)
			}
			defer conn.Close()
			client := healthpb.NewHealthClient(conn)

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			services := []struct{ label, name string }{
				{"Overall", grpcAdapter.ServiceOverall},
				{"Snapshots", grpcAdapter.ServiceWorkspace},
				{"Feeds", grpcAdapter.ServiceFeeds},
			}
			statuses := make(map[string]string, len(services))
			healthy := true
			for _, s := range services {
				resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: s.name})
				if err != nil {
					return fmt.Errorf("health check failed: %w", err)
				}
				statuses[s.label] = resp.GetStatus().String()
				if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
					healthy = false
				}
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if err := writeJSON(out, statuses); err != nil {
					return err
				}
			} else {
				if healthy {
					fmt.Fprintln(out, "✓ Server is healthy")
				} else {
					fmt.Fprintln(out, "✗ Server is degraded")
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, s := range services {
					fmt.Fprintf(w, "  %s:\t%s\n", s.label, statuses[s.label])
				}
				w.Flush()
			}
			if !healthy {
				return fmt.Errorf("server at %s is not serving", address)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Health service address (default: server.grpc_address)")

	return cmd
}
