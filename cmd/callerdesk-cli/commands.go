package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"callerdesk-console/internal/auth"
	"callerdesk-console/internal/callerdesk"
	"callerdesk-console/internal/calls"
	"callerdesk-console/internal/config"
	"callerdesk-console/internal/rbac"
	"callerdesk-console/internal/routing"
	"callerdesk-console/pkg/logger"
)

func newHistoryCmd() *cobra.Command {
	var pageSize int
	cmd := &cobra.Command{
		Use:   "history [number]",
		Short: "Print recent outbound calls to a number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			ctx := logger.With(cmd.Context(), cliLogger())
			records := calls.NewHistoryQuery(api).FetchOutboundHistory(ctx, authCode, args[0], pageSize)
			printHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}
	cmd.Flags().IntVar(&pageSize, "page-size", calls.DefaultHistoryPageSize, "records to fetch")
	return cmd
}

func printHistory(out io.Writer, records []calls.CallRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "STARTED\tCALLER\tAGENT\tNAME\tSTATUS\tTALK")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%ds\n",
			r.StartedAt, r.CallerNumber, r.AgentNumber, r.AgentName, r.Status, r.TalkDurationSeconds)
	}
	w.Flush()
	fmt.Fprintf(out, "%d record(s)\n", len(records))
}

func newRouteCmd() *cobra.Command {
	var (
		deskphone string
		match     string
		pageSize  int
		dryRun    bool
	)
	cmd := &cobra.Command{
		Use:   "route [caller-number]",
		Short: "Run inbound routing for a caller as if they had just called",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			ctx := logger.With(cmd.Context(), cliLogger())
			history := calls.NewHistoryQuery(api)
			matcher := routing.MatcherFor(match)
			caller := strings.TrimSpace(args[0])

			if dryRun {
				records := history.FetchOutboundHistory(ctx, authCode, caller, pageSize)
				return printJSON(cmd.OutOrStdout(), routing.Decide(records, caller, matcher))
			}

			router := routing.NewRouter(history, routing.NewRedirector(api), routing.Options{
				Matcher:  matcher,
				PageSize: pageSize,
			})
			out := router.HandleIncomingCall(ctx, routing.InboundCall{
				Credential:   authCode,
				CallerNumber: caller,
				Deskphone:    deskphone,
			})
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&deskphone, "deskphone", "", "deskphone presented on the redirect")
	cmd.Flags().StringVar(&match, "match", "exact", "number matching: exact or digits")
	cmd.Flags().IntVar(&pageSize, "page-size", calls.DefaultHistoryPageSize, "history records to scan")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "decide only; do not place the redirect")
	return cmd
}

func newDialCmd() *cobra.Command {
	var agent, customer, deskphone string
	cmd := &cobra.Command{
		Use:   "dial",
		Short: "Ring an agent and bridge a customer (click-to-call)",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newClient()
			if err != nil {
				return err
			}
			env, err := api.ClickToCall(cmd.Context(), authCode, callerdesk.ClickToCallRequest{
				PartyA:    agent,
				PartyB:    customer,
				Deskphone: deskphone,
			})
			if err != nil {
				return err
			}
			if !env.OK() {
				return fmt.Errorf("dial rejected: %s", env.MessageOr("request failed"))
			}
			fmt.Fprintln(cmd.OutOrStdout(), env.MessageOr("call placed"))
			return nil
		},
	}
	cmd.Flags().StringVar(&agent, "agent", "", "agent number, dialled first")
	cmd.Flags().StringVar(&customer, "customer", "", "customer number")
	cmd.Flags().StringVar(&deskphone, "deskphone", "", "deskphone used as caller ID")
	_ = cmd.MarkFlagRequired("agent")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("deskphone")
	return cmd
}

// newTokenCmd mints a console token pair. The console has no user store, so
// operators issue tokens out of band with the server's JWT_SECRET.
func newTokenCmd() *cobra.Command {
	var userID, workspaceID, role string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a console access/refresh token pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !rbac.Valid(role) {
				return fmt.Errorf("--role must be one of %s, %s, %s", rbac.RoleAdmin, rbac.RoleSupervisor, rbac.RoleAgent)
			}
			cfg, err := config.LoadAuth()
			if err != nil {
				return err
			}
			m, err := auth.NewManager(cfg)
			if err != nil {
				return err
			}
			pair, err := m.IssuePair(time.Now(), auth.Identity{UserID: userID, WorkspaceID: workspaceID, Role: role})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), pair)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&workspaceID, "workspace", "default", "workspace id")
	cmd.Flags().StringVar(&role, "role", rbac.RoleAgent, "admin, supervisor or agent")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
