package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/prompt-shield/internal/client"
	"github.com/MKhiriev/prompt-shield/internal/config"
	"github.com/MKhiriev/prompt-shield/internal/logger"
	"github.com/MKhiriev/prompt-shield/internal/service"
	"github.com/MKhiriev/prompt-shield/models"
)

// runtime holds what PersistentPreRunE builds for the subcommands.
type runtime struct {
	flags     *config.Flags
	app       *client.App
	log       *logger.Logger
	logCloser io.Closer
}

func newRootCmd(rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:           "promptshield",
		Short:         "Terminal client for the PromptShield prompt compression API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return rt.open(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.app.Run(cmd.Context())
		},
	}
	rt.flags = config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newVersionCmd(),
		newWhoamiCmd(rt),
		newOptimizeCmd(rt),
		newExecuteCmd(rt),
		newHistoryCmd(rt),
		newLogoutCmd(rt),
		newResetPasswordCmd(rt),
	)
	return root
}

func (rt *runtime) open(cmd *cobra.Command) error {
	cfg, err := config.GetClientConfig(rt.flags)
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}

	rt.log, rt.logCloser = logger.NewClientLogger("promptshield-client", cfg.Log.FilePath, cfg.Log.Level)

	rt.app, err = client.NewApp(cmd.Context(), cfg, buildInfo(rt.log), rt.log)
	if err != nil {
		rt.log.Error().Err(err).Msg("init client app error")
		return err
	}
	return nil
}

func (rt *runtime) close() error {
	var errs []error
	if rt.app != nil {
		errs = append(errs, rt.app.Close())
	}
	if rt.logCloser != nil {
		errs = append(errs, rt.logCloser.Close())
	}
	return errors.Join(errs...)
}

func buildInfo(log *logger.Logger) models.AppBuildInfo {
	appInfo, err := service.NewAppInfoService(buildVersion, buildDate, buildCommit, log)
	if err != nil {
		log.Warn().Err(err).Msg("build version is not set")
		return models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	}
	return appInfo.BuildInfo()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := buildInfo(logger.Nop())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Build version: %s\n", b.BuildVersion())
			fmt.Fprintf(out, "Build date: %s\n", b.BuildDate())
			fmt.Fprintf(out, "Build commit: %s\n", b.BuildCommit())
			return nil
		},
	}
}

func newWhoamiCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := rt.app.Services().AccountService.Whoami(cmd.Context())
			if err != nil {
				return errors.New(service.ErrorMessage(err))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Email:    %s\n", p.Email)
			fmt.Fprintf(out, "Verified: %t\n", p.IsVerified)
			fmt.Fprintf(out, "Tier:     %s\n", p.Tier)
			fmt.Fprintf(out, "Plan:     %s\n", p.SubscriptionPlan)
			fmt.Fprintf(out, "Usage:    %d / %d\n", p.UsageCount, p.MaxUsage)
			fmt.Fprintf(out, "API key:  %s\n", rt.app.Services().Session.Credential().Masked())
			return nil
		},
	}
}

func newOptimizeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "optimize <text>",
		Short: "Compress a prompt without running an LLM",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			res, err := rt.app.Services().Playground.OptimizeOnly(cmd.Context(), text, "")
			if err != nil {
				return errors.New(service.ErrorMessage(err))
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newExecuteCmd(rt *runtime) *cobra.Command {
	var in service.ExecuteInput
	cmd := &cobra.Command{
		Use:   "execute <text>",
		Short: "Compress a prompt and run it on an LLM (--provider and --model pick the LLM)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Text = strings.Join(args, " ")
			res, err := rt.app.Services().Playground.Execute(cmd.Context(), in)
			if err != nil {
				return errors.New(service.ErrorMessage(err))
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.ProviderKey, "provider-key", "", "Your own provider API key")
	return cmd
}

func newHistoryCmd(rt *runtime) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := rt.app.Services().AnalyticsService.History(cmd.Context(), limit)
			if err != nil {
				return errors.New(service.ErrorMessage(err))
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No activity yet.")
				return nil
			}
			fmt.Fprintf(out, "%-5s  %8s  %10s  %7s\n", "TIME", "RAW", "COMPRESSED", "SAVINGS")
			for _, r := range rows {
				fmt.Fprintf(out, "%-5s  %8d  %10d  %6s%%\n", r.Time, r.Raw, r.Compressed, r.Savings)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", service.DefaultHistoryLimit, "Maximum number of rows")
	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.app.Services().AccountService.Logout(cmd.Context()); err != nil {
				return errors.New(service.ErrorMessage(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newResetPasswordCmd(rt *runtime) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Open the password reset form for a token from the reset e-mail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.app.RunResetPassword(cmd.Context(), token)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Reset token from the e-mailed link")
	return cmd
}

func printResult(out io.Writer, res service.PlaygroundResult) {
	r := res.Response
	fmt.Fprintf(out, "Provider:   %s\n", r.Provider)
	fmt.Fprintf(out, "Tokens:     %d -> %d (%d%% saved)\n", r.Tokens.RawTokens, r.Tokens.CompressedTokens, res.Metrics.SavingsPercent)
	fmt.Fprintf(out, "Est. cost:  $%.6f -> $%.6f (saved $%.6f)\n", res.Metrics.RawCost, res.Metrics.CompressedCost, res.Metrics.CostSaved)
	fmt.Fprintf(out, "\nCompressed:\n%s\n", r.CompressedText)
	fmt.Fprintf(out, "\nOutput:\n%s\n", r.Output)
}
