package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"policy-agent/internal/di"
	"policy-agent/internal/domain/entity"
	"policy-agent/internal/infrastructure/config"
	"policy-agent/internal/infrastructure/document"
	"policy-agent/internal/infrastructure/env"
	"policy-agent/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "policyagent",
		Short:         "Turn policy documents into structured requirements and application questions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newServeCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		configPath   string
		outDir       string
		policyType   string
		policyCode   string
		forceType    bool
		fallbackOnly bool
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "run <document>",
		Short: "Run the workflow over one policy document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envService := env.NewEnvService()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if outDir != "" {
				cfg.Output.Dir = outDir
			}

			text, err := document.Load(args[0])
			if err != nil {
				return err
			}

			container, err := di.NewContainer(di.Config{
				Workflow:     cfg,
				APIKey:       envService.Get("OPENROUTER_API_KEY"),
				FallbackOnly: fallbackOnly || envService.GetBool("POLICY_AGENT_FALLBACK_ONLY", false),
				Debug:        envService.GetBool("POLICY_AGENT_DEBUG", false),
				Quiet:        quiet,
			})
			if err != nil {
				return err
			}
			defer container.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
			defer cancel()

			result, err := container.Runner.Run(ctx, entity.InitialContext{
				PolicyDocument:     text,
				DetectedPolicyType: policyType,
				DetectedPolicyCode: policyCode,
				ForceType:          forceType,
			})
			if err != nil {
				return err
			}

			if quiet {
				encoded, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(encoded))
			} else {
				fmt.Printf("\nArtifacts written to %s\n", container.Store.Dir())
			}

			// Returning an error (rather than exiting here) lets the
			// deferred container.Close sync the log sink first.
			if result.Status != entity.WorkflowStatusSuccess {
				return fmt.Errorf("workflow %s finished with status %s", result.RunID, result.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "workflow YAML file (built-in defaults when omitted)")
	cmd.Flags().StringVar(&outDir, "out", "", "artifact output directory")
	cmd.Flags().StringVar(&policyType, "type", "", "policy type hint for the evaluator")
	cmd.Flags().StringVar(&policyCode, "code", "", "policy code hint for the evaluator")
	cmd.Flags().BoolVar(&forceType, "force-type", false, "treat the type hint as authoritative")
	cmd.Flags().BoolVar(&fallbackOnly, "fallback-only", false, "skip model calls and use fallback payloads")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress progress output, print the result as JSON")
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workflow over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			envService := env.NewEnvService()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			container, err := di.NewContainer(di.Config{
				Workflow:     cfg,
				APIKey:       envService.Get("OPENROUTER_API_KEY"),
				FallbackOnly: envService.GetBool("POLICY_AGENT_FALLBACK_ONLY", false),
				Debug:        envService.GetBool("POLICY_AGENT_DEBUG", false),
				Quiet:        true,
			})
			if err != nil {
				return err
			}
			defer container.Close()

			srv := server.NewServer(container.Runner)
			container.Logger.Info("HTTP server listening", "addr", addr)
			return http.ListenAndServe(addr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "workflow YAML file (built-in defaults when omitted)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
