package main

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"

	"stroke-outcome-engine/internal/config"
	"stroke-outcome-engine/internal/engine"
	"stroke-outcome-engine/internal/handler"
	"stroke-outcome-engine/internal/model"
	"stroke-outcome-engine/internal/paramdiff"
	"stroke-outcome-engine/internal/paramregistry"
)

func main() {
	// Costs are plain numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true

	rootCmd := &cobra.Command{
		Use:   "stroke-outcome",
		Short: "Lifetime outcome and cost-effectiveness projections after stroke",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(projectCmd())
	rootCmd.AddCommand(paramsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger.Level(cfg.Level())
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the projection API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			params, err := config.LoadParameters(cfg.ParametersFile)
			if err != nil {
				logger.Error().Err(err).Msg("failed to load parameters")
				return err
			}

			registry := paramregistry.New(cfg.ParameterRegistryURL, params)
			eng := engine.New(registry,
				engine.WithLogger(logger),
				engine.WithParallelGrades(cfg.ParallelGrades),
			)
			h := handler.New(eng, logger)

			logger.Info().
				Str("port", cfg.Port).
				Bool("parallel_grades", cfg.ParallelGrades).
				Bool("registry", cfg.ParameterRegistryURL != "").
				Msg("starting server")
			if err := fasthttp.ListenAndServe(":"+cfg.Port, h.HandleRequest); err != nil {
				logger.Error().Err(err).Msg("server error")
				return err
			}
			return nil
		},
	}
}

func projectCmd() *cobra.Command {
	var (
		age        float64
		sex, mrs   int
		paramsFile string
		inParallel bool
	)
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project one patient across all mRS grades and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := config.LoadParameters(paramsFile)
			if err != nil {
				return err
			}

			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.WarnLevel)
			eng := engine.New(paramregistry.New("", params),
				engine.WithLogger(logger),
				engine.WithParallelGrades(inParallel),
			)
			resp, err := eng.Process(context.Background(), &model.ProjectionRequest{
				Patient: model.Patient{Age: age, Sex: sex, MRS: mrs},
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			if resp.CalculationMetadata.CalculationOutcome == model.OutcomeFailure {
				return fmt.Errorf("projection failed, see messages")
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&age, "age", 75, "Patient age in years")
	cmd.Flags().IntVar(&sex, "sex", model.SexFemale, "Patient sex (0 female, 1 male)")
	cmd.Flags().IntVar(&mrs, "mrs", 0, "Discharge mRS grade (0-5)")
	cmd.Flags().StringVar(&paramsFile, "parameters", "", "Parameter file (defaults to the built-in set)")
	cmd.Flags().BoolVar(&inParallel, "parallel", false, "Project the grades concurrently")
	return cmd
}

func paramsCmd() *cobra.Command {
	var (
		paramsFile string
		diff       bool
	)
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Validate a parameter set and print the effective values",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := config.LoadParameters(paramsFile)
			if err != nil {
				return err
			}
			var doc interface{} = params
			if diff {
				ops, err := paramdiff.Between(config.DefaultParameters(), params)
				if err != nil {
					return fmt.Errorf("diff parameters: %w", err)
				}
				doc = ops
			}
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encode parameters: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&paramsFile, "parameters", "", "Parameter file (defaults to the built-in set)")
	cmd.Flags().BoolVar(&diff, "diff", false, "Print only the overrides against the built-in set, as a JSON Patch")
	return cmd
}
