package main

import (
	"github.com/sandevgo/gtmsuite/internal/config"
	"github.com/sandevgo/gtmsuite/internal/service/installer"
	"github.com/sandevgo/gtmsuite/pkg/log"
	"github.com/spf13/cobra"
)

var (
	initDefaults bool
	initForce    bool
)

var initCmd = &cobra.Command{
	Use:          "init",
	Short:        "Create the runtime directory and a starter .env",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		envPath := config.AppConfig{RuntimePath: config.GetRuntimePath()}.GetEnvPath()

		if initDefaults {
			state := installer.NewInstallState()
			state.App.Provider = "openai"
			state.App.Model = "gpt-4o-mini"
			if err := installer.WriteEnv(envPath, state, initForce); err != nil {
				return err
			}
		} else {
			// run wizard (includes save step)
			if _, err := installer.RunWizard(envPath, initForce); err != nil {
				return err
			}
		}

		logger.Info().Str("path", envPath).Msg("configuration written")
		logger.Info().Msg("Setup complete! Run 'gtm serve' or 'gtm chat'.")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initDefaults, "defaults", false, "write the default configuration without prompting")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing .env")
	rootCmd.AddCommand(initCmd)
}
