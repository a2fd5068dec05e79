// Command bridge is the operator CLI for the bridge: fee dry-runs, oracle
// signer-set validation and configuration inspection.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	cmdconfig "solana-base-bridge/cmd/config"
	"solana-base-bridge/core"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{Use: "bridge"}
	rootCmd.PersistentFlags().String("env", "", "environment overlay to merge over the default config")
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(feeCmd())
	rootCmd.AddCommand(oracleCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) {
	env, _ := cmd.Flags().GetString("env")
	cmdconfig.LoadConfig(env)
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config"}
	dump := &cobra.Command{
		Use:   "dump",
		Short: "print the resolved configuration",
		Run: func(cmd *cobra.Command, args []string) {
			loadConfig(cmd)
			format, _ := cmd.Flags().GetString("format")
			switch format {
			case "yaml":
				out, err := yaml.Marshal(cmdconfig.AppConfig)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
				fmt.Print(string(out))
			default:
				out, err := json.MarshalIndent(cmdconfig.AppConfig, "", "  ")
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
				fmt.Println(string(out))
			}
		},
	}
	dump.Flags().String("format", "json", "output format: json or yaml")
	cmd.AddCommand(dump)
	return cmd
}

func feeCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "fee"}
	dryRun := &cobra.Command{
		Use:   "dry-run",
		Short: "compute the base fee after a hypothetical window of gas usage",
		Run: func(cmd *cobra.Command, args []string) {
			loadConfig(cmd)
			cfg := cmdconfig.AppConfig
			gasUsed, _ := cmd.Flags().GetUint64("gas-used")
			elapsed, _ := cmd.Flags().GetUint64("elapsed-seconds")

			eipCfg := core.Eip1559Config{
				Target:                cfg.Eip1559.Target,
				Denominator:           cfg.Eip1559.Denominator,
				WindowDurationSeconds: cfg.Eip1559.WindowDurationSeconds,
				MinimumBaseFee:        cfg.Eip1559.MinimumBaseFee,
			}
			state := &core.Eip1559State{
				CurrentBaseFee:       eipCfg.MinimumBaseFee,
				CurrentWindowGasUsed: gasUsed,
				WindowStartTime:      0,
			}
			base, err := state.Refresh(eipCfg, elapsed)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Printf("base_fee=%d\n", base)
		},
	}
	dryRun.Flags().Uint64("gas-used", 0, "gas consumed in the closing window")
	dryRun.Flags().Uint64("elapsed-seconds", 1, "seconds elapsed since the window started")
	cmd.AddCommand(dryRun)
	return cmd
}

func oracleCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "oracle"}
	verify := &cobra.Command{
		Use:   "verify-set [threshold] [addr...]",
		Short: "validate a candidate oracle signer set without installing it",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var threshold uint8
			if _, err := fmt.Sscanf(args[0], "%d", &threshold); err != nil {
				fmt.Fprintln(os.Stderr, "invalid threshold:", err)
				os.Exit(1)
			}
			signers := make([]core.EvmAddress, 0, len(args)-1)
			for _, a := range args[1:] {
				addr, err := core.ParseEvmAddress(a)
				if err != nil {
					fmt.Fprintln(os.Stderr, "invalid signer address:", err)
					os.Exit(1)
				}
				signers = append(signers, addr)
			}
			if _, err := core.SetOracleSigners(threshold, signers); err != nil {
				fmt.Fprintln(os.Stderr, "rejected:", err)
				os.Exit(1)
			}
			fmt.Println("ok")
		},
	}
	cmd.AddCommand(verify)
	return cmd
}
