// Command relayerapi exposes the bridge's instruction surface over HTTP,
// for relayer and operator tooling that would otherwise issue Solana
// transactions directly.
package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	cmdconfig "solana-base-bridge/cmd/config"
	"solana-base-bridge/cmd/relayerapi/server"
	"solana-base-bridge/core"
)

func main() {
	_ = godotenv.Load()
	cmdconfig.LoadConfig(os.Getenv("BRIDGE_ENV"))
	cfg := cmdconfig.AppConfig

	store := core.NewInMemoryStore()
	guardian, err := core.ParseAddress(cfg.Guardian)
	if err != nil {
		log.WithError(err).Fatal("invalid guardian address in configuration")
	}

	eip1559 := core.Eip1559Config{
		Target:                cfg.Eip1559.Target,
		Denominator:           cfg.Eip1559.Denominator,
		WindowDurationSeconds: cfg.Eip1559.WindowDurationSeconds,
		MinimumBaseFee:        cfg.Eip1559.MinimumBaseFee,
	}
	gasCost := core.GasCostConfig{GasCostScaler: cfg.GasCost.GasCostScaler, GasCostScalerDp: cfg.GasCost.GasCostScalerDp}
	if cfg.GasCost.GasFeeReceiver != "" {
		recv, err := core.ParseAddress(cfg.GasCost.GasFeeReceiver)
		if err != nil {
			log.WithError(err).Fatal("invalid gas fee receiver in configuration")
		}
		gasCost.GasFeeReceiver = recv
	}
	gas := core.GasConfig{MaxGasLimitPerMessage: cfg.Gas.MaxGasLimitPerMessage}
	protocol := core.ProtocolConfig{BlockIntervalRequirement: cfg.Protocol.BlockIntervalRequirement}
	limits := core.LimitsConfig{MaxCallBufferSize: cfg.Limits.MaxCallBufferSize}

	bridge, err := core.InitializeBridge(store, guardian, eip1559, gasCost, gas, protocol, limits, 0)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize bridge state")
	}

	signerAddrs := make([]core.EvmAddress, 0, len(cfg.Oracle.SignerAddrs))
	for _, s := range cfg.Oracle.SignerAddrs {
		addr, err := core.ParseEvmAddress(s)
		if err != nil {
			log.WithError(err).Fatal("invalid oracle signer address in configuration")
		}
		signerAddrs = append(signerAddrs, addr)
	}
	signers, err := core.SetOracleSigners(uint8(cfg.Oracle.Threshold), signerAddrs)
	if err != nil {
		log.WithError(err).Fatal("invalid oracle signer set in configuration")
	}

	trustedOracle := guardian
	if cfg.Oracle.TrustedAddress != "" {
		trustedOracle, err = core.ParseAddress(cfg.Oracle.TrustedAddress)
		if err != nil {
			log.WithError(err).Fatal("invalid oracle trusted address in configuration")
		}
	}

	deps := &core.Deps{
		Store:         store,
		Bridge:        bridge,
		Signers:       signers,
		Ledger:        core.NewInMemoryLedger(nil),
		Tokens:        core.NewInMemoryTokenLedger(),
		Invoker:       core.LoggingInvoker{},
		TrustedOracle: trustedOracle,
		Now:           func() uint64 { return uint64(time.Now().Unix()) },
	}

	env := &server.Env{Deps: deps}
	router := server.NewRouter(env)

	addr := cfg.RelayerAPI.ListenAddr
	if addr == "" {
		addr = ":8080"
	}
	log.WithField("addr", addr).Info("relayer api listening")
	if err := http.ListenAndServe(addr, router); err != nil {
		log.WithError(err).Fatal("relayer api server exited")
	}
}
