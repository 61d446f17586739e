// Command demo runs the full settlement flow in-process: onboards three
// agents against the simulated collaborators, executes a serviced payment
// with evidence anchoring, and prints the ledger summary. Useful as a smoke
// test and as executable documentation of the service wiring.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"genesis-settlement/config"
	"genesis-settlement/internal/adapter/registrar"
	"genesis-settlement/internal/adapter/storage/memory"
	redisStorage "genesis-settlement/internal/adapter/storage/redis"
	"genesis-settlement/internal/adapter/wallet"
	"genesis-settlement/internal/core/domain"
	"genesis-settlement/internal/core/ports"
	"genesis-settlement/internal/service"
	"genesis-settlement/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, true)
	ctx := context.Background()

	feePct, _ := cfg.Settlement.FeePercent()
	dust, _ := cfg.Settlement.Dust()
	initialBalance, _ := cfg.Wallet.Balance()

	// In-memory everything; the demo leaves no state behind.
	ledger := memory.NewReceiptLedger()
	agentRepo := memory.NewAgentRepo()
	transferClient := wallet.NewSimulatedClient(initialBalance, cfg.Wallet.AllowSimulated, log)
	identityRegistrar := registrar.NewSimulated(cfg.Registrar.EmitEvents, log)

	// Evidence anchoring needs Redis; the demo degrades without it.
	var evidenceSvc ports.EvidenceService
	if cfg.Redis.Enabled {
		connectCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		rdb, err := redisStorage.NewClient(connectCtx, cfg.Redis, log)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("Redis unreachable, running without evidence anchoring")
		} else {
			defer rdb.Close()
			evidenceSvc = service.NewEvidenceService(redisStorage.NewEvidenceStore(rdb), cfg.Evidence.GatewayURL, log)
		}
	}

	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	registrationSvc := service.NewRegistrationResolver(identityRegistrar, cfg.Registrar.PollAttempts, cfg.Registrar.PollDelay, log)
	agentSvc := service.NewAgentService(agentRepo, registrationSvc, hashSvc, tokenSvc, log)
	settlementSvc := service.NewSettlementService(transferClient, ledger, feePct, dust, cfg.Settlement.TreasuryAccount, log)

	// Phase 1: onboarding. Three agents register and receive on-chain IDs.
	fmt.Println("=== Phase 1: Agent Onboarding ===")
	names := []struct{ name, domain string }{
		{"orchestrator-agent", "orchestrator.demo.local"},
		{"data-analysis-agent", "analysis.demo.local"},
		{"report-agent", "report.demo.local"},
	}
	for _, n := range names {
		resp, err := agentSvc.Register(ctx, ports.AgentRegisterRequest{Name: n.name, Domain: n.domain})
		if err != nil {
			log.Fatal().Err(err).Str("agent", n.name).Msg("Onboarding failed")
		}
		fmt.Printf("  %-22s agent_id=%d address=%s\n", resp.Agent.Name, resp.Agent.OnChainID, resp.Agent.Address)
	}

	// Phase 2: a serviced payment. The orchestrator pays the analysis agent
	// for a delivered report, anchoring the request as evidence first.
	fmt.Println("\n=== Phase 2: Serviced Payment ===")
	var requestCID string
	if evidenceSvc != nil {
		payload, _ := json.Marshal(map[string]any{
			"service":      "market-analysis",
			"parameters":   map[string]any{"symbol": "ETH", "window": "24h"},
			"requested_at": time.Now().UTC().Format(time.RFC3339),
		})
		requestCID, err = evidenceSvc.StoreJSON(ctx, "orchestrator-agent", "service_request", payload)
		if err != nil {
			log.Fatal().Err(err).Msg("Evidence storage failed")
		}
		fmt.Printf("  service request anchored: %s\n", evidenceSvc.GatewayURL(requestCID))
	}

	receipt, err := settlementSvc.Execute(ctx, domain.SettlementRequest{
		PayerID:            "orchestrator-agent",
		PayeeID:            "data-analysis-agent",
		GrossAmount:        decimal.RequireFromString("0.5"),
		ServiceDescription: "24h ETH market analysis",
		EvidenceCID:        requestCID,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Settlement failed")
	}
	fmt.Printf("  payment %s: %s\n", receipt.PaymentID, receipt.Status)
	fmt.Printf("    gross=%s fee=%s net=%s simulated=%v\n",
		receipt.GrossAmount, receipt.ProtocolFeeAmount, receipt.NetAmount, receipt.Simulated)

	if evidenceSvc != nil && receipt.IsCompleted() {
		pkg, err := settlementSvc.ReceiptForEvidence(ctx, receipt.PaymentID.String())
		if err != nil {
			log.Fatal().Err(err).Msg("Building payment proof failed")
		}
		proofCID, err := evidenceSvc.StoreJSON(ctx, "orchestrator-agent", pkg.EvidenceType, pkg.Data)
		if err != nil {
			log.Fatal().Err(err).Msg("Proof storage failed")
		}
		fmt.Printf("  payment proof anchored: %s\n", evidenceSvc.GatewayURL(proofCID))
	}

	// A second, smaller payment so the summary has something to aggregate.
	second, err := settlementSvc.Execute(ctx, domain.SettlementRequest{
		PayerID:            "orchestrator-agent",
		PayeeID:            "report-agent",
		GrossAmount:        decimal.RequireFromString("0.25"),
		ServiceDescription: "report rendering",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Settlement failed")
	}
	fmt.Printf("  payment %s: %s\n", second.PaymentID, second.Status)

	// Phase 3: ledger summary.
	fmt.Println("\n=== Phase 3: Ledger Summary ===")
	summary, err := settlementSvc.Summary(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Summary failed")
	}
	fmt.Printf("  payments=%d successful=%d success_rate=%.1f%% volume=%s\n",
		summary.TotalPayments, summary.Successful, summary.SuccessRate*100, summary.TotalVolume)
	for name, totals := range summary.ParticipantTotals {
		fmt.Printf("  %-22s sent=%s received=%s\n", name, totals.Sent, totals.Received)
	}
}
