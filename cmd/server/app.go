package main

import (
	"fmt"
	"path/filepath"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/greenledger/carbon_ledger/internal/compliance"
	"github.com/greenledger/carbon_ledger/internal/conf"
	"github.com/greenledger/carbon_ledger/internal/factor"
	"github.com/greenledger/carbon_ledger/internal/server"
	"github.com/greenledger/carbon_ledger/internal/service"
	"github.com/greenledger/carbon_ledger/internal/store"
	"github.com/greenledger/carbon_ledger/internal/usecase"
	"github.com/greenledger/carbon_ledger/internal/validate"
)

// initApp 手工装配全部依赖并返回 kratos 应用
func initApp(bc *conf.Bootstrap, logger log.Logger) (*kratos.App, func(), error) {
	dataDir := "data"
	ledgerFile := "emissions.json"
	settingsFile := "company_info.json"
	if bc.Data != nil {
		if bc.Data.Dir != "" {
			dataDir = bc.Data.Dir
		}
		if bc.Data.LedgerFile != "" {
			ledgerFile = bc.Data.LedgerFile
		}
		if bc.Data.SettingsFile != "" {
			settingsFile = bc.Data.SettingsFile
		}
	}

	ledger, err := store.OpenLedger(filepath.Join(dataDir, ledgerFile), logger)
	if err != nil {
		return nil, nil, err
	}
	settings := store.NewSettings(filepath.Join(dataDir, settingsFile), logger)

	rulesFile := ""
	if bc.Compliance != nil {
		rulesFile = bc.Compliance.RulesFile
	}
	complianceCfg, err := compliance.LoadConfig(rulesFile)
	if err != nil {
		return nil, nil, err
	}

	factors := factor.NewTable()
	validator := validate.NewValidator(factors)
	ledgerUC := usecase.NewLedgerUseCase(ledger, validator, logger)
	complianceUC := usecase.NewComplianceUseCase(ledger, settings, compliance.NewEngine(complianceCfg), logger)

	insightEngine, err := server.NewInsightEngine(bc.Insight, logger)
	if err != nil {
		return nil, nil, err
	}

	warning := ""
	if backup := ledger.RecoveredFrom(); backup != "" {
		warning = fmt.Sprintf("ledger file was corrupt and has been moved to %s; starting with an empty ledger", backup)
	}

	svc := service.NewCarbonService(ledgerUC, complianceUC, insightEngine, factors, warning, logger)
	httpSrv := server.NewHTTPServer(bc.Server, svc, logger)

	cleanup := func() {
		log.NewHelper(logger).Info("shutting down carbon ledger service")
	}
	return newApp(logger, httpSrv), cleanup, nil
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}
