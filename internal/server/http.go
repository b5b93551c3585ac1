package server

import (
	"io"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/greenledger/carbon_ledger/internal/conf"
	"github.com/greenledger/carbon_ledger/internal/domain"
	"github.com/greenledger/carbon_ledger/internal/service"
	"github.com/greenledger/carbon_ledger/internal/validate"
)

// NewHTTPServer 创建 HTTP 服务器并注册全部核心路由
func NewHTTPServer(c *conf.Server, svc *service.CarbonService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				opts = append(opts, http.Timeout(d))
			}
		}
	}

	srv := http.NewServer(opts...)
	registerRoutes(srv, svc)
	return srv
}

func registerRoutes(srv *http.Server, svc *service.CarbonService) {
	r := srv.Route("/api")

	r.POST("/entries", func(ctx http.Context) error {
		var cand validate.Candidate
		if err := ctx.Bind(&cand); err != nil {
			return err
		}
		reply, err := svc.SubmitEntry(ctx, cand)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/entries", func(ctx http.Context) error {
		return ctx.Result(200, svc.ListEntries(ctx))
	})

	r.PUT("/entries/{id}", func(ctx http.Context) error {
		var cand validate.Candidate
		if err := ctx.Bind(&cand); err != nil {
			return err
		}
		reply, err := svc.UpdateEntry(ctx, ctx.Vars().Get("id"), cand)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.DELETE("/entries/{id}", func(ctx http.Context) error {
		if err := svc.DeleteEntry(ctx, ctx.Vars().Get("id")); err != nil {
			return err
		}
		return ctx.Result(200, map[string]bool{"success": true})
	})

	r.GET("/aggregates", func(ctx http.Context) error {
		return ctx.Result(200, svc.GetAggregates(ctx, filterFromQuery(ctx)))
	})

	r.POST("/compliance", func(ctx http.Context) error {
		var req service.ComplianceReq
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		result, err := svc.RunCompliance(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, result)
	})

	r.POST("/compliance/scenarios", func(ctx http.Context) error {
		var req service.ScenariosReq
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := svc.SimulateScenarios(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.POST("/compliance/report", func(ctx http.Context) error {
		var req service.ComplianceReq
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := svc.ComplianceReport(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.POST("/import/csv", func(ctx http.Context) error {
		data, err := io.ReadAll(ctx.Request().Body)
		if err != nil {
			return err
		}
		reply, err := svc.ImportCSV(ctx, data)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/export/csv", func(ctx http.Context) error {
		data, err := svc.ExportCSV(ctx, filterFromQuery(ctx))
		if err != nil {
			return err
		}
		return ctx.Blob(200, "text/csv", data)
	})

	r.GET("/settings", func(ctx http.Context) error {
		profile, err := svc.GetSettings(ctx)
		if err != nil {
			return err
		}
		return ctx.Result(200, profile)
	})

	r.PUT("/settings", func(ctx http.Context) error {
		var profile domain.CompanyProfile
		if err := ctx.Bind(&profile); err != nil {
			return err
		}
		if err := svc.SaveSettings(ctx, profile); err != nil {
			return err
		}
		return ctx.Result(200, map[string]bool{"success": true})
	})

	r.POST("/insights", func(ctx http.Context) error {
		var req service.InsightReq
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := svc.GenerateInsight(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/factors", func(ctx http.Context) error {
		return ctx.Result(200, svc.ListFactors(ctx, ctx.Query().Get("scope")))
	})
}

// filterFromQuery 从查询串解析聚合过滤条件
func filterFromQuery(ctx http.Context) domain.Filter {
	q := ctx.Query()
	return domain.Filter{
		StartDate:    q.Get("start_date"),
		EndDate:      q.Get("end_date"),
		Scope:        domain.Scope(q.Get("scope")),
		BusinessUnit: q.Get("business_unit"),
		Facility:     q.Get("facility"),
	}
}
