package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joripage/matchengine/config"
	redis_wrapper "github.com/joripage/matchengine/pkg/infra/redis"
	"github.com/joripage/matchengine/pkg/kafkautil"
	"github.com/joripage/matchengine/pkg/logging"
	"github.com/joripage/matchengine/pkg/oms"
	fixgateway "github.com/joripage/matchengine/pkg/oms/fix"
	riskrule "github.com/joripage/matchengine/pkg/oms/risk_rule"
	"go.uber.org/zap"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	go func() {
		http.ListenAndServe("localhost:6060", nil) // nolint
	}()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	logger, err := logging.Init(cfg.ServiceName, logging.INFO)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // nolint

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	fixGateway := fixgateway.NewFixGateway(&fixgateway.FixGatewayConfig{
		ConfigFilepath: cfg.Fix.ConfigFilepath,
	})
	omsInstance := oms.NewOMS(cfg.Engine, fixGateway)
	fixGateway.AddOmsInstance(omsInstance)

	if cfg.RiskRulesFile != "" {
		rule, err := riskrule.NewPriceBandRuleFromFile(cfg.RiskRulesFile)
		if err != nil {
			zap.S().Fatalf("load risk rules err=%v", err)
		}
		omsInstance.AddRiskRule(rule)
	}

	if cfg.Kafka != nil {
		producer := kafkautil.NewProducer(*cfg.Kafka)
		defer producer.Close() // nolint
		omsInstance.SetEventProducer(producer)
	}

	if cfg.Redis != nil && cfg.Depth != nil {
		rdb, err := redis_wrapper.InitRedis(ctx, cfg.Redis)
		if err != nil {
			zap.S().Fatalf("init redis err=%v", err)
		}
		interval := time.Duration(cfg.Depth.RefreshIntervalMs) * time.Millisecond
		omsInstance.SetDepthCache(oms.NewDepthCache(rdb, omsInstance.Books(), interval, cfg.Depth.MaxLevels))
	}

	if err := omsInstance.Start(ctx); err != nil {
		zap.S().Fatalf("start oms err=%v", err)
	}
	fmt.Println("Matching engine started. Press Ctrl+C to exit.")

	<-sigs
	fmt.Println("Shutting down...")

	omsInstance.Stop()
	fixGateway.Stop()
	cancel()

	fmt.Println("Exited cleanly.")
}
