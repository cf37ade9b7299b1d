package main

import (
	"context"
	"encoding/json"
	"flag"

	"github.com/joripage/matchengine/config"
	postgres_wrapper "github.com/joripage/matchengine/pkg/infra/postgres"
	"github.com/joripage/matchengine/pkg/kafkautil"
	"github.com/joripage/matchengine/pkg/logging"
	"github.com/joripage/matchengine/pkg/oms/repo"
	"github.com/joripage/matchengine/pkg/oms/worker"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	logger, err := logging.Init(cfg.ServiceName, logging.INFO)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // nolint

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	ctx := context.Background()

	db, err := postgres_wrapper.InitPostgres(cfg.OmsDB)
	if err != nil {
		zap.S().Errorf("init db fail with err: %v", err)
		panic(err)
	}

	sqlRepo := repo.NewRepo(db)

	cg := kafkautil.NewConsumerGroup(*cfg.Consumer)
	defer cg.Close() // nolint

	w := worker.NewWorker(sqlRepo)
	if err := w.StartConsumer(ctx, cg); err != nil {
		zap.S().Errorf("consumer stopped with err: %v", err)
	}
}
