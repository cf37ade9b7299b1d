package config

import (
	"os"

	postgres_wrapper "github.com/joripage/matchengine/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/matchengine/pkg/infra/redis"
	"github.com/joripage/matchengine/pkg/kafkautil"
	"github.com/joripage/matchengine/pkg/oms"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type FixConfig struct {
	ConfigFilepath string `yaml:"config_filepath"`
}

type DepthConfig struct {
	RefreshIntervalMs int64 `yaml:"refresh_interval_ms"`
	MaxLevels         int   `yaml:"max_levels"`
}

type AppConfig struct {
	ServiceName string                           `yaml:"service_name"`
	OmsDB       *postgres_wrapper.PostgresConfig `yaml:"oms_db"`
	Redis       *redis_wrapper.RedisConfig       `yaml:"redis"`
	Kafka       *kafkautil.ProducerConfig        `yaml:"kafka"`
	Consumer    *kafkautil.ConsumerConfig        `yaml:"consumer"`
	Fix         *FixConfig                       `yaml:"fix"`
	Engine      *oms.Config                      `yaml:"engine"`
	Depth       *DepthConfig                     `yaml:"depth"`

	RiskRulesFile string `yaml:"risk_rules_file"`
}

// Load load config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")
	zap.S().Debugf("CONFIG_FILE=%v", filePath)

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}
