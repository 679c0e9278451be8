package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Panel   PanelConfig   `mapstructure:"panel"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Impact  ImpactConfig  `mapstructure:"impact"`
	Storage StorageConfig `mapstructure:"storage"`
	Report  ReportConfig  `mapstructure:"report"`
	API     APIConfig     `mapstructure:"api"`
	MQTT    MQTTConfig    `mapstructure:"mqtt"`
}

type PanelConfig struct {
	RatedWatts float64 `mapstructure:"rated_watts"`
}

type EngineConfig struct {
	DegradationThreshold float64       `mapstructure:"degradation_threshold"`
	TemperatureThreshold float64       `mapstructure:"temperature_threshold"`
	AlertRetention       time.Duration `mapstructure:"alert_retention"`
	AverageWindow        time.Duration `mapstructure:"average_window"`
	MinSamples           int           `mapstructure:"min_samples"`
}

type ImpactConfig struct {
	CO2PerKWh       float64 `mapstructure:"co2_per_kwh"`
	TreesPerKWh     float64 `mapstructure:"trees_per_kwh"`
	HoursPerReading float64 `mapstructure:"hours_per_reading"`
}

type StorageConfig struct {
	Backend   string        `mapstructure:"backend"`
	Path      string        `mapstructure:"path"`
	Retention time.Duration `mapstructure:"retention"`
}

type ReportConfig struct {
	OutputPath string `mapstructure:"output_path"`
}

type APIConfig struct {
	Port    int  `mapstructure:"port"`
	Enabled bool `mapstructure:"enabled"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
}

func Load(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/solarwatch")
	}

	// Set defaults
	viper.SetDefault("panel.rated_watts", 300.0)
	viper.SetDefault("engine.degradation_threshold", 0.05)
	viper.SetDefault("engine.temperature_threshold", 70.0)
	viper.SetDefault("engine.alert_retention", "168h")
	viper.SetDefault("engine.average_window", "720h")
	viper.SetDefault("engine.min_samples", 30)
	viper.SetDefault("impact.co2_per_kwh", 0.4)
	viper.SetDefault("impact.trees_per_kwh", 0.01)
	viper.SetDefault("impact.hours_per_reading", 1.0)
	viper.SetDefault("storage.backend", "memory")
	viper.SetDefault("storage.path", "./solarwatch.db")
	viper.SetDefault("storage.retention", "0s")
	viper.SetDefault("report.output_path", "environmental_impact.html")
	viper.SetDefault("api.port", 8046)
	viper.SetDefault("api.enabled", true)
	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("mqtt.topic_prefix", "solarwatch")
	viper.SetDefault("mqtt.client_id", "solarwatch")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
