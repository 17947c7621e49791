package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Storage   StorageConfig
	App       AppConfig
	Generator GeneratorConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	SummaryTTLSeconds int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type AppConfig struct {
	OutputDir string
	LogLevel  string
}

// GeneratorConfig carries every parameter of the four generative models.
// It is the single injected configuration object the core reads; the stages
// hold no implicit global state.
type GeneratorConfig struct {
	Seed      int64
	StartDate time.Time
	EndDate   time.Time

	// Regions is the fixed iteration order for every per-region loop.
	// The inventory ledger's running balance is order-sensitive, so this
	// order must stay stable across runs.
	Regions           []string
	WarehouseByRegion map[string]string
	NumSKUs           int

	Weather   WeatherConfig
	Demand    DemandConfig
	Inventory InventoryConfig
	Shipment  ShipmentConfig
}

type WeatherConfig struct {
	StormProbability  float64
	StormClusterDays  int
	BaseTempByRegion  map[string]float64
	SeasonalAmplitude float64
	TempNoiseStdDev   float64
	StormRainfallMin  float64
	StormRainfallMax  float64
	ClearRainfallMin  float64
	ClearRainfallMax  float64

	// StormRateWarnAbove is a statistical sanity threshold, not a hard
	// constraint: exceeding it logs a warning and generation proceeds.
	StormRateWarnAbove float64
}

type DemandConfig struct {
	BaseDemandMin       int
	BaseDemandMax       int
	BaseCostMin         float64
	BaseCostMax         float64
	MarginMin           float64
	MarginMax           float64
	WeekendMultiplier   float64
	SeasonalMultipliers map[time.Month]float64
	RegionMultiplierMin float64
	RegionMultiplierMax float64

	// MinPoissonRate floors the Poisson rate so the distribution stays
	// well-defined even when the expected demand rounds to zero.
	MinPoissonRate float64
}

type InventoryConfig struct {
	LeadTimeMin      int
	LeadTimeMax      int
	SafetyStockDays  int
	InitialStockDays int
	UnitCostMin      float64
	UnitCostMax      float64
}

type ShipmentConfig struct {
	DispatchDelayMin     int
	DispatchDelayMax     int
	TransitDaysMin       int
	TransitDaysMax       int
	BaseDelayProbability float64
	StormDelayIncrement  float64
	DelayDaysMin         int
	DelayDaysMax         int
	PartialProbability   float64
	PartialFractionMin   float64
	PartialFractionMax   float64
	BaseFreightCost      float64
	CostPerUnit          float64
	ExpediteMultiplier   float64
}

var (
	once     sync.Once
	instance *Config
)

// Load reads configuration from the environment (and .env if present),
// applying defaults where unset. The generator defaults reproduce the
// reference parameter set exactly.
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()

		v := viper.GetViper()
		setDefaults(v)
		v.AutomaticEnv()

		cfg, err := fromViper(v)
		if err != nil {
			panic(fmt.Sprintf("config: %v", err))
		}
		instance = cfg
	})

	return instance
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "supplysim")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_SUMMARY_TTL_SECONDS", 60)

	v.SetDefault("STORAGE_ENABLED", false)
	v.SetDefault("STORAGE_ENDPOINT", "")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "supplysim-datasets")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_USE_SSL", true)

	v.SetDefault("APP_OUTPUT_DIR", "./data")
	v.SetDefault("APP_LOG_LEVEL", "info")

	v.SetDefault("GEN_SEED", 42)
	v.SetDefault("GEN_START_DATE", "2023-01-01")
	v.SetDefault("GEN_END_DATE", "2023-12-31")
	v.SetDefault("GEN_REGIONS", []string{"North", "South", "East", "West"})
	v.SetDefault("GEN_NUM_SKUS", 20)

	v.SetDefault("GEN_STORM_PROBABILITY", 0.03)
	v.SetDefault("GEN_STORM_CLUSTER_DAYS", 3)
	v.SetDefault("GEN_STORM_RATE_WARN_ABOVE", 0.08)

	v.SetDefault("GEN_BASE_DEMAND_MIN", 5)
	v.SetDefault("GEN_BASE_DEMAND_MAX", 40)
	v.SetDefault("GEN_SKU_BASE_COST_MIN", 25.0)
	v.SetDefault("GEN_SKU_BASE_COST_MAX", 100.0)
	v.SetDefault("GEN_SKU_MARGIN_MIN", 0.15)
	v.SetDefault("GEN_SKU_MARGIN_MAX", 0.45)
	v.SetDefault("GEN_WEEKEND_MULTIPLIER", 1.2)

	v.SetDefault("GEN_LEAD_TIME_MIN", 3)
	v.SetDefault("GEN_LEAD_TIME_MAX", 10)
	v.SetDefault("GEN_SAFETY_STOCK_DAYS", 7)
	v.SetDefault("GEN_INITIAL_STOCK_DAYS", 25)

	v.SetDefault("GEN_BASE_DELAY_PROBABILITY", 0.1)
	v.SetDefault("GEN_STORM_DELAY_INCREMENT", 0.25)
	v.SetDefault("GEN_BASE_FREIGHT_COST", 50.0)
	v.SetDefault("GEN_COST_PER_UNIT", 2.0)
	v.SetDefault("GEN_EXPEDITE_MULTIPLIER", 1.5)
}

func fromViper(v *viper.Viper) (*Config, error) {
	gen, err := generatorFromViper(v)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Enabled:           v.GetBool("CACHE_ENABLED"),
			RedisURL:          v.GetString("REDIS_URL"),
			RedisHost:         v.GetString("REDIS_HOST"),
			RedisPort:         v.GetString("REDIS_PORT"),
			RedisPassword:     v.GetString("REDIS_PASSWORD"),
			RedisDB:           v.GetInt("REDIS_DB"),
			SummaryTTLSeconds: v.GetInt("CACHE_SUMMARY_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("STORAGE_ENABLED"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Region:    v.GetString("STORAGE_REGION"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
		},
		App: AppConfig{
			OutputDir: v.GetString("APP_OUTPUT_DIR"),
			LogLevel:  v.GetString("APP_LOG_LEVEL"),
		},
		Generator: gen,
	}, nil
}

func generatorFromViper(v *viper.Viper) (GeneratorConfig, error) {
	start, err := time.Parse("2006-01-02", v.GetString("GEN_START_DATE"))
	if err != nil {
		return GeneratorConfig{}, fmt.Errorf("invalid GEN_START_DATE: %w", err)
	}
	end, err := time.Parse("2006-01-02", v.GetString("GEN_END_DATE"))
	if err != nil {
		return GeneratorConfig{}, fmt.Errorf("invalid GEN_END_DATE: %w", err)
	}
	if end.Before(start) {
		return GeneratorConfig{}, fmt.Errorf("GEN_END_DATE %s precedes GEN_START_DATE %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	regions := v.GetStringSlice("GEN_REGIONS")
	if len(regions) == 0 {
		return GeneratorConfig{}, fmt.Errorf("GEN_REGIONS must not be empty")
	}

	numSKUs := v.GetInt("GEN_NUM_SKUS")
	if numSKUs < 1 {
		return GeneratorConfig{}, fmt.Errorf("GEN_NUM_SKUS must be >= 1, got %d", numSKUs)
	}

	baseTemps := defaultBaseTemperatures()
	for _, r := range regions {
		if _, ok := baseTemps[r]; !ok {
			baseTemps[r] = 20.0
		}
	}

	gen := GeneratorConfig{
		Seed:              v.GetInt64("GEN_SEED"),
		StartDate:         start,
		EndDate:           end,
		Regions:           regions,
		WarehouseByRegion: defaultWarehouses(regions),
		NumSKUs:           numSKUs,
		Weather: WeatherConfig{
			StormProbability:   v.GetFloat64("GEN_STORM_PROBABILITY"),
			StormClusterDays:   v.GetInt("GEN_STORM_CLUSTER_DAYS"),
			BaseTempByRegion:   baseTemps,
			SeasonalAmplitude:  10.0,
			TempNoiseStdDev:    1.5,
			StormRainfallMin:   30.0,
			StormRainfallMax:   120.0,
			ClearRainfallMin:   0.0,
			ClearRainfallMax:   8.0,
			StormRateWarnAbove: v.GetFloat64("GEN_STORM_RATE_WARN_ABOVE"),
		},
		Demand: DemandConfig{
			BaseDemandMin:       v.GetInt("GEN_BASE_DEMAND_MIN"),
			BaseDemandMax:       v.GetInt("GEN_BASE_DEMAND_MAX"),
			BaseCostMin:         v.GetFloat64("GEN_SKU_BASE_COST_MIN"),
			BaseCostMax:         v.GetFloat64("GEN_SKU_BASE_COST_MAX"),
			MarginMin:           v.GetFloat64("GEN_SKU_MARGIN_MIN"),
			MarginMax:           v.GetFloat64("GEN_SKU_MARGIN_MAX"),
			WeekendMultiplier:   v.GetFloat64("GEN_WEEKEND_MULTIPLIER"),
			SeasonalMultipliers: defaultSeasonalMultipliers(),
			RegionMultiplierMin: 0.85,
			RegionMultiplierMax: 1.15,
			MinPoissonRate:      0.1,
		},
		Inventory: InventoryConfig{
			LeadTimeMin:      v.GetInt("GEN_LEAD_TIME_MIN"),
			LeadTimeMax:      v.GetInt("GEN_LEAD_TIME_MAX"),
			SafetyStockDays:  v.GetInt("GEN_SAFETY_STOCK_DAYS"),
			InitialStockDays: v.GetInt("GEN_INITIAL_STOCK_DAYS"),
			UnitCostMin:      v.GetFloat64("GEN_SKU_BASE_COST_MIN"),
			UnitCostMax:      v.GetFloat64("GEN_SKU_BASE_COST_MAX"),
		},
		Shipment: ShipmentConfig{
			DispatchDelayMin:     1,
			DispatchDelayMax:     2,
			TransitDaysMin:       2,
			TransitDaysMax:       5,
			BaseDelayProbability: v.GetFloat64("GEN_BASE_DELAY_PROBABILITY"),
			StormDelayIncrement:  v.GetFloat64("GEN_STORM_DELAY_INCREMENT"),
			DelayDaysMin:         1,
			DelayDaysMax:         3,
			PartialProbability:   0.1,
			PartialFractionMin:   0.6,
			PartialFractionMax:   0.9,
			BaseFreightCost:      v.GetFloat64("GEN_BASE_FREIGHT_COST"),
			CostPerUnit:          v.GetFloat64("GEN_COST_PER_UNIT"),
			ExpediteMultiplier:   v.GetFloat64("GEN_EXPEDITE_MULTIPLIER"),
		},
	}

	return gen, nil
}

// DefaultGenerator returns the reference generator parameter set without
// consulting the environment. Tests and library callers use this directly.
func DefaultGenerator() GeneratorConfig {
	v := viper.New()
	setDefaults(v)
	gen, err := generatorFromViper(v)
	if err != nil {
		// Defaults are compiled in; a parse failure here is a programming error.
		panic(err)
	}
	return gen
}

// SKUIDs derives the fixed SKU catalog (SKU_001..SKU_NNN) for the horizon.
func (g GeneratorConfig) SKUIDs() []string {
	ids := make([]string, g.NumSKUs)
	for i := range ids {
		ids[i] = fmt.Sprintf("SKU_%03d", i+1)
	}
	return ids
}

// Dates returns every day of the horizon in ascending order.
func (g GeneratorConfig) Dates() []time.Time {
	var dates []time.Time
	for d := g.StartDate; !d.After(g.EndDate); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func defaultWarehouses(regions []string) map[string]string {
	known := map[string]string{
		"North": "WH_NORTH",
		"South": "WH_SOUTH",
		"East":  "WH_EAST",
		"West":  "WH_WEST",
	}
	out := make(map[string]string, len(regions))
	for _, r := range regions {
		if wh, ok := known[r]; ok {
			out[r] = wh
		} else {
			out[r] = "WH_" + sanitizeWarehouseSuffix(r)
		}
	}
	return out
}

func sanitizeWarehouseSuffix(region string) string {
	out := make([]rune, 0, len(region))
	for _, r := range region {
		switch {
		case r >= 'a' && r <= 'z':
			out = append(out, r-'a'+'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

func defaultBaseTemperatures() map[string]float64 {
	return map[string]float64{
		"North": 18,
		"South": 28,
		"East":  24,
		"West":  22,
	}
}

func defaultSeasonalMultipliers() map[time.Month]float64 {
	return map[time.Month]float64{
		time.January:   0.9,
		time.February:  0.95,
		time.March:     1.0,
		time.April:     1.05,
		time.May:       1.1,
		time.June:      1.15,
		time.July:      1.2,
		time.August:    1.15,
		time.September: 1.1,
		time.October:   1.05,
		time.November:  1.2,
		time.December:  1.3,
	}
}
