package simulate

import (
	"math"

	"github.com/rs/zerolog"

	"supplysim/internal/config"
	"supplysim/internal/domain"
	"supplysim/pkg/logger"
)

// WeatherModel produces the daily per-region weather series. Weather is
// external: it feeds logistics delays downstream but depends on nothing.
type WeatherModel struct {
	cfg config.GeneratorConfig
	log zerolog.Logger
}

func NewWeatherModel(cfg config.GeneratorConfig) *WeatherModel {
	return &WeatherModel{cfg: cfg, log: logger.With("weather")}
}

// Generate emits one RegionDay per (date, region), dates ascending within
// each region. Storms arrive as clustered episodes driven by a hidden
// days-remaining counter, not as independent daily noise.
func (m *WeatherModel) Generate() ([]domain.RegionDay, error) {
	rng := newStageRNG(m.cfg.Seed)
	wcfg := m.cfg.Weather
	dates := m.cfg.Dates()

	records := make([]domain.RegionDay, 0, len(dates)*len(m.cfg.Regions))
	stormDays := 0

	for _, region := range m.cfg.Regions {
		baseTemp := wcfg.BaseTempByRegion[region]
		stormDaysLeft := 0

		for _, date := range dates {
			stormFlag := 0
			if stormDaysLeft > 0 {
				stormFlag = 1
				stormDaysLeft--
			} else if rng.Float64() < wcfg.StormProbability {
				stormFlag = 1
				stormDaysLeft = intBetween(rng, 1, wcfg.StormClusterDays)
			}

			var rainfall float64
			if stormFlag == 1 {
				rainfall = uniform(rng, wcfg.StormRainfallMin, wcfg.StormRainfallMax)
				stormDays++
			} else {
				rainfall = uniform(rng, wcfg.ClearRainfallMin, wcfg.ClearRainfallMax)
			}

			seasonal := wcfg.SeasonalAmplitude * math.Sin(2*math.Pi*float64(date.YearDay())/365)
			temperature := baseTemp + seasonal + rng.NormFloat64()*wcfg.TempNoiseStdDev

			records = append(records, domain.RegionDay{
				Date:         date,
				Region:       region,
				RainfallMM:   round2(rainfall),
				StormFlag:    stormFlag,
				TemperatureC: round1(temperature),
			})
		}
	}

	if err := validateWeather(records, m.cfg); err != nil {
		return nil, err
	}

	stormRate := float64(stormDays) / float64(len(records))
	if stormRate > wcfg.StormRateWarnAbove {
		// Statistical sanity check only; generation proceeds.
		m.log.Warn().
			Float64("storm_rate", stormRate).
			Float64("threshold", wcfg.StormRateWarnAbove).
			Msg("storm frequency unusually high")
	}

	m.log.Info().Int("rows", len(records)).Float64("storm_rate", stormRate).Msg("weather series generated")
	return records, nil
}

// StormRate reports the realized fraction of storm days in a series.
func StormRate(weather []domain.RegionDay) float64 {
	if len(weather) == 0 {
		return 0
	}
	storms := 0
	for _, w := range weather {
		if w.StormFlag == 1 {
			storms++
		}
	}
	return float64(storms) / float64(len(weather))
}
