package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"energy-market/internal/data"
	"energy-market/internal/market"
	"energy-market/internal/model"
	"energy-market/internal/simulation"
	"energy-market/internal/strategy"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk scenario shape (YAML). The same shape is accepted as
// JSON by the HTTP API.
type Config struct {
	Market        MarketConfig        `yaml:"market" json:"market"`
	Participants  ParticipantsConfig  `yaml:"participants" json:"participants"`
	OTCContracts  []OTCContractConfig `yaml:"otc_contracts" json:"otc_contracts,omitempty"`
	Strategy      StrategyConfig      `yaml:"strategy" json:"strategy"`
	BatteryPolicy string              `yaml:"battery_policy" json:"battery_policy"`
	Seed          int64               `yaml:"seed" json:"seed"`
	Workers       int                 `yaml:"workers" json:"workers"`
	Log           LogConfig           `yaml:"log" json:"log"`
}

type MarketConfig struct {
	MinPrice        float64 `yaml:"min_price" json:"min_price"` // feed-in tariff
	MaxPrice        float64 `yaml:"max_price" json:"max_price"` // retail tariff
	TimeSlotsPerDay int     `yaml:"time_slots_per_day" json:"time_slots_per_day"`
	RoundsPerSlot   int     `yaml:"rounds_per_slot" json:"rounds_per_slot"`
	Days            int     `yaml:"days" json:"days"`
	Matching        string  `yaml:"matching" json:"matching"`
}

type ParticipantsConfig struct {
	NumConsumers    int     `yaml:"num_consumers" json:"num_consumers"`
	NumProsumers    int     `yaml:"num_prosumers" json:"num_prosumers"`
	BatteryCapacity float64 `yaml:"battery_capacity" json:"battery_capacity"` // kWh per prosumer
	// Optional JSON file with {"loads": [...], "pv": [...]}; synthetic profiles when empty.
	ProfileFile string `yaml:"profile_file" json:"profile_file,omitempty"`
	// Shape synthetic PV with a daylight bell instead of a flat draw.
	DaylightPV bool `yaml:"daylight_pv" json:"daylight_pv,omitempty"`
}

type OTCContractConfig struct {
	Buyer    string  `yaml:"buyer" json:"buyer"`
	Seller   string  `yaml:"seller" json:"seller"`
	Quantity float64 `yaml:"quantity" json:"quantity"`
	Price    float64 `yaml:"price" json:"price"`
}

type StrategyConfig struct {
	Name string `yaml:"name" json:"name"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug | info | warn | error
	Format string `yaml:"format" json:"format"` // text | json
}

// Default is the built-in configuration with no file or environment applied.
// Use Load("") for the configuration a run without a file should use.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// Load reads path, applies .env and environment overrides, fills defaults
// and validates the result. An empty path starts from the built-in defaults;
// the environment still applies.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads the config with overrides and defaults, but does not
// validate it. Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var c Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	if pf := c.Participants.ProfileFile; pf != "" && !filepath.IsAbs(pf) {
		// Prefer paths relative to the config file, fall back to cwd.
		cand := filepath.Join(filepath.Dir(path), pf)
		if _, err := os.Stat(cand); err == nil {
			c.Participants.ProfileFile = cand
		}
	}

	if err := applyEnvOverrides(&c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}

func applyEnvOverrides(c *Config) error {
	if v := os.Getenv("ENERGY_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("ENERGY_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v := os.Getenv("ENERGY_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ENERGY_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	return nil
}

// ApplyDefaults fills unset fields. Prices default only when both are unset,
// so a zero feed-in tariff can be configured explicitly.
func (c *Config) ApplyDefaults() {
	if c.Market.MinPrice == 0 && c.Market.MaxPrice == 0 {
		c.Market.MinPrice = 0.37
		c.Market.MaxPrice = 0.5
	}
	if c.Market.TimeSlotsPerDay == 0 {
		c.Market.TimeSlotsPerDay = 96
	}
	if c.Market.RoundsPerSlot == 0 {
		c.Market.RoundsPerSlot = 15
	}
	if c.Market.Days == 0 {
		c.Market.Days = 1
	}
	if c.Market.Matching == "" {
		c.Market.Matching = string(model.MatchRankPaired)
	}
	if c.Participants.NumConsumers == 0 && c.Participants.NumProsumers == 0 {
		c.Participants.NumConsumers = 18
		c.Participants.NumProsumers = 18
	}
	if c.Strategy.Name == "" {
		c.Strategy.Name = "zi"
	}
	if c.BatteryPolicy == "" {
		c.BatteryPolicy = string(model.BatteryNone)
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.MarketConfig().Validate(); err != nil {
		return fmt.Errorf("market: %w", err)
	}
	if c.Market.TimeSlotsPerDay <= 0 {
		return errors.New("market.time_slots_per_day must be > 0")
	}
	if c.Market.RoundsPerSlot <= 0 {
		return errors.New("market.rounds_per_slot must be > 0")
	}
	if c.Market.Days <= 0 {
		return errors.New("market.days must be > 0")
	}
	if c.Participants.NumConsumers < 0 || c.Participants.NumProsumers < 0 {
		return errors.New("participants counts must be >= 0")
	}
	if c.Participants.NumConsumers+c.Participants.NumProsumers == 0 {
		return errors.New("at least one participant is required")
	}
	if c.Participants.BatteryCapacity < 0 {
		return errors.New("participants.battery_capacity must be >= 0")
	}
	if _, err := strategy.New(c.Strategy.Name); err != nil {
		return fmt.Errorf("strategy.name: %w", err)
	}
	if _, err := model.ParseBatteryPolicy(c.BatteryPolicy); err != nil {
		return fmt.Errorf("battery_policy: %w", err)
	}
	if c.Workers < 0 {
		return errors.New("workers must be >= 0")
	}

	ids := map[string]bool{}
	for i := 0; i < c.Participants.NumConsumers; i++ {
		ids[simulation.ConsumerID(i)] = true
	}
	for i := 0; i < c.Participants.NumProsumers; i++ {
		ids[simulation.ProsumerID(i)] = true
	}
	for i, oc := range c.OTCContracts {
		if !ids[oc.Buyer] {
			return fmt.Errorf("otc_contracts[%d]: buyer %q: %w", i, oc.Buyer, model.ErrUnknownParticipant)
		}
		if !ids[oc.Seller] {
			return fmt.Errorf("otc_contracts[%d]: seller %q: %w", i, oc.Seller, model.ErrUnknownParticipant)
		}
		if oc.Quantity < 0 || oc.Price < 0 {
			return fmt.Errorf("otc_contracts[%d]: quantity and price must be >= 0", i)
		}
	}
	return nil
}

// MarketConfig converts the market section. Matching is parsed leniently
// here; Validate reports a bad value.
func (c *Config) MarketConfig() market.Config {
	mode, err := model.ParseMatchingMode(c.Market.Matching)
	if err != nil {
		mode = model.MatchingMode(c.Market.Matching)
	}
	return market.Config{
		MinPrice: c.Market.MinPrice,
		MaxPrice: c.Market.MaxPrice,
		Matching: mode,
	}
}

func (c *Config) Contracts() []market.OTCContract {
	out := make([]market.OTCContract, 0, len(c.OTCContracts))
	for _, oc := range c.OTCContracts {
		out = append(out, market.OTCContract{
			BuyerID:  oc.Buyer,
			SellerID: oc.Seller,
			Quantity: oc.Quantity,
			Price:    oc.Price,
		})
	}
	return out
}

// Scenario resolves the config into a runnable simulation scenario.
func (c *Config) Scenario() (simulation.Scenario, error) {
	if err := c.Validate(); err != nil {
		return simulation.Scenario{}, err
	}
	strat, err := strategy.New(c.Strategy.Name)
	if err != nil {
		return simulation.Scenario{}, err
	}
	policy, err := model.ParseBatteryPolicy(c.BatteryPolicy)
	if err != nil {
		return simulation.Scenario{}, err
	}

	synth := data.DefaultSynthetic()
	synth.Daylight = c.Participants.DaylightPV
	var profiles data.ProfileSource = synth
	if c.Participants.ProfileFile != "" {
		fp, err := data.NewFileProfiles(c.Participants.ProfileFile)
		if err != nil {
			return simulation.Scenario{}, fmt.Errorf("participants.profile_file: %w", err)
		}
		profiles = fp
	}

	return simulation.Scenario{
		Market:          c.MarketConfig(),
		SlotsPerDay:     c.Market.TimeSlotsPerDay,
		RoundsPerSlot:   c.Market.RoundsPerSlot,
		Days:            c.Market.Days,
		NumConsumers:    c.Participants.NumConsumers,
		NumProsumers:    c.Participants.NumProsumers,
		BatteryCapacity: c.Participants.BatteryCapacity,
		Contracts:       c.Contracts(),
		Strategy:        strat,
		Policy:          policy,
		Seed:            c.Seed,
		Workers:         c.Workers,
		Profiles:        profiles,
	}, nil
}

// Override is a partial Config for deriving variations. Nil fields keep the
// base value, so an explicit zero (a seed of 0, an empty battery) can be set.
// A nil OTCContracts keeps the base contracts; an empty list clears them.
type Override struct {
	Market        MarketOverride       `json:"market"`
	Participants  ParticipantsOverride `json:"participants"`
	OTCContracts  []OTCContractConfig  `json:"otc_contracts"`
	Strategy      StrategyOverride     `json:"strategy"`
	BatteryPolicy *string              `json:"battery_policy"`
	Seed          *int64               `json:"seed"`
	Workers       *int                 `json:"workers"`
}

type MarketOverride struct {
	MinPrice        *float64 `json:"min_price"`
	MaxPrice        *float64 `json:"max_price"`
	TimeSlotsPerDay *int     `json:"time_slots_per_day"`
	RoundsPerSlot   *int     `json:"rounds_per_slot"`
	Days            *int     `json:"days"`
	Matching        *string  `json:"matching"`
}

type ParticipantsOverride struct {
	NumConsumers    *int     `json:"num_consumers"`
	NumProsumers    *int     `json:"num_prosumers"`
	BatteryCapacity *float64 `json:"battery_capacity"`
	ProfileFile     *string  `json:"profile_file"`
	DaylightPV      *bool    `json:"daylight_pv"`
}

type StrategyOverride struct {
	Name *string `json:"name"`
}

// MergeScenario overlays the set fields of override onto base.
// Used by the compare endpoint and CLI to derive variations from a base scenario.
func MergeScenario(base Config, override Override) Config {
	out := base
	set(&out.Market.MinPrice, override.Market.MinPrice)
	set(&out.Market.MaxPrice, override.Market.MaxPrice)
	set(&out.Market.TimeSlotsPerDay, override.Market.TimeSlotsPerDay)
	set(&out.Market.RoundsPerSlot, override.Market.RoundsPerSlot)
	set(&out.Market.Days, override.Market.Days)
	set(&out.Market.Matching, override.Market.Matching)
	set(&out.Participants.NumConsumers, override.Participants.NumConsumers)
	set(&out.Participants.NumProsumers, override.Participants.NumProsumers)
	set(&out.Participants.BatteryCapacity, override.Participants.BatteryCapacity)
	set(&out.Participants.ProfileFile, override.Participants.ProfileFile)
	set(&out.Participants.DaylightPV, override.Participants.DaylightPV)
	if override.OTCContracts != nil {
		out.OTCContracts = append([]OTCContractConfig{}, override.OTCContracts...)
	}
	set(&out.Strategy.Name, override.Strategy.Name)
	set(&out.BatteryPolicy, override.BatteryPolicy)
	set(&out.Seed, override.Seed)
	set(&out.Workers, override.Workers)
	return out
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
