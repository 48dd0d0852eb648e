package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Policy holds the administrative rules operators may tune without a redeploy.
type Policy struct {
	Tiers      TierPolicy       `mapstructure:"tiers"`
	Fees       FeePolicy        `mapstructure:"fees"`
	Tickets    TicketPolicy     `mapstructure:"tickets"`
	Pagination PaginationPolicy `mapstructure:"pagination"`
}

type TierPolicy struct {
	EnforceMonotonic bool `mapstructure:"enforceMonotonic"`
}

type FeePolicy struct {
	// MaxPercentage is the upper bound for percentage fees, as a fraction.
	MaxPercentage string `mapstructure:"maxPercentage"`
}

type TicketPolicy struct {
	NumberPrefix  string `mapstructure:"numberPrefix"`
	NumberLength  int    `mapstructure:"numberLength"`
	NumberRetries int    `mapstructure:"numberRetries"`
}

type PaginationPolicy struct {
	DefaultLimit int `mapstructure:"defaultLimit"`
	MaxLimit     int `mapstructure:"maxLimit"`
}

func DefaultPolicy() Policy {
	return Policy{
		Tiers: TierPolicy{EnforceMonotonic: true},
		Fees:  FeePolicy{MaxPercentage: "1"},
		Tickets: TicketPolicy{
			NumberPrefix:  "TKT",
			NumberLength:  8,
			NumberRetries: 5,
		},
		Pagination: PaginationPolicy{
			DefaultLimit: 20,
			MaxLimit:     100,
		},
	}
}

// MaxPercentageValue parses the configured cap; validated policies always parse.
func (p FeePolicy) MaxPercentageValue() decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(p.MaxPercentage))
	if err != nil {
		return decimal.NewFromInt(1)
	}
	return value
}

type PolicyHolder struct {
	current atomic.Value // holds Policy
}

// NewStaticPolicyHolder returns a holder that never reloads.
func NewStaticPolicyHolder(p Policy) *PolicyHolder {
	holder := &PolicyHolder{}
	holder.current.Store(p)
	return holder
}

func NewPolicyHolder(cfg Config, log *zap.Logger) (*PolicyHolder, error) {
	v := viper.New()

	if cfg.PolicyConfigPath != "" {
		v.SetConfigFile(cfg.PolicyConfigPath)
	} else {
		v.SetConfigName("policy")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/voouch")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("VOOUCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPolicy()
	v.SetDefault("policy.tiers.enforceMonotonic", defaults.Tiers.EnforceMonotonic)
	v.SetDefault("policy.fees.maxPercentage", defaults.Fees.MaxPercentage)
	v.SetDefault("policy.tickets.numberPrefix", defaults.Tickets.NumberPrefix)
	v.SetDefault("policy.tickets.numberLength", defaults.Tickets.NumberLength)
	v.SetDefault("policy.tickets.numberRetries", defaults.Tickets.NumberRetries)
	v.SetDefault("policy.pagination.defaultLimit", defaults.Pagination.DefaultLimit)
	v.SetDefault("policy.pagination.maxLimit", defaults.Pagination.MaxLimit)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileLoaded = false
	}

	policy, err := decodePolicy(v)
	if err != nil {
		return nil, err
	}
	if err := ValidatePolicy(policy); err != nil {
		return nil, err
	}

	holder := NewStaticPolicyHolder(policy)
	if !fileLoaded {
		log.Info("policy file not found, using defaults")
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodePolicy(v)
		if err != nil {
			log.Warn("policy reload failed", zap.Error(err))
			return
		}
		if err := ValidatePolicy(updated); err != nil {
			log.Warn("invalid policy ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("policy reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

// decodePolicy unmarshals the whole tree so defaults fill keys the file omits.
func decodePolicy(v *viper.Viper) (Policy, error) {
	var root struct {
		Policy Policy `mapstructure:"policy"`
	}
	if err := v.Unmarshal(&root); err != nil {
		return Policy{}, err
	}
	return root.Policy, nil
}

func (h *PolicyHolder) Get() Policy {
	if h == nil {
		return DefaultPolicy()
	}
	return h.current.Load().(Policy)
}

func ValidatePolicy(p Policy) error {
	maxPct, err := decimal.NewFromString(strings.TrimSpace(p.Fees.MaxPercentage))
	if err != nil {
		return fmt.Errorf("policy.fees.maxPercentage: %w", err)
	}
	if !maxPct.IsPositive() || maxPct.GreaterThan(decimal.NewFromInt(1)) {
		return errors.New("policy.fees.maxPercentage must be in (0, 1]")
	}
	if strings.TrimSpace(p.Tickets.NumberPrefix) == "" {
		return errors.New("policy.tickets.numberPrefix cannot be empty")
	}
	if p.Tickets.NumberLength < 4 || p.Tickets.NumberLength > 16 {
		return errors.New("policy.tickets.numberLength must be between 4 and 16")
	}
	if p.Tickets.NumberRetries < 1 {
		return errors.New("policy.tickets.numberRetries must be at least 1")
	}
	if p.Pagination.DefaultLimit < 1 || p.Pagination.MaxLimit < p.Pagination.DefaultLimit {
		return errors.New("policy.pagination limits are inconsistent")
	}
	return nil
}
