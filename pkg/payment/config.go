package payment

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the builder's fixed deployment configuration. Treasury and team
// are the well-known destination wallets baked into the deployed program
// configuration; the builder never lets a caller substitute them.
type Config struct {
	Treasury common.PublicKey
	Team     common.PublicKey

	ReferralServiceBaseUrl string
	SolanaRpcEndpoint      string
}

func (c *Config) Validate() error {
	var zero common.PublicKey
	if c.Treasury == zero {
		return errors.New("treasury address is required")
	}
	if c.Team == zero {
		return errors.New("team address is required")
	}
	if c.Treasury == c.Team {
		return errors.New("treasury and team addresses must differ")
	}
	return nil
}

type fileConfig struct {
	Treasury string `mapstructure:"treasury"`
	Team     string `mapstructure:"team"`

	ReferralServiceBaseUrl string `mapstructure:"referral_service_base_url"`
	SolanaRpcEndpoint      string `mapstructure:"solana_rpc_endpoint"`
}

// LoadConfig reads builder configuration from an optional config file with
// environment variable overrides.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("solana_rpc_endpoint", rpc.MainnetRPCEndpoint)

	_ = v.BindEnv("treasury", "DISTRIBUTION_TREASURY")
	_ = v.BindEnv("team", "DISTRIBUTION_TEAM")
	_ = v.BindEnv("referral_service_base_url", "REFERRAL_SERVICE_BASE_URL")
	_ = v.BindEnv("solana_rpc_endpoint", "SOLANA_RPC_ENDPOINT")

	if len(configPath) > 0 {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "error reading config file")
		}
	}

	var parsed fileConfig
	if err := v.Unmarshal(&parsed); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling config")
	}

	treasury, err := decodeAddress(parsed.Treasury)
	if err != nil {
		return nil, errors.Wrap(err, "invalid treasury address")
	}

	team, err := decodeAddress(parsed.Team)
	if err != nil {
		return nil, errors.Wrap(err, "invalid team address")
	}

	conf := &Config{
		Treasury:               treasury,
		Team:                   team,
		ReferralServiceBaseUrl: parsed.ReferralServiceBaseUrl,
		SolanaRpcEndpoint:      parsed.SolanaRpcEndpoint,
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func decodeAddress(value string) (common.PublicKey, error) {
	decoded, err := base58.Decode(value)
	if err != nil {
		return common.PublicKey{}, err
	}
	if len(decoded) != common.PublicKeyLength {
		return common.PublicKey{}, errors.Errorf("invalid address length: %d", len(decoded))
	}
	return common.PublicKeyFromBytes(decoded), nil
}
