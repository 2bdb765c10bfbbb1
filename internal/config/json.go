package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON config files.
// Durations are written as strings such as "6s".
type StructuredJSONConfig struct {
	App struct {
		Namespace string `json:"namespace"`
		Version   string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		Cache struct {
			DSN string `json:"dsn"`
		} `json:"cache,omitempty"`
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress       string   `json:"http_address"`
		RequestTimeout    Duration `json:"request_timeout"`
		Token             string   `json:"token"`
		ReconnectInterval Duration `json:"reconnect_interval"`
		PingInterval      Duration `json:"ping_interval"`
		Memory            bool     `json:"memory"`
	} `json:"adapter,omitempty"`

	Sync struct {
		FallbackTimeout Duration `json:"fallback_timeout"`
		GraceDelay      Duration `json:"grace_delay"`
	} `json:"sync,omitempty"`

	Broadcast struct {
		Mode         string `json:"mode"`
		GroupAddress string `json:"group_address"`
		Channel      string `json:"channel"`
	} `json:"broadcast,omitempty"`

	Auth struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
	} `json:"auth,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Namespace: jsonCfg.App.Namespace,
			Version:   jsonCfg.App.Version,
		},
		Storage: Storage{
			Cache: DB{DSN: jsonCfg.Storage.Cache.DSN},
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:       jsonCfg.Adapter.HTTPAddress,
			RequestTimeout:    time.Duration(jsonCfg.Adapter.RequestTimeout),
			Token:             jsonCfg.Adapter.Token,
			ReconnectInterval: time.Duration(jsonCfg.Adapter.ReconnectInterval),
			PingInterval:      time.Duration(jsonCfg.Adapter.PingInterval),
			Memory:            jsonCfg.Adapter.Memory,
		},
		Sync: Sync{
			FallbackTimeout: time.Duration(jsonCfg.Sync.FallbackTimeout),
			GraceDelay:      time.Duration(jsonCfg.Sync.GraceDelay),
		},
		Broadcast: Broadcast{
			Mode:         jsonCfg.Broadcast.Mode,
			GroupAddress: jsonCfg.Broadcast.GroupAddress,
			Channel:      jsonCfg.Broadcast.Channel,
		},
		Auth: Auth{
			TokenSignKey:  jsonCfg.Auth.TokenSignKey,
			TokenIssuer:   jsonCfg.Auth.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.Auth.TokenDuration),
		},
	}

	return cfg, nil
}

// Duration wraps time.Duration so JSON accepts strings like "6s" as well as
// nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
