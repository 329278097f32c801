package irc

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ConnectionState is the versioned, serializable record of a
// connection's configuration surface.
type ConnectionState struct {
	Version        int    `yaml:"version"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	UserName       string `yaml:"userName"`
	NickName       string `yaml:"nickName"`
	RealName       string `yaml:"realName"`
	Password       string `yaml:"password"`
	DisplayName    string `yaml:"displayName"`
	Encoding       string `yaml:"encoding"`
	Enabled        bool   `yaml:"enabled"`
	ReconnectDelay int    `yaml:"reconnectDelay"`
	Secure         bool   `yaml:"secure"`
	SASLMechanism  string `yaml:"saslMechanism"`
}

// CurrentStateVersion is the only ConnectionState.Version this package
// will restore.
const CurrentStateVersion = 1

// SaveState serializes the connection's configuration (not its runtime
// status) to the versioned YAML record.
func (c *Connection) SaveState(displayName string) ([]byte, error) {
	state := ConnectionState{
		Version:        CurrentStateVersion,
		Host:           c.Config.Host,
		Port:           c.Config.Port,
		UserName:       c.Config.UserName,
		NickName:       c.Config.NickName,
		RealName:       c.Config.RealName,
		Password:       c.Config.Password,
		DisplayName:    displayName,
		Encoding:       c.Config.Encoding,
		Enabled:        c.Config.Enabled,
		ReconnectDelay: c.Config.ReconnectDelaySeconds,
		Secure:         c.Config.Secure,
		SASLMechanism:  c.Config.SASLMechanism,
	}
	return yaml.Marshal(state)
}

// LoadState restores a Connection's Config from a previously saved
// record. It refuses a mismatched version.
func LoadState(data []byte) (Config, string, error) {
	var state ConnectionState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return Config{}, "", fmt.Errorf("irc: decode state: %w", err)
	}
	if state.Version != CurrentStateVersion {
		return Config{}, "", fmt.Errorf("irc: state version %d does not match %d", state.Version, CurrentStateVersion)
	}
	cfg := Config{
		Host:                  state.Host,
		Port:                  state.Port,
		UserName:              state.UserName,
		NickName:              state.NickName,
		RealName:              state.RealName,
		Password:              state.Password,
		Secure:                state.Secure,
		SASLMechanism:         state.SASLMechanism,
		Encoding:              state.Encoding,
		ReconnectDelaySeconds: state.ReconnectDelay,
		Enabled:               state.Enabled,
	}
	return cfg, state.DisplayName, nil
}

// Restore applies a previously saved state to c. It is refused while c
// is active.
func (c *Connection) Restore(data []byte) error {
	if c.Status().Active() {
		return errors.New("irc: cannot restore state while connection is active")
	}
	cfg, _, err := LoadState(data)
	if err != nil {
		return err
	}
	c.Config = cfg
	if cfg.Encoding != "" {
		_ = c.dec.SetFallback(cfg.Encoding)
	}
	return nil
}
