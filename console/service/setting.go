// Package service contains the console-side services backing the shell:
// settings persistence and host status reporting.
package service

import (
	"strconv"
	"time"

	"github.com/relayforge/gateway-console/database"
	"github.com/relayforge/gateway-console/database/model"
	"github.com/relayforge/gateway-console/logger"
	"github.com/relayforge/gateway-console/util/common"
	"github.com/relayforge/gateway-console/util/random"
)

var defaultValueMap = map[string]string{
	"webListen":     "",
	"webPort":       "2090",
	"gatewayURL":    "http://127.0.0.1:3000",
	"secret":        random.Seq(32),
	"sessionMaxAge": "60",
	"timeLocation":  "Local",
}

// SettingService reads and writes console settings in the settings table,
// falling back to defaults for unset keys.
type SettingService struct{}

func (s *SettingService) getSetting(key string) (*model.Setting, error) {
	db := database.GetDB()
	setting := &model.Setting{}
	err := db.Model(model.Setting{}).Where("key = ?", key).First(setting).Error
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *SettingService) saveSetting(key string, value string) error {
	setting, err := s.getSetting(key)
	db := database.GetDB()
	if database.IsNotFound(err) {
		return db.Create(&model.Setting{Key: key, Value: value}).Error
	} else if err != nil {
		return err
	}
	setting.Value = value
	return db.Save(setting).Error
}

func (s *SettingService) getString(key string) (string, error) {
	setting, err := s.getSetting(key)
	if database.IsNotFound(err) {
		value, ok := defaultValueMap[key]
		if !ok {
			return "", common.NewErrorf("unknown setting key: %v", key)
		}
		return value, nil
	} else if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (s *SettingService) setString(key string, value string) error {
	if _, ok := defaultValueMap[key]; !ok {
		return common.NewErrorf("unknown setting key: %v", key)
	}
	return s.saveSetting(key, value)
}

func (s *SettingService) getInt(key string) (int, error) {
	str, err := s.getString(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(str)
}

func (s *SettingService) setInt(key string, value int) error {
	return s.setString(key, strconv.Itoa(value))
}

func (s *SettingService) GetListen() (string, error) {
	return s.getString("webListen")
}

func (s *SettingService) SetListen(listen string) error {
	return s.setString("webListen", listen)
}

func (s *SettingService) GetPort() (int, error) {
	return s.getInt("webPort")
}

func (s *SettingService) SetPort(port int) error {
	return s.setInt("webPort", port)
}

// GetGatewayURL returns the base URL of the LLM-proxy gateway API.
func (s *SettingService) GetGatewayURL() (string, error) {
	return s.getString("gatewayURL")
}

func (s *SettingService) SetGatewayURL(url string) error {
	return s.setString("gatewayURL", url)
}

// GetSecret returns the shell cookie secret, generating and persisting
// one on first use.
func (s *SettingService) GetSecret() (string, error) {
	secret, err := s.getString("secret")
	if err != nil {
		return "", err
	}
	if _, lookupErr := s.getSetting("secret"); database.IsNotFound(lookupErr) {
		if saveErr := s.saveSetting("secret", secret); saveErr != nil {
			logger.Warning("failed to persist shell secret:", saveErr)
		}
	}
	return secret, nil
}

// GetSessionMaxAge returns the shell cookie lifetime in minutes.
func (s *SettingService) GetSessionMaxAge() (int, error) {
	return s.getInt("sessionMaxAge")
}

func (s *SettingService) GetTimeLocation() (*time.Location, error) {
	l, err := s.getString("timeLocation")
	if err != nil {
		return nil, err
	}
	location, err := time.LoadLocation(l)
	if err != nil {
		defaultLocation := defaultValueMap["timeLocation"]
		logger.Errorf("invalid time location %v, using %v", l, defaultLocation)
		return time.LoadLocation(defaultLocation)
	}
	return location, nil
}

// AllSettings returns the current settings for the CLI, with the secret
// redacted.
func (s *SettingService) AllSettings() (map[string]string, error) {
	out := make(map[string]string, len(defaultValueMap))
	for key := range defaultValueMap {
		if key == "secret" {
			continue
		}
		value, err := s.getString(key)
		if err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, nil
}

// ResetSettings removes all persisted settings, restoring defaults.
func (s *SettingService) ResetSettings() error {
	return database.GetDB().Where("1 = 1").Delete(model.Setting{}).Error
}
