package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SettingKey names a kind of setting. Each key has exactly one value type.
type SettingKey string

const (
	SettingProfile     SettingKey = "profile"
	SettingCredentials SettingKey = "credentials"
)

var ErrUnknownSetting = errors.New("unknown setting key")

// Credentials hold the local login verifier.
type Credentials struct {
	Username string `json:"username"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

// Setting is a tagged union over the known setting kinds. Only the field
// matching Key is set. It encodes as {"key": ..., "value": ...}.
type Setting struct {
	Key         SettingKey
	Profile     *CompanyProfile
	Credentials *Credentials
}

func ProfileSetting(p CompanyProfile) Setting {
	return Setting{Key: SettingProfile, Profile: &p}
}

func CredentialsSetting(c Credentials) Setting {
	return Setting{Key: SettingCredentials, Credentials: &c}
}

// Value returns the populated variant.
func (s Setting) Value() (any, error) {
	switch s.Key {
	case SettingProfile:
		if s.Profile == nil {
			return nil, fmt.Errorf("setting %q has no value", s.Key)
		}
		return s.Profile, nil
	case SettingCredentials:
		if s.Credentials == nil {
			return nil, fmt.Errorf("setting %q has no value", s.Key)
		}
		return s.Credentials, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSetting, s.Key)
}

// EncodeValue marshals only the value part, as stored in the settings table.
func (s Setting) EncodeValue() ([]byte, error) {
	v, err := s.Value()
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// DecodeSetting rebuilds a Setting from its key and encoded value.
func DecodeSetting(key SettingKey, raw []byte) (Setting, error) {
	s := Setting{Key: key}
	switch key {
	case SettingProfile:
		s.Profile = &CompanyProfile{}
		if err := json.Unmarshal(raw, s.Profile); err != nil {
			return Setting{}, fmt.Errorf("decode %s: %w", key, err)
		}
	case SettingCredentials:
		s.Credentials = &Credentials{}
		if err := json.Unmarshal(raw, s.Credentials); err != nil {
			return Setting{}, fmt.Errorf("decode %s: %w", key, err)
		}
	default:
		return Setting{}, fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	return s, nil
}

type settingJSON struct {
	Key   SettingKey      `json:"key"`
	Value json.RawMessage `json:"value"`
}

func (s Setting) MarshalJSON() ([]byte, error) {
	v, err := s.EncodeValue()
	if err != nil {
		return nil, err
	}
	return json.Marshal(settingJSON{Key: s.Key, Value: v})
}

func (s *Setting) UnmarshalJSON(data []byte) error {
	var raw settingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := DecodeSetting(raw.Key, raw.Value)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}
