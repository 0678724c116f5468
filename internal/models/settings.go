package models

import "encoding/json"

// DefaultCurrencySymbol is the peso sign.
const DefaultCurrencySymbol = "₱"

// AppSettings is the process-wide user settings record.
type AppSettings struct {
	DefaultOCMPercent    float64 `json:"defaultOcmPercent"`
	DefaultProfitPercent float64 `json:"defaultProfitPercent"`
	DefaultTaxPercent    float64 `json:"defaultTaxPercent"`
	CurrencySymbol       string  `json:"currencySymbol"`
	RemoteURL            string  `json:"remoteUrl"`
	RemoteAPIKey         string  `json:"remoteApiKey"`
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() AppSettings {
	return AppSettings{
		DefaultOCMPercent:    DefaultOCMPercent,
		DefaultProfitPercent: DefaultProfitPercent,
		DefaultTaxPercent:    DefaultTaxPercent,
		CurrencySymbol:       DefaultCurrencySymbol,
	}
}

// DefaultRates returns the settings' default markups as IndirectRates.
func (s AppSettings) DefaultRates() IndirectRates {
	return IndirectRates{
		OCMPercent:    s.DefaultOCMPercent,
		ProfitPercent: s.DefaultProfitPercent,
		TaxPercent:    s.DefaultTaxPercent,
	}
}

// RemoteConfigured reports whether both remote-store credentials are set.
func (s AppSettings) RemoteConfigured() bool {
	return s.RemoteURL != "" && s.RemoteAPIKey != ""
}

// SettingsPatch holds the replaceable fields of AppSettings.
type SettingsPatch struct {
	DefaultOCMPercent    *float64 `json:"defaultOcmPercent,omitempty"`
	DefaultProfitPercent *float64 `json:"defaultProfitPercent,omitempty"`
	DefaultTaxPercent    *float64 `json:"defaultTaxPercent,omitempty"`
	CurrencySymbol       *string  `json:"currencySymbol,omitempty"`
	RemoteURL            *string  `json:"remoteUrl,omitempty"`
	RemoteAPIKey         *string  `json:"remoteApiKey,omitempty"`
}

// Apply merges the patch into s.
func (p SettingsPatch) Apply(s *AppSettings) {
	if p.DefaultOCMPercent != nil {
		s.DefaultOCMPercent = *p.DefaultOCMPercent
	}
	if p.DefaultProfitPercent != nil {
		s.DefaultProfitPercent = *p.DefaultProfitPercent
	}
	if p.DefaultTaxPercent != nil {
		s.DefaultTaxPercent = *p.DefaultTaxPercent
	}
	if p.CurrencySymbol != nil {
		s.CurrencySymbol = *p.CurrencySymbol
	}
	if p.RemoteURL != nil {
		s.RemoteURL = *p.RemoteURL
	}
	if p.RemoteAPIKey != nil {
		s.RemoteAPIKey = *p.RemoteAPIKey
	}
}

// UnmarshalJSON also accepts the supabaseUrl and supabaseAnonKey keys written
// by older exports. The current keys win when both are present.
func (s *AppSettings) UnmarshalJSON(data []byte) error {
	type plain AppSettings
	if err := json.Unmarshal(data, (*plain)(s)); err != nil {
		return err
	}
	url, key, err := legacyRemoteKeys(data)
	if err != nil {
		return err
	}
	if url != nil {
		s.RemoteURL = *url
	}
	if key != nil {
		s.RemoteAPIKey = *key
	}
	return nil
}

// UnmarshalJSON also accepts the legacy remote-store keys, see AppSettings.
func (p *SettingsPatch) UnmarshalJSON(data []byte) error {
	type plain SettingsPatch
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	url, key, err := legacyRemoteKeys(data)
	if err != nil {
		return err
	}
	if url != nil {
		p.RemoteURL = url
	}
	if key != nil {
		p.RemoteAPIKey = key
	}
	return nil
}

// legacyRemoteKeys returns the legacy remote-store values of data whose
// current key is absent.
func legacyRemoteKeys(data []byte) (url, key *string, err error) {
	var keys struct {
		RemoteURL    *string `json:"remoteUrl"`
		RemoteAPIKey *string `json:"remoteApiKey"`
		LegacyURL    *string `json:"supabaseUrl"`
		LegacyKey    *string `json:"supabaseAnonKey"`
	}
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, nil, err
	}
	if keys.RemoteURL == nil {
		url = keys.LegacyURL
	}
	if keys.RemoteAPIKey == nil {
		key = keys.LegacyKey
	}
	return url, key, nil
}
