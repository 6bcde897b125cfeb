package dispatch

import (
	"fmt"

	"github.com/spf13/viper"
)

// DefaultHospitals is the built-in roster used when no hospitals file is
// configured. Coordinates cluster around the pilot deployment city.
func DefaultHospitals() []*Hospital {
	return []*Hospital{
		{Name: "City General Hospital", Lat: 23.2515, Lon: 77.4020, Capabilities: []string{"general", "emergency"}, Beds: 8},
		{Name: "Apex Cardiac Institute", Lat: 23.2733, Lon: 77.4380, Capabilities: []string{"cardiac", "icu", "emergency"}, Beds: 4},
		{Name: "Lakeview Trauma Center", Lat: 23.2380, Lon: 77.4265, Capabilities: []string{"trauma", "icu", "emergency"}, Beds: 6},
		{Name: "Greenfield Clinic", Lat: 23.2901, Lon: 77.3942, Capabilities: []string{"general"}, Beds: 10},
	}
}

// hospitalsFile mirrors the YAML shape of a hospitals roster file.
type hospitalsFile struct {
	Hospitals []struct {
		Name         string   `mapstructure:"name"`
		Lat          float64  `mapstructure:"lat"`
		Lon          float64  `mapstructure:"lon"`
		Capabilities []string `mapstructure:"capabilities"`
		Beds         int      `mapstructure:"beds"`
	} `mapstructure:"hospitals"`
}

// LoadHospitals reads a hospital roster from a YAML file. File order becomes
// the pool's tie-break order.
func LoadHospitals(path string) ([]*Hospital, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read hospitals file: %w", err)
	}

	var f hospitalsFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("unmarshal hospitals file: %w", err)
	}
	if len(f.Hospitals) == 0 {
		return nil, fmt.Errorf("hospitals file %s lists no hospitals", path)
	}

	out := make([]*Hospital, 0, len(f.Hospitals))
	for _, h := range f.Hospitals {
		if h.Name == "" {
			return nil, fmt.Errorf("hospitals file %s: entry with empty name", path)
		}
		if h.Beds < 0 {
			return nil, fmt.Errorf("hospital %s: negative bed count", h.Name)
		}
		out = append(out, &Hospital{
			Name:         h.Name,
			Lat:          h.Lat,
			Lon:          h.Lon,
			Capabilities: h.Capabilities,
			Beds:         h.Beds,
		})
	}
	return out, nil
}
