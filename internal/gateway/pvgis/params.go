package pvgis

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ============================================================
// PVcalc Parameters
// ============================================================

// Endpoint - инструменты PVGIS API.
type Endpoint string

const (
	EndpointPVCalc       Endpoint = "PVcalc"
	EndpointSHSCalc      Endpoint = "SHScalc"
	EndpointMRCalc       Endpoint = "MRcalc"
	EndpointDRCalc       Endpoint = "DRcalc"
	EndpointSeriesCalc   Endpoint = "seriescalc"
	EndpointTMY          Endpoint = "tmy"
	EndpointPrintHorizon Endpoint = "printhorizon"
)

var knownEndpoints = map[Endpoint]bool{
	EndpointPVCalc:       true,
	EndpointSHSCalc:      true,
	EndpointMRCalc:       true,
	EndpointDRCalc:       true,
	EndpointSeriesCalc:   true,
	EndpointTMY:          true,
	EndpointPrintHorizon: true,
}

func (e Endpoint) Valid() bool {
	return knownEndpoints[e]
}

var (
	techChoices     = map[string]bool{"crystSi": true, "CIS": true, "CdTe": true, "Unknown": true}
	mountingChoices = map[string]bool{"free": true, "building": true}
	radDatabases    = map[string]bool{
		"PVGIS-SARAH": true, "PVGIS-SARAH2": true, "PVGIS-SARAH3": true,
		"PVGIS-NSRDB": true, "PVGIS-ERA5": true, "PVGIS-COSMO": true, "PVGIS-CMSAF": true,
	}
)

var ErrInvalidParams = errors.New("invalid pvcalc parameters")

// Params - параметры сетевой фотоэлектрической системы (форма PVcalc).
type Params struct {
	Lat                float64 `json:"lat"`
	Lon                float64 `json:"lon"`
	PeakPower          float64 `json:"peakpower"`
	Loss               float64 `json:"loss"`
	PVTechChoice       string  `json:"pvtechchoice"`
	MountingPlace      string  `json:"mountingplace"`
	Angle              float64 `json:"angle"`
	Aspect             float64 `json:"aspect"`
	RadDatabase        string  `json:"raddatabase"`
	UseHorizon         bool    `json:"usehorizon"`
	OptimalInclination bool    `json:"optimalinclination"`
	OptimalAngles      bool    `json:"optimalangles"`
	PVPrice            bool    `json:"pvprice"`
	SystemCost         float64 `json:"systemcost"`
	Interest           float64 `json:"interest"`
	Lifetime           int     `json:"lifetime"`
}

// DefaultParams - значения формы по умолчанию (Цюрих, 5 кВт).
func DefaultParams() Params {
	return Params{
		Lat:           47.37,
		Lon:           8.55,
		PeakPower:     5,
		Loss:          14,
		PVTechChoice:  "crystSi",
		MountingPlace: "building",
		Angle:         35,
		Aspect:        0,
		RadDatabase:   "PVGIS-ERA5",
		UseHorizon:    true,
		PVPrice:       true,
		SystemCost:    6000,
		Interest:      2.5,
		Lifetime:      25,
	}
}

// Validate проверяет диапазоны и перечисления.
func (p Params) Validate() error {
	switch {
	case p.Lat < -90 || p.Lat > 90:
		return fmt.Errorf("%w: lat out of range", ErrInvalidParams)
	case p.Lon < -180 || p.Lon > 180:
		return fmt.Errorf("%w: lon out of range", ErrInvalidParams)
	case p.PeakPower <= 0:
		return fmt.Errorf("%w: peakpower must be positive", ErrInvalidParams)
	case p.Loss < 0 || p.Loss > 100:
		return fmt.Errorf("%w: loss must be 0..100", ErrInvalidParams)
	case p.Angle < 0 || p.Angle > 90:
		return fmt.Errorf("%w: angle must be 0..90", ErrInvalidParams)
	case p.Aspect < -180 || p.Aspect > 180:
		return fmt.Errorf("%w: aspect must be -180..180", ErrInvalidParams)
	case !techChoices[p.PVTechChoice]:
		return fmt.Errorf("%w: unknown pvtechchoice %q", ErrInvalidParams, p.PVTechChoice)
	case !mountingChoices[p.MountingPlace]:
		return fmt.Errorf("%w: unknown mountingplace %q", ErrInvalidParams, p.MountingPlace)
	case !radDatabases[p.RadDatabase]:
		return fmt.Errorf("%w: unknown raddatabase %q", ErrInvalidParams, p.RadDatabase)
	}

	if p.PVPrice {
		switch {
		case p.SystemCost <= 0:
			return fmt.Errorf("%w: systemcost must be positive", ErrInvalidParams)
		case p.Interest < 0:
			return fmt.Errorf("%w: interest must not be negative", ErrInvalidParams)
		case p.Lifetime <= 0:
			return fmt.Errorf("%w: lifetime must be positive", ErrInvalidParams)
		}
	}
	return nil
}

// Query кодирует параметры в query string PVcalc. Флаги уходят как 0/1,
// экономические поля - только при включённом pvprice.
func (p Params) Query() url.Values {
	q := url.Values{}
	q.Set("lat", formatFloat(p.Lat))
	q.Set("lon", formatFloat(p.Lon))
	q.Set("peakpower", formatFloat(p.PeakPower))
	q.Set("loss", formatFloat(p.Loss))
	q.Set("pvtechchoice", p.PVTechChoice)
	q.Set("mountingplace", p.MountingPlace)
	q.Set("angle", formatFloat(p.Angle))
	q.Set("aspect", formatFloat(p.Aspect))
	q.Set("raddatabase", p.RadDatabase)
	q.Set("usehorizon", flag(p.UseHorizon))
	q.Set("optimalinclination", flag(p.OptimalInclination))
	q.Set("optimalangles", flag(p.OptimalAngles))

	if p.PVPrice {
		q.Set("pvprice", "1")
		q.Set("systemcost", formatFloat(p.SystemCost))
		q.Set("interest", formatFloat(p.Interest))
		q.Set("lifetime", strconv.Itoa(p.Lifetime))
	}

	q.Set("outputformat", "json")
	return q
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
