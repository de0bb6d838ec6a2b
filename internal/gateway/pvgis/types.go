package pvgis

import "encoding/json"

// ============================================================
// PVcalc Response
// ============================================================

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}

type MeteoData struct {
	RadiationDB string `json:"radiation_db"`
	MeteoDB     string `json:"meteo_db"`
	YearMin     int    `json:"year_min"`
	YearMax     int    `json:"year_max"`
	UseHorizon  bool   `json:"use_horizon"`
	HorizonDB   string `json:"horizon_db"`
}

type PVModule struct {
	Technology string  `json:"technology"`
	PeakPower  float64 `json:"peak_power"`
	SystemLoss float64 `json:"system_loss"`
}

type EconomicData struct {
	SystemCost float64 `json:"system_cost"`
	Interest   float64 `json:"interest"`
	Lifetime   int     `json:"lifetime"`
}

// MonthlyData - средние значения по месяцу.
type MonthlyData struct {
	Month int     `json:"month"`
	Ed    float64 `json:"E_d"`    // кВт·ч/сут
	Em    float64 `json:"E_m"`    // кВт·ч/мес
	Hid   float64 `json:"H(i)_d"` // кВт·ч/м²/сут
	Him   float64 `json:"H(i)_m"` // кВт·ч/м²/мес
	SDm   float64 `json:"SD_m"`
}

// Totals - годовые итоги и потери.
type Totals struct {
	Ed     float64 `json:"E_d"`
	Em     float64 `json:"E_m"`
	Ey     float64 `json:"E_y"`
	Hid    float64 `json:"H(i)_d"`
	Him    float64 `json:"H(i)_m"`
	Hiy    float64 `json:"H(i)_y"`
	SDm    float64 `json:"SD_m"`
	SDy    float64 `json:"SD_y"`
	LAOI   float64 `json:"l_aoi"`
	LSpec  string  `json:"l_spec"`
	LTG    float64 `json:"l_tg"`
	LTotal float64 `json:"l_total"`
	LCOEpv float64 `json:"LCOE_pv,omitempty"`
}

// CalcResponse - разобранный ответ PVcalc. Блок meta не разбирается,
// Raw хранит исходный JSON целиком для отдачи клиенту.
type CalcResponse struct {
	Inputs struct {
		Location     Location      `json:"location"`
		MeteoData    MeteoData     `json:"meteo_data"`
		PVModule     PVModule      `json:"pv_module"`
		EconomicData *EconomicData `json:"economic_data,omitempty"`
	} `json:"inputs"`
	Outputs struct {
		Monthly struct {
			Fixed []MonthlyData `json:"fixed"`
		} `json:"monthly"`
		Totals struct {
			Fixed Totals `json:"fixed"`
		} `json:"totals"`
	} `json:"outputs"`

	Raw json.RawMessage `json:"-"`
}

// Envelope - ответ gateway: либо данные, либо сообщение об ошибке.
type Envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

func Success(data json.RawMessage) Envelope {
	return Envelope{Status: "success", Data: data}
}

func Failure(message string) Envelope {
	return Envelope{Status: "error", Message: message}
}
