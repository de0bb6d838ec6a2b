package pvgis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleResponse = `{
  "inputs": {
    "location": {"latitude": 47.37, "longitude": 8.55, "elevation": 410},
    "meteo_data": {"radiation_db": "PVGIS-ERA5", "meteo_db": "ERA5", "year_min": 2005, "year_max": 2020, "use_horizon": true, "horizon_db": "DEM-calculated"},
    "pv_module": {"technology": "c-Si", "peak_power": 5, "system_loss": 14},
    "economic_data": {"system_cost": 6000, "interest": 2.5, "lifetime": 25}
  },
  "outputs": {
    "monthly": {"fixed": [
      {"month": 1, "E_d": 5.1, "E_m": 158.2, "H(i)_d": 1.3, "H(i)_m": 40.1, "SD_m": 30.2}
    ]},
    "totals": {"fixed": {"E_d": 15.2, "E_m": 462.3, "E_y": 5547.6, "H(i)_d": 3.7, "H(i)_m": 113.1, "H(i)_y": 1357.4, "SD_m": 40.1, "SD_y": 301.2, "l_aoi": -2.9, "l_spec": "1.2", "l_tg": -5.6, "l_total": -20.1, "LCOE_pv": 0.082}}
  },
  "meta": {}
}`

func TestQueryDefaults(t *testing.T) {
	q := DefaultParams().Query()

	want := map[string]string{
		"lat":                "47.37",
		"lon":                "8.55",
		"peakpower":          "5",
		"loss":               "14",
		"pvtechchoice":       "crystSi",
		"mountingplace":      "building",
		"angle":              "35",
		"aspect":             "0",
		"raddatabase":        "PVGIS-ERA5",
		"usehorizon":         "1",
		"optimalinclination": "0",
		"optimalangles":      "0",
		"pvprice":            "1",
		"systemcost":         "6000",
		"interest":           "2.5",
		"lifetime":           "25",
		"outputformat":       "json",
	}
	for key, value := range want {
		if got := q.Get(key); got != value {
			t.Errorf("%s = %q, want %q", key, got, value)
		}
	}
}

func TestQueryOmitsEconomicsWithoutPrice(t *testing.T) {
	p := DefaultParams()
	p.PVPrice = false

	q := p.Query()
	for _, key := range []string{"pvprice", "systemcost", "interest", "lifetime"} {
		if q.Has(key) {
			t.Errorf("%s should not be sent without pvprice", key)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		ok     bool
	}{
		{"defaults", func(*Params) {}, true},
		{"lat", func(p *Params) { p.Lat = 91 }, false},
		{"lon", func(p *Params) { p.Lon = -181 }, false},
		{"peakpower", func(p *Params) { p.PeakPower = 0 }, false},
		{"loss", func(p *Params) { p.Loss = 120 }, false},
		{"tech", func(p *Params) { p.PVTechChoice = "perovskite" }, false},
		{"mounting", func(p *Params) { p.MountingPlace = "roof" }, false},
		{"database", func(p *Params) { p.RadDatabase = "NASA" }, false},
		{"cost with price", func(p *Params) { p.SystemCost = 0 }, false},
		{"cost without price", func(p *Params) { p.SystemCost = 0; p.PVPrice = false }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Validate() error = %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestPVCalc(t *testing.T) {
	var gotPath string
	var gotFormat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFormat = r.URL.Query().Get("outputformat")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/api/v5_3/", time.Second, nil)
	res, err := client.PVCalc(context.Background(), DefaultParams())
	if err != nil {
		t.Fatalf("PVCalc() error = %v", err)
	}

	if gotPath != "/api/v5_3/PVcalc" || gotFormat != "json" {
		t.Errorf("upstream saw %s outputformat=%s", gotPath, gotFormat)
	}
	if res.Outputs.Totals.Fixed.Ey != 5547.6 {
		t.Errorf("E_y = %v, want 5547.6", res.Outputs.Totals.Fixed.Ey)
	}
	if len(res.Outputs.Monthly.Fixed) != 1 || res.Outputs.Monthly.Fixed[0].Him != 40.1 {
		t.Errorf("unexpected monthly data %+v", res.Outputs.Monthly.Fixed)
	}
	if res.Inputs.EconomicData == nil || res.Inputs.EconomicData.Lifetime != 25 {
		t.Errorf("unexpected economic data %+v", res.Inputs.EconomicData)
	}
	if len(res.Raw) == 0 {
		t.Error("raw body should be kept")
	}
}

func TestPVCalcAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "Location over the sea. Please, select another location", "status": 400}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil).PVCalc(context.Background(), DefaultParams())

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("PVCalc() error = %v, want APIError 400", err)
	}
	if Message(err) != "Location over the sea. Please, select another location" {
		t.Errorf("Message() = %q", Message(err))
	}
}

func TestPVCalcRejectsInvalidParams(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	p := DefaultParams()
	p.Lat = 200
	if _, err := NewClient(srv.URL, time.Second, nil).PVCalc(context.Background(), p); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("PVCalc() error = %v, want ErrInvalidParams", err)
	}
	if called {
		t.Error("invalid params should not reach PVGIS")
	}
}

func TestEndpointValid(t *testing.T) {
	if !EndpointPVCalc.Valid() || !Endpoint("tmy").Valid() {
		t.Error("known endpoints should be valid")
	}
	if Endpoint("admin").Valid() {
		t.Error("unknown endpoint should be invalid")
	}
}
