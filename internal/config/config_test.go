package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"stroke-outcome-engine/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if !cfg.IsDev() || cfg.ParallelGrades {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PARALLEL_GRADES", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" || !cfg.ParallelGrades {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
	if cfg.Level() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %v", cfg.Level())
	}
}

func TestValidateRejectsEmptyPort(t *testing.T) {
	cfg := &Config{LogLevel: "info"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an empty port")
	}
}

func TestValidateRejectsUnknownLevel(t *testing.T) {
	cfg := &Config{Port: "8080", LogLevel: "loud"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unknown log level")
	}
}

func TestLoadParametersDefaults(t *testing.T) {
	p, err := LoadParameters("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Fixed.HorizonYears != 50 || p.Fixed.DiscountRatePercent != 3.5 {
		t.Fatalf("unexpected defaults %+v", p.Fixed)
	}
}

// writeParameters writes p as a complete JSON parameter file.
func writeParameters(t *testing.T, p *model.Parameters) string {
	t.Helper()
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "params.json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadParametersFromCompleteFile(t *testing.T) {
	want := DefaultParameters()
	want.Fixed.HorizonYears = 20
	want.Fixed.UnitCosts.ResidentialDay = 150
	want.Fixed.Utility[0] = 1
	want.Coefficients.Mortality.Gamma = 0.1
	want.Coefficients.Resources.NonElective.TimeExponent = 0.8

	got, err := LoadParameters(writeParameters(t, want))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *got != *want {
		t.Fatalf("expected %+v, got %+v", *want, *got)
	}
}

func TestLoadParametersRejectsPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	if err := os.WriteFile(path, []byte("fixed:\n  horizon_years: 20\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadParameters(path)
	var cfgErr *model.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a ConfigurationError, got %v", err)
	}
	if cfgErr.Field != "coefficients" {
		t.Fatalf("unexpected field %q", cfgErr.Field)
	}
}

func TestLoadParametersRejectsMissingCoefficient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	doc := `coefficients:
  mortality:
    year_one: {intercept: -3.3, age: 0.06, sex: 0.2, mrs: [0, 0.3, 0.6, 1, 1.6, 2.4]}
    mean_ages: [59.9, 66.6, 71.9, 73.2, 75.8, 76.6]
    year_n: {intercept: -3.5, age: 0.05, sex: 0.15, mrs: [0, 0.2, 0.45, 0.75, 1.1, 1.6]}
    year_n_mean_age: 71
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadParameters(path)
	var cfgErr *model.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a ConfigurationError, got %v", err)
	}
	if cfgErr.Field != "coefficients.mortality.gamma" {
		t.Fatalf("unexpected field %q", cfgErr.Field)
	}
}

func TestLoadParametersRejectsShortGradeList(t *testing.T) {
	p := DefaultParameters()
	path := writeParameters(t, p)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	doc["fixed"].(map[string]interface{})["utility"] = []float64{0.9, 0.8, 0.7}
	if raw, err = json.Marshal(doc); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	_, err = LoadParameters(path)
	var cfgErr *model.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "fixed.utility" {
		t.Fatalf("expected a fixed.utility ConfigurationError, got %v", err)
	}
}

func TestLoadParametersRejectsInvalidFile(t *testing.T) {
	p := DefaultParameters()
	p.Fixed.UnitCosts.AEAttendance = -5

	_, err := LoadParameters(writeParameters(t, p))
	var cfgErr *model.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a ConfigurationError, got %v", err)
	}
	if cfgErr.Field != "fixed.unit_costs.ae_attendance" {
		t.Fatalf("unexpected field %q", cfgErr.Field)
	}
}

func TestLoadParametersMissingFile(t *testing.T) {
	if _, err := LoadParameters(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
