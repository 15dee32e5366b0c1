package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"track": "Monza",
		"vehicle": "sandbox",
		"dt": 0.02,
		"reward": {"distance_density": 3, "time_penalty": 0, "crash_penalty": 10},
		"agent": {"alpha": 0.5, "gamma": 0.9, "accelerations": 2, "wheel_angles": 3, "vision_bins": 4}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Track != "Monza" || cfg.DT != 0.02 || cfg.TracksDir != "tracks" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Reward.DistanceDensity != 3 || cfg.Agent.Actions() != 6 {
		t.Fatalf("nested sections not decoded: %+v %+v", cfg.Reward, cfg.Agent)
	}

	vehicle, err := cfg.VehicleConfig()
	if err != nil || vehicle.Length != 100 {
		t.Fatalf("VehicleConfig = %+v, %v", vehicle, err)
	}
}

func TestLoadVehicleOverride(t *testing.T) {
	path := writeConfig(t, `{"vehicle_config": {"length": 3, "width": 1.5, "wheelbase_ratio": 0.8,
		"max_wheel_angle": 0.4, "max_acceleration": 10, "fov": 3.14, "rays": 7, "ray_range": 30}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	vehicle, _ := cfg.VehicleConfig()
	if vehicle.Rays != 7 || vehicle.Length != 3 {
		t.Fatalf("override ignored: %+v", vehicle)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"bad json":        `{"dt": }`,
		"zero dt":         `{"dt": 0}`,
		"unknown preset":  `{"vehicle": "tractor"}`,
		"bad override":    `{"vehicle_config": {"length": 0}}`,
		"no actions":      `{"agent": {"accelerations": 0, "wheel_angles": 3, "vision_bins": 3}}`,
		"vision overflow": `{"vehicle_config": {"length": 3, "width": 1.5, "wheelbase_ratio": 0.8,
			"max_wheel_angle": 0.4, "max_acceleration": 10, "fov": 3.14, "rays": 41, "ray_range": 30}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatal("accepted invalid config")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("loaded a missing file")
	}
}
