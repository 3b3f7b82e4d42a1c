package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/exectimer/timer"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
}

func TestLoadEmbedded(t *testing.T) {
	cfg, err := loadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, true, cfg.Timer[timer.OptSaveMeasure])
	assert.Equal(t, false, cfg.Timer[timer.OptNanoseconds])
	assert.Equal(t, 1, cfg.Timer[timer.OptIterations])
	assert.Equal(t, false, cfg.Timer[timer.OptReturnMeasure])
	assert.Equal(t, false, cfg.Timer[timer.OptPrintMeasure])
	assert.Equal(t, 0, cfg.Timer[timer.OptMaxSamples])
	assert.Equal(t, false, cfg.Timer[timer.OptStrict])
	assert.Equal(t, FormatTable, cfg.Output.Format)

	// embedded defaults must match the library defaults
	tc, warnings, err := timer.ConfigFromValues(cfg.Timer)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, timer.DefaultConfig(), tc)
}

func TestLoadWithDirs_GlobalOnly(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "timer:\n  n_iter: 5\n  nanoseconds: true\n")

	cfg, err := LoadWithDirs(tmpDir, "")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Timer[timer.OptIterations])
	assert.Equal(t, true, cfg.Timer[timer.OptNanoseconds])
	assert.Equal(t, true, cfg.Timer[timer.OptSaveMeasure]) // from embedded default
	assert.Equal(t, []string{"embedded", filepath.Join(tmpDir, "config.yaml")}, cfg.Sources())
	assert.Equal(t, tmpDir, cfg.ConfigDir())
	assert.Empty(t, cfg.LocalDir())
}

func TestLoadWithDirs_LocalOverridesGlobal(t *testing.T) {
	globalDir := t.TempDir()
	localDir := t.TempDir()

	writeConfig(t, globalDir, "timer:\n  n_iter: 5\n  save_measure: true\noutput:\n  format: json\n")
	writeConfig(t, localDir, "timer:\n  save_measure: false\n")

	cfg, err := LoadWithDirs(globalDir, localDir)
	require.NoError(t, err)

	assert.Equal(t, false, cfg.Timer[timer.OptSaveMeasure]) // explicit false from local
	assert.Equal(t, 5, cfg.Timer[timer.OptIterations])      // from global
	assert.Equal(t, FormatJSON, cfg.Output.Format)          // from global
	assert.Equal(t, localDir, cfg.LocalDir())
}

func TestLoadWithDirs_KeepsWrongTypes(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "timer:\n  n_iter: \"3\"\n  save_measure: yes\n")

	cfg, err := LoadWithDirs(tmpDir, "")
	require.NoError(t, err)

	assert.Equal(t, "3", cfg.Timer[timer.OptIterations])
	assert.Equal(t, "yes", cfg.Timer[timer.OptSaveMeasure])

	_, warnings, err := timer.ConfigFromValues(cfg.Timer)
	require.NoError(t, err)
	assert.Len(t, warnings, 2)
}

func TestLoadWithDirs_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "timer: [unclosed\n")

	_, err := LoadWithDirs(tmpDir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load global config")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("EXECTIMER_N_ITER", "7")
	t.Setenv("EXECTIMER_NANOSECONDS", "true")
	t.Setenv("EXECTIMER_MAX_SAMPLES", "lots")
	t.Setenv("EXECTIMER_OUTPUT", "json")

	cfg, err := loadEmbedded()
	require.NoError(t, err)

	cfg.applyEnv()

	assert.Equal(t, 7, cfg.Timer[timer.OptIterations])
	assert.Equal(t, true, cfg.Timer[timer.OptNanoseconds])
	assert.Equal(t, "lots", cfg.Timer[timer.OptMaxSamples]) // left for the validator
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Contains(t, cfg.Sources(), "env:EXECTIMER_N_ITER")
	assert.Contains(t, cfg.Sources(), "env:EXECTIMER_OUTPUT")
}

func TestEnvBetweenGlobalAndLocal(t *testing.T) {
	// Order: embedded → global → env → local
	globalDir := t.TempDir()
	localDir := t.TempDir()

	writeConfig(t, globalDir, "timer:\n  n_iter: 100\n  max_samples: 10\n")
	t.Setenv("EXECTIMER_N_ITER", "7")
	t.Setenv("EXECTIMER_PRINT_MEASURE", "1")
	writeConfig(t, localDir, "timer:\n  print_measure: false\n")

	cfg, err := LoadWithDirs(globalDir, localDir)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Timer[timer.OptIterations])       // from env
	assert.Equal(t, 10, cfg.Timer[timer.OptMaxSamples])      // from global
	assert.Equal(t, false, cfg.Timer[timer.OptPrintMeasure]) // from local
}

func TestApplyCLIFlags(t *testing.T) {
	cfg, err := loadEmbedded()
	require.NoError(t, err)

	cfg.ApplyCLIFlags(map[string]any{timer.OptIterations: 3, timer.OptStrict: true})
	cfg.ApplyOutputFlag("")
	cfg.ApplyOutputFlag(FormatNone)

	assert.Equal(t, 3, cfg.Timer[timer.OptIterations])
	assert.Equal(t, true, cfg.Timer[timer.OptStrict])
	assert.Equal(t, FormatNone, cfg.Output.Format)
	assert.Equal(t, []string{"cli:n_iter", "cli:strict", "cli:format"}, cfg.Sources())
}

func TestInstallDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exectimer")

	require.NoError(t, InstallDefaults(dir))
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "n_iter: 1")

	// existing files are left alone
	writeConfig(t, dir, "timer:\n  n_iter: 9\n")
	require.NoError(t, InstallDefaults(dir))
	data, err = os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "timer:\n  n_iter: 9\n", string(data))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{format: FormatTable},
		{format: FormatJSON},
		{format: FormatNone},
		{format: "xml", wantErr: true},
		{format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cfg := &Config{Output: OutputConfig{Format: tt.format}}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
