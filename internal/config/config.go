// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EquipmentConfig describes the towed array and its processing chain.
type EquipmentConfig struct {
	NumBeams          int     `yaml:"num_beams"`
	BeamWidthDeg      float64 `yaml:"beam_width_deg"`
	BeamSpacingDeg    float64 `yaml:"beam_spacing_deg"`
	DirectivityIndex  float64 `yaml:"directivity_index"`
	SelfNoiseBase     float64 `yaml:"self_noise_base"`
	FlowNoiseCoeff    float64 `yaml:"flow_noise_coeff"`
	OwnTargetStrength float64 `yaml:"own_target_strength"`
}

// EnvironmentConfig describes the water column for a scenario.
type EnvironmentConfig struct {
	SeaState            int       `yaml:"sea_state"`
	DeepWater           bool      `yaml:"deep_water"`
	AbsorptionDBPerYard float64   `yaml:"absorption_db_per_yard"`
	CZRangeMinYds       float64   `yaml:"cz_range_min_yds"`
	CZRangeMaxYds       float64   `yaml:"cz_range_max_yds"`
	CZBonusDB           float64   `yaml:"cz_bonus_db"`
	AmbientTable        []float64 `yaml:"ambient_table"`
}

// DetectorConfig tunes the AI threat detector.
type DetectorConfig struct {
	DetectionThreshold       float64 `yaml:"detection_threshold"`
	ActiveDetectionRangeYds  float64 `yaml:"active_detection_range_yds"`
	PassiveDetectionRangeYds float64 `yaml:"passive_detection_range_yds"`
	BaffledRangeFactor       float64 `yaml:"baffled_range_factor"`
	BaffleMinDeg             float64 `yaml:"baffle_min_deg"`
	BaffleMaxDeg             float64 `yaml:"baffle_max_deg"`
	ReactionActiveSec        float64 `yaml:"reaction_active_sec"`
	ReactionPassiveSec       float64 `yaml:"reaction_passive_sec"`
	ReactionBaffledSec       float64 `yaml:"reaction_baffled_sec"`
}

// AIConfig tunes the opposing-force state machine.
type AIConfig struct {
	EvalIntervalSec         float64 `yaml:"eval_interval_sec"`
	InterceptTimeSec        float64 `yaml:"intercept_time_sec"`
	SilentSpeedKts          float64 `yaml:"silent_speed_kts"`
	HuntSpeedKts            float64 `yaml:"hunt_speed_kts"`
	FlankSpeedKts           float64 `yaml:"flank_speed_kts"`
	ProsecuteThreshold      float64 `yaml:"prosecute_threshold"`
	LockThreshold           float64 `yaml:"lock_threshold"`
	LostContactThreshold    float64 `yaml:"lost_contact_threshold"`
	ProsecuteAbortThreshold float64 `yaml:"prosecute_abort_threshold"`
	CloseRangeYds           float64 `yaml:"close_range_yds"`
	TrackTimeSec            float64 `yaml:"track_time_sec"`
	CooldownSec             float64 `yaml:"cooldown_sec"`
	TurnRateDegPerSec       float64 `yaml:"turn_rate_deg_per_sec"`
}

// TorpedoConfig tunes weapon guidance.
type TorpedoConfig struct {
	LaunchSpeedKts    float64 `yaml:"launch_speed_kts"`
	MaxSpeedKts       float64 `yaml:"max_speed_kts"`
	AccelKtsPerSec    float64 `yaml:"accel_kts_per_sec"`
	TurnRateDegPerSec float64 `yaml:"turn_rate_deg_per_sec"`
	SeekerRangeYds    float64 `yaml:"seeker_range_yds"`
	SeekerFOVDeg      float64 `yaml:"seeker_fov_deg"`
	EnableRangeYds    float64 `yaml:"enable_range_yds"`
	SnakePeriodYds    float64 `yaml:"snake_period_yds"`
	SnakeWidthDeg     float64 `yaml:"snake_width_deg"`
	FuseRadiusFt      float64 `yaml:"fuse_radius_ft"`
	MaxRangeYds       float64 `yaml:"max_range_yds"`
}

// OwnshipNoiseConfig tunes the inverse-square proxy the AI uses to hear
// the player. Deliberately a separate model from the dB sonar equation, so
// AI difficulty can be tuned without touching the acoustics.
type OwnshipNoiseConfig struct {
	Base        float64 `yaml:"base"`
	SpeedFactor float64 `yaml:"speed_factor"`
	Max         float64 `yaml:"max"`
}

// SimulationConfig is the root configuration for the simulation core.
type SimulationConfig struct {
	Equipment    EquipmentConfig    `yaml:"equipment"`
	Environment  EnvironmentConfig  `yaml:"environment"`
	Detector     DetectorConfig     `yaml:"detector"`
	AI           AIConfig           `yaml:"ai"`
	Torpedo      TorpedoConfig      `yaml:"torpedo"`
	OwnshipNoise OwnshipNoiseConfig `yaml:"ownship_noise"`
}

// Default returns the tuning used when no config file is given.
func Default() *SimulationConfig {
	return &SimulationConfig{
		Equipment: EquipmentConfig{
			NumBeams:          120,
			BeamWidthDeg:      5,
			BeamSpacingDeg:    3,
			DirectivityIndex:  15,
			SelfNoiseBase:     45,
			FlowNoiseCoeff:    0.05,
			OwnTargetStrength: 15,
		},
		Environment: EnvironmentConfig{
			SeaState:            3,
			DeepWater:           true,
			AbsorptionDBPerYard: 0.002,
			CZRangeMinYds:       30000,
			CZRangeMaxYds:       35000,
			CZBonusDB:           15,
			AmbientTable:        []float64{44.5, 50, 55, 61.5, 64.5, 66.5, 68.5},
		},
		Detector: DetectorConfig{
			DetectionThreshold:       1.0,
			ActiveDetectionRangeYds:  5000,
			PassiveDetectionRangeYds: 2000,
			BaffledRangeFactor:       0.3,
			BaffleMinDeg:             150,
			BaffleMaxDeg:             210,
			ReactionActiveSec:        0,
			ReactionPassiveSec:       2,
			ReactionBaffledSec:       10,
		},
		AI: AIConfig{
			EvalIntervalSec:         1,
			InterceptTimeSec:        60,
			SilentSpeedKts:          5,
			HuntSpeedKts:            18,
			FlankSpeedKts:           30,
			ProsecuteThreshold:      2.0,
			LockThreshold:           1.5,
			LostContactThreshold:    -0.5,
			ProsecuteAbortThreshold: -0.25,
			CloseRangeYds:           6000,
			TrackTimeSec:            30,
			CooldownSec:             120,
			TurnRateDegPerSec:       3,
		},
		Torpedo: TorpedoConfig{
			LaunchSpeedKts:    30,
			MaxSpeedKts:       55,
			AccelKtsPerSec:    2,
			TurnRateDegPerSec: 6,
			SeekerRangeYds:    3000,
			SeekerFOVDeg:      60,
			EnableRangeYds:    1500,
			SnakePeriodYds:    1000,
			SnakeWidthDeg:     30,
			FuseRadiusFt:      50,
			MaxRangeYds:       15000,
		},
		OwnshipNoise: OwnshipNoiseConfig{
			Base:        50,
			SpeedFactor: 0.5,
			Max:         500,
		},
	}
}

// Load loads YAML config and validates it against a CUE schema.
// An empty config path returns Default(); an empty schema path skips
// CUE validation.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if configPath == "" {
		return Default(), nil
	}
	if cueSchemaPath != "" {
		if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Check enforces invariants that are awkward to express in the schema.
func (c *SimulationConfig) Check() error {
	if c.Equipment.NumBeams <= 0 {
		return fmt.Errorf("equipment: num_beams must be positive, got %d", c.Equipment.NumBeams)
	}
	if c.Equipment.BeamSpacingDeg <= 0 {
		return fmt.Errorf("equipment: beam_spacing_deg must be positive, got %v", c.Equipment.BeamSpacingDeg)
	}
	if len(c.Environment.AmbientTable) != 7 {
		return fmt.Errorf("environment: ambient_table needs 7 entries (sea states 0-6), got %d", len(c.Environment.AmbientTable))
	}
	if c.Environment.CZRangeMinYds > c.Environment.CZRangeMaxYds {
		return fmt.Errorf("environment: cz window min %v exceeds max %v", c.Environment.CZRangeMinYds, c.Environment.CZRangeMaxYds)
	}
	if c.AI.EvalIntervalSec < 1 {
		return fmt.Errorf("ai: eval_interval_sec must be at least 1, got %v", c.AI.EvalIntervalSec)
	}
	if c.Torpedo.MaxSpeedKts <= 0 || c.Torpedo.MaxRangeYds <= 0 {
		return fmt.Errorf("torpedo: max_speed_kts and max_range_yds must be positive")
	}
	return nil
}
