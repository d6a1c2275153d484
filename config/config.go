package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/application/scheduler"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/readiness"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/shadow"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/stability"
	"github.com/bikeracer4487/fm26-lineup-optimizer-sub002/internal/domain/utility"
)

// Config es la configuración completa del optimizador.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Readiness ReadinessConfig `yaml:"readiness"`
	Utility   UtilityConfig   `yaml:"utility"`
	Stability StabilityConfig `yaml:"stability"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

// EngineConfig controla el scheduler y el shadow pricing.
type EngineConfig struct {
	InertiaWeight   float64 `yaml:"inertia_weight"`   // 0 = sin continuidad, 1 = máxima
	Lookahead       int     `yaml:"lookahead"`        // fixtures futuros (0..5, 0 = sin shadow pricing)
	Discount        float64 `yaml:"discount"`         // γ del descuento temporal
	ShadowWeight    float64 `yaml:"shadow_weight"`    // peso del shadowCost
	Materiality     float64 `yaml:"materiality"`      // ratio de peso para que un fixture futuro cuente
	ComparableRatio float64 `yaml:"comparable_ratio"` // rating mínimo relativo de una alternativa
	AssumedMinutes  int     `yaml:"assumed_minutes"`  // minutos supuestos en la proyección
	MatchMinutes    int     `yaml:"match_minutes"`    // minutos registrados por aparición planificada
	CongestionDays  int     `yaml:"congestion_days"`  // 0 = sin reajuste de importancia
	Workers         int     `yaml:"workers"`          // 0 = NumCPU*2
}

// ReadinessConfig expone todas las constantes del modelo de readiness.
type ReadinessConfig struct {
	DrainPerMinute     float64 `yaml:"drain_per_minute"`
	SoftFloor          float64 `yaml:"soft_floor"`
	ExhaustionFactor   float64 `yaml:"exhaustion_factor"`
	RecoveryRate       float64 `yaml:"recovery_rate"`
	FatigueDamping     float64 `yaml:"fatigue_damping"`
	RestRecoveryBoost  float64 `yaml:"rest_recovery_boost"`
	ReducedRecoveryMul float64 `yaml:"reduced_recovery_mul"`
	IntensiveRecovery  float64 `yaml:"intensive_recovery"`

	SharpnessGainPerMinute float64 `yaml:"sharpness_gain_per_minute"`
	SharpnessDecaySlow     float64 `yaml:"sharpness_decay_slow"`
	SharpnessDecayFast     float64 `yaml:"sharpness_decay_fast"`
	SharpnessCliffDays     int     `yaml:"sharpness_cliff_days"`
	VacationSharpnessMul   float64 `yaml:"vacation_sharpness_mul"`
	IntensiveSharpnessMul  float64 `yaml:"intensive_sharpness_mul"`

	FatiguePerMinute      float64 `yaml:"fatigue_per_minute"`
	WindowDays            int     `yaml:"window_days"`
	OverloadMinutes       int     `yaml:"overload_minutes"`
	OverloadMultiplier    float64 `yaml:"overload_multiplier"`
	FatigueSoftCap        float64 `yaml:"fatigue_soft_cap"`
	OverCapFactor         float64 `yaml:"over_cap_factor"`
	FatigueDecayRest      float64 `yaml:"fatigue_decay_rest"`
	FatigueDecayReduced   float64 `yaml:"fatigue_decay_reduced"`
	FatigueDecayNormal    float64 `yaml:"fatigue_decay_normal"`
	IntensiveAccrual      float64 `yaml:"intensive_accrual"`
	UnderConditioningRate float64 `yaml:"under_conditioning_rate"`

	MaxMatchMinutes int `yaml:"max_match_minutes"`
}

// CurveConfig son los parámetros de un tier de importancia.
type CurveConfig struct {
	ConditionMid       float64 `yaml:"condition_mid"`
	ConditionSteepness float64 `yaml:"condition_steepness"`
	SharpnessMid       float64 `yaml:"sharpness_mid"`
	SharpnessSteepness float64 `yaml:"sharpness_steepness"`
	PenaltyAmplifier   float64 `yaml:"penalty_amplifier"`
	DevelopmentBonus   float64 `yaml:"development_bonus"`
	Weight             float64 `yaml:"weight"`
}

// BandsConfig son los multiplicadores por banda de fatiga.
type BandsConfig struct {
	Fresh    float64 `yaml:"fresh"`
	MatchFit float64 `yaml:"match_fit"`
	Tired    float64 `yaml:"tired"`
	Jaded    float64 `yaml:"jaded"`
}

// UtilityConfig controla el motor de utilidad.
type UtilityConfig struct {
	Low      CurveConfig `yaml:"low"`
	Medium   CurveConfig `yaml:"medium"`
	High     CurveConfig `yaml:"high"`
	Critical CurveConfig `yaml:"critical"`

	SafeCondition     float64 `yaml:"safe_condition"`
	MatchFitSharpness float64 `yaml:"match_fit_sharpness"`
	DevelopmentTarget float64 `yaml:"development_target"`
	FamiliarityFloor  float64 `yaml:"familiarity_floor"`
	MinFamiliarity    float64 `yaml:"min_familiarity"`

	Bands           BandsConfig `yaml:"bands"`
	MatchFitFatigue float64     `yaml:"match_fit_fatigue"`
	TiredFatigue    float64     `yaml:"tired_fatigue"`
	JadedFatigue    float64     `yaml:"jaded_fatigue"`
}

// StabilityConfig controla el ajuste de continuidad.
type StabilityConfig struct {
	ContinuityBonus float64 `yaml:"continuity_bonus"`
	SwitchPenalty   float64 `yaml:"switch_penalty"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Default devuelve la configuración por defecto, la misma que usan los
// DefaultParams de cada paquete.
func Default() *Config {
	cfg := &Config{}
	sc := scheduler.DefaultConfig()
	cfg.Engine = EngineConfig{
		InertiaWeight:   sc.InertiaWeight,
		Lookahead:       sc.Shadow.Lookahead,
		Discount:        sc.Shadow.Discount,
		ShadowWeight:    sc.Shadow.Weight,
		Materiality:     sc.Shadow.Materiality,
		ComparableRatio: sc.Shadow.ComparableRatio,
		AssumedMinutes:  sc.Shadow.AssumedMinutes,
		MatchMinutes:    sc.MatchMinutes,
		CongestionDays:  sc.CongestionDays,
		Workers:         sc.Workers,
	}
	cfg.Readiness = fromReadiness(sc.Readiness)
	cfg.Utility = fromUtility(sc.Utility)
	cfg.Stability = StabilityConfig{
		ContinuityBonus: sc.Stability.ContinuityBonus,
		SwitchPenalty:   sc.Stability.SwitchPenalty,
	}
	setDefaults(cfg)
	return cfg
}

// Load carga la configuración: .env si existe, el YAML encima de los valores
// por defecto (solo las claves presentes los sustituyen) y por último las
// variables de entorno. Un path vacío usa solo defaults y entorno.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LINEUP_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LINEUP_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("LINEUP_DB"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("LINEUP_INERTIA"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("LINEUP_INERTIA=%q: %w", v, err)
		}
		cfg.Engine.InertiaWeight = f
	}
	return nil
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "lineup.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Engine.MatchMinutes <= 0 {
		cfg.Engine.MatchMinutes = 90
	}
	if cfg.Engine.AssumedMinutes <= 0 {
		cfg.Engine.AssumedMinutes = cfg.Engine.MatchMinutes
	}
}

// Validate rechaza valores fuera de rango.
func (c *Config) Validate() error {
	var errs []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Sprintf(format, args...))
		}
	}

	e := c.Engine
	check(e.InertiaWeight >= 0 && e.InertiaWeight <= 1, "engine.inertia_weight %.2f outside [0,1]", e.InertiaWeight)
	check(e.Lookahead >= 0 && e.Lookahead <= shadow.MaxLookahead, "engine.lookahead %d outside 0..%d", e.Lookahead, shadow.MaxLookahead)
	check(e.Discount > 0 && e.Discount < 1, "engine.discount %.2f outside (0,1)", e.Discount)
	check(e.ShadowWeight >= 0, "engine.shadow_weight must be >= 0")
	check(e.Materiality >= 1, "engine.materiality %.2f must be >= 1", e.Materiality)
	check(e.ComparableRatio > 0 && e.ComparableRatio <= 1, "engine.comparable_ratio %.2f outside (0,1]", e.ComparableRatio)
	check(e.CongestionDays >= 0, "engine.congestion_days must be >= 0")
	check(e.Workers >= 0, "engine.workers must be >= 0")

	r := c.Readiness
	check(r.DrainPerMinute > 0, "readiness.drain_per_minute must be > 0")
	check(r.RecoveryRate > 0, "readiness.recovery_rate must be > 0")
	check(r.WindowDays > 0, "readiness.window_days must be > 0")
	check(r.OverloadMinutes > 0, "readiness.overload_minutes must be > 0")
	check(r.OverloadMultiplier >= 1, "readiness.overload_multiplier %.2f must be >= 1", r.OverloadMultiplier)
	check(r.OverCapFactor >= 0 && r.OverCapFactor <= 1, "readiness.over_cap_factor outside [0,1]")
	check(r.UnderConditioningRate >= 0 && r.UnderConditioningRate <= 1, "readiness.under_conditioning_rate outside [0,1]")
	check(r.MaxMatchMinutes >= e.MatchMinutes, "readiness.max_match_minutes %d below engine.match_minutes %d", r.MaxMatchMinutes, e.MatchMinutes)
	check(r.MaxMatchMinutes >= e.AssumedMinutes, "readiness.max_match_minutes %d below engine.assumed_minutes %d", r.MaxMatchMinutes, e.AssumedMinutes)

	u := c.Utility
	for name, curve := range map[string]CurveConfig{"low": u.Low, "medium": u.Medium, "high": u.High, "critical": u.Critical} {
		check(curve.ConditionMid > 0 && curve.ConditionMid < 1, "utility.%s.condition_mid outside (0,1)", name)
		check(curve.SharpnessMid > 0 && curve.SharpnessMid < 1, "utility.%s.sharpness_mid outside (0,1)", name)
		check(curve.ConditionSteepness > 0 && curve.SharpnessSteepness > 0, "utility.%s steepness must be > 0", name)
		check(curve.PenaltyAmplifier > 0, "utility.%s.penalty_amplifier must be > 0", name)
		check(curve.Weight > 0, "utility.%s.weight must be > 0", name)
	}
	check(u.FamiliarityFloor >= 0 && u.FamiliarityFloor <= 1, "utility.familiarity_floor outside [0,1]")
	check(u.Bands.Jaded <= u.Bands.Tired && u.Bands.Tired <= u.Bands.MatchFit && u.Bands.MatchFit <= u.Bands.Fresh,
		"utility.bands must decrease fresh → jaded")
	check(u.MatchFitFatigue < u.TiredFatigue && u.TiredFatigue < u.JadedFatigue,
		"utility fatigue thresholds must increase")

	check(c.Stability.ContinuityBonus >= 0, "stability.continuity_bonus must be >= 0")
	check(c.Stability.SwitchPenalty >= 0 && c.Stability.SwitchPenalty <= 1, "stability.switch_penalty outside [0,1]")

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q unknown", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q unknown", c.Log.Format))
	}

	if len(errs) > 0 {
		// orden estable: el mapa de curvas se recorre en orden aleatorio
		sort.Strings(errs)
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SchedulerConfig traduce la configuración al scheduler.
func (c *Config) SchedulerConfig() scheduler.Config {
	e := c.Engine
	return scheduler.Config{
		InertiaWeight:  e.InertiaWeight,
		MatchMinutes:   e.MatchMinutes,
		CongestionDays: e.CongestionDays,
		Workers:        e.Workers,
		Readiness:      c.ReadinessParams(),
		Utility:        c.UtilityParams(),
		Stability: stability.Params{
			ContinuityBonus: c.Stability.ContinuityBonus,
			SwitchPenalty:   c.Stability.SwitchPenalty,
		},
		Shadow: shadow.Params{
			Lookahead:       e.Lookahead,
			Discount:        e.Discount,
			Weight:          e.ShadowWeight,
			Materiality:     e.Materiality,
			ComparableRatio: e.ComparableRatio,
			AssumedMinutes:  e.AssumedMinutes,
		},
	}
}

// ReadinessParams traduce la sección readiness.
func (c *Config) ReadinessParams() readiness.Params {
	r := c.Readiness
	return readiness.Params{
		DrainPerMinute:         r.DrainPerMinute,
		SoftFloor:              r.SoftFloor,
		ExhaustionFactor:       r.ExhaustionFactor,
		RecoveryRate:           r.RecoveryRate,
		FatigueDamping:         r.FatigueDamping,
		RestRecoveryBoost:      r.RestRecoveryBoost,
		ReducedRecoveryMul:     r.ReducedRecoveryMul,
		IntensiveRecovery:      r.IntensiveRecovery,
		SharpnessGainPerMinute: r.SharpnessGainPerMinute,
		SharpnessDecaySlow:     r.SharpnessDecaySlow,
		SharpnessDecayFast:     r.SharpnessDecayFast,
		SharpnessCliffDays:     r.SharpnessCliffDays,
		VacationSharpnessMul:   r.VacationSharpnessMul,
		IntensiveSharpnessMul:  r.IntensiveSharpnessMul,
		FatiguePerMinute:       r.FatiguePerMinute,
		WindowDays:             r.WindowDays,
		OverloadMinutes:        r.OverloadMinutes,
		OverloadMultiplier:     r.OverloadMultiplier,
		FatigueSoftCap:         r.FatigueSoftCap,
		OverCapFactor:          r.OverCapFactor,
		FatigueDecayRest:       r.FatigueDecayRest,
		FatigueDecayReduced:    r.FatigueDecayReduced,
		FatigueDecayNormal:     r.FatigueDecayNormal,
		IntensiveAccrual:       r.IntensiveAccrual,
		UnderConditioningRate:  r.UnderConditioningRate,
		MaxMatchMinutes:        r.MaxMatchMinutes,
	}
}

// UtilityParams traduce la sección utility.
func (c *Config) UtilityParams() utility.Params {
	u := c.Utility
	return utility.Params{
		Low:               toCurve(u.Low),
		Medium:            toCurve(u.Medium),
		High:              toCurve(u.High),
		Critical:          toCurve(u.Critical),
		SafeCondition:     u.SafeCondition,
		MatchFitSharpness: u.MatchFitSharpness,
		DevelopmentTarget: u.DevelopmentTarget,
		FamiliarityFloor:  u.FamiliarityFloor,
		MinFamiliarity:    u.MinFamiliarity,
		Bands: utility.Bands{
			Fresh:    u.Bands.Fresh,
			MatchFit: u.Bands.MatchFit,
			Tired:    u.Bands.Tired,
			Jaded:    u.Bands.Jaded,
		},
		MatchFitFatigue: u.MatchFitFatigue,
		TiredFatigue:    u.TiredFatigue,
		JadedFatigue:    u.JadedFatigue,
	}
}

// --- conversiones desde los DefaultParams ---

func fromReadiness(p readiness.Params) ReadinessConfig {
	return ReadinessConfig{
		DrainPerMinute:         p.DrainPerMinute,
		SoftFloor:              p.SoftFloor,
		ExhaustionFactor:       p.ExhaustionFactor,
		RecoveryRate:           p.RecoveryRate,
		FatigueDamping:         p.FatigueDamping,
		RestRecoveryBoost:      p.RestRecoveryBoost,
		ReducedRecoveryMul:     p.ReducedRecoveryMul,
		IntensiveRecovery:      p.IntensiveRecovery,
		SharpnessGainPerMinute: p.SharpnessGainPerMinute,
		SharpnessDecaySlow:     p.SharpnessDecaySlow,
		SharpnessDecayFast:     p.SharpnessDecayFast,
		SharpnessCliffDays:     p.SharpnessCliffDays,
		VacationSharpnessMul:   p.VacationSharpnessMul,
		IntensiveSharpnessMul:  p.IntensiveSharpnessMul,
		FatiguePerMinute:       p.FatiguePerMinute,
		WindowDays:             p.WindowDays,
		OverloadMinutes:        p.OverloadMinutes,
		OverloadMultiplier:     p.OverloadMultiplier,
		FatigueSoftCap:         p.FatigueSoftCap,
		OverCapFactor:          p.OverCapFactor,
		FatigueDecayRest:       p.FatigueDecayRest,
		FatigueDecayReduced:    p.FatigueDecayReduced,
		FatigueDecayNormal:     p.FatigueDecayNormal,
		IntensiveAccrual:       p.IntensiveAccrual,
		UnderConditioningRate:  p.UnderConditioningRate,
		MaxMatchMinutes:        p.MaxMatchMinutes,
	}
}

func fromUtility(p utility.Params) UtilityConfig {
	return UtilityConfig{
		Low:               fromCurve(p.Low),
		Medium:            fromCurve(p.Medium),
		High:              fromCurve(p.High),
		Critical:          fromCurve(p.Critical),
		SafeCondition:     p.SafeCondition,
		MatchFitSharpness: p.MatchFitSharpness,
		DevelopmentTarget: p.DevelopmentTarget,
		FamiliarityFloor:  p.FamiliarityFloor,
		MinFamiliarity:    p.MinFamiliarity,
		Bands: BandsConfig{
			Fresh:    p.Bands.Fresh,
			MatchFit: p.Bands.MatchFit,
			Tired:    p.Bands.Tired,
			Jaded:    p.Bands.Jaded,
		},
		MatchFitFatigue: p.MatchFitFatigue,
		TiredFatigue:    p.TiredFatigue,
		JadedFatigue:    p.JadedFatigue,
	}
}

func fromCurve(c utility.Curve) CurveConfig {
	return CurveConfig(c)
}

func toCurve(c CurveConfig) utility.Curve {
	return utility.Curve(c)
}
