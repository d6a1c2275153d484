package readiness

// Params contiene todas las constantes del modelo. Los valores de sobrecarga
// (OverloadMinutes, OverloadMultiplier) son configurables: la calibración
// empírica disponible no es concluyente.
type Params struct {
	// --- Condition ---
	DrainPerMinute     float64 // desgaste base por minuto jugado
	SoftFloor          float64 // por debajo, el desgaste se acelera
	ExhaustionFactor   float64 // intensidad de la aceleración bajo SoftFloor
	RecoveryRate       float64 // fracción diaria (exponencial) del hueco recuperada
	FatigueDamping     float64 // cuánto frena la fatiga la recuperación (por cada 1000)
	RestRecoveryBoost  float64 // multiplicador de recuperación en descanso/vacaciones
	ReducedRecoveryMul float64 // multiplicador con entrenamiento reducido
	IntensiveRecovery  float64 // multiplicador con entrenamiento intensivo

	// --- Sharpness ---
	SharpnessGainPerMinute float64 // ganancia por minuto a sharpness 0
	SharpnessDecaySlow     float64 // pérdida diaria antes del cliff
	SharpnessDecayFast     float64 // pérdida diaria pasado el cliff
	SharpnessCliffDays     int     // días sin jugar antes del cliff
	VacationSharpnessMul   float64 // multiplicador de pérdida en vacaciones
	IntensiveSharpnessMul  float64 // multiplicador de pérdida con entrenamiento intensivo

	// --- Fatigue ---
	FatiguePerMinute      float64 // acumulación por minuto
	WindowDays            int     // ventana móvil de minutos
	OverloadMinutes       int     // minutos en ventana que disparan sobrecarga
	OverloadMultiplier    float64 // salto en la acumulación con sobrecarga
	FatigueSoftCap        float64 // por encima, la acumulación se amortigua
	OverCapFactor         float64 // fracción de acumulación sobre el tope
	FatigueDecayRest      float64 // disipación diaria en descanso/vacaciones
	FatigueDecayReduced   float64 // disipación diaria con entrenamiento reducido
	FatigueDecayNormal    float64 // disipación diaria con entrenamiento normal
	IntensiveAccrual      float64 // acumulación diaria con entrenamiento intensivo
	UnderConditioningRate float64 // fracción de disipación por debajo de 0 en descanso

	MaxMatchMinutes int
}

// DefaultParams devuelve una calibración razonable para escala 0–10000.
func DefaultParams() Params {
	return Params{
		DrainPerMinute:     28,
		SoftFloor:          7000,
		ExhaustionFactor:   3,
		RecoveryRate:       0.45,
		FatigueDamping:     0.15,
		RestRecoveryBoost:  1.2,
		ReducedRecoveryMul: 1.1,
		IntensiveRecovery:  0.8,

		SharpnessGainPerMinute: 40,
		SharpnessDecaySlow:     60,
		SharpnessDecayFast:     300,
		SharpnessCliffDays:     7,
		VacationSharpnessMul:   2,
		IntensiveSharpnessMul:  0.5,

		FatiguePerMinute:      4,
		WindowDays:            14,
		OverloadMinutes:       270,
		OverloadMultiplier:    1.75,
		FatigueSoftCap:        3000,
		OverCapFactor:         0.25,
		FatigueDecayRest:      150,
		FatigueDecayReduced:   60,
		FatigueDecayNormal:    10,
		IntensiveAccrual:      15,
		UnderConditioningRate: 0.33,

		MaxMatchMinutes: 130,
	}
}

// FastestFatigueDecay devuelve la mayor disipación diaria configurada.
func (p Params) FastestFatigueDecay() float64 {
	m := p.FatigueDecayRest
	if p.FatigueDecayReduced > m {
		m = p.FatigueDecayReduced
	}
	if p.FatigueDecayNormal > m {
		m = p.FatigueDecayNormal
	}
	return m
}
