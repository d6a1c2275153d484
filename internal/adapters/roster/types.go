package roster

// DTOs del fichero YAML. Solo se usan dentro de este paquete; la conversión a
// entidades de dominio se hace en mapping.go. Las fechas llegan como texto
// (2006-01-02) y se parsean allí.

// rosterFile es la raíz del documento.
type rosterFile struct {
	AsOf     string        `yaml:"as_of"`
	Agents   []agentEntry  `yaml:"agents"`
	Roles    []roleEntry   `yaml:"roles"`
	Fixtures []fixtureFile `yaml:"fixtures"`
}

// agentEntry es un jugador con sus coeficientes, ratings y calendario.
type agentEntry struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Recovery    *float64          `yaml:"recovery"`
	WorkRate    *float64          `yaml:"work_rate"`
	Efficiency  *float64          `yaml:"efficiency"`
	Injured     bool              `yaml:"injured"`
	Suspended   bool              `yaml:"suspended"`
	Ratings     map[string]int    `yaml:"ratings"`
	Familiarity map[string]string `yaml:"familiarity"`
	Readiness   *readinessEntry   `yaml:"readiness"`
	Events      []eventEntry      `yaml:"events"`
}

// readinessEntry es el estado de readiness conocido del agente.
type readinessEntry struct {
	Date      string            `yaml:"date"`
	Condition float64           `yaml:"condition"`
	Sharpness float64           `yaml:"sharpness"`
	Fatigue   float64           `yaml:"fatigue"`
	LastMatch string            `yaml:"last_match"`
	Recent    []appearanceEntry `yaml:"recent"`
}

// appearanceEntry es un partido ya jugado dentro de la ventana móvil.
type appearanceEntry struct {
	Date    string `yaml:"date"`
	Minutes int    `yaml:"minutes"`
	Role    string `yaml:"role"`
}

// eventEntry es un evento del calendario (match, rest, training, vacation).
type eventEntry struct {
	Kind      string  `yaml:"kind"`
	From      string  `yaml:"from"`
	To        string  `yaml:"to"`
	Date      string  `yaml:"date"` // alias de from/to para partidos
	Minutes   int     `yaml:"minutes"`
	Role      string  `yaml:"role"`
	Intensity float64 `yaml:"intensity"`
	Training  string  `yaml:"training"`
}

// roleEntry es una posición del once.
type roleEntry struct {
	ID        string  `yaml:"id"`
	RatingKey string  `yaml:"rating_key"`
	Weight    float64 `yaml:"weight"`
	Drag      float64 `yaml:"drag"`
}

// fixtureFile es un partido del calendario planificado.
type fixtureFile struct {
	ID               string   `yaml:"id"`
	Date             string   `yaml:"date"`
	Opponent         float64  `yaml:"opponent"`
	Importance       string   `yaml:"importance"`
	ImportanceLocked bool     `yaml:"importance_locked"`
	Roles            []string `yaml:"roles"`
}
