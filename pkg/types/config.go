package types

// ParseConfig holds settings for heuristic response parsing.
type ParseConfig struct {
	// DefaultSkill is used when a request names no skill. Empty routes to
	// the generic grammar.
	DefaultSkill SkillKind `json:"default_skill" yaml:"default_skill"`

	// StrengthDefault is applied to antithesis cards the strength classifier
	// leaves unset (default "moderate").
	StrengthDefault Strength `json:"strength_default" yaml:"strength_default"`
}

// AnswersConfig holds settings for the question answer store.
type AnswersConfig struct {
	// DBPath is the SQLite database file (default "canvas/answers.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}

// RenderConfig holds settings for terminal rendering.
type RenderConfig struct {
	// Width is the card and word-wrap width in columns (default 80).
	Width int `json:"width" yaml:"width"`

	// Style selects the glamour style for flat text: "dark", "light",
	// "notty", or "auto".
	Style string `json:"style" yaml:"style"`
}

// SkillsConfig holds settings for the skill catalogue.
type SkillsConfig struct {
	// Dirs lists skill directories in priority order; earlier entries win.
	Dirs []string `json:"dirs" yaml:"dirs"`

	// BlendDir holds mode-inflected variants named {skill}-{mode}.
	BlendDir string `json:"blend_dir,omitempty" yaml:"blend_dir,omitempty"`
}

// EngineConfig groups all component configurations.
type EngineConfig struct {
	Parse   ParseConfig   `json:"parse" yaml:"parse"`
	Answers AnswersConfig `json:"answers" yaml:"answers"`
	Render  RenderConfig  `json:"render" yaml:"render"`
	Skills  SkillsConfig  `json:"skills" yaml:"skills"`
}
