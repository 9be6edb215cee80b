package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file.
// Domain data that's easier to manage in YAML than env vars.
type YAMLConfig struct {
	Scoring   ScoringConfig `yaml:"scoring"`
	NicheList []NicheConfig `yaml:"niches"`
	Tips      []string      `yaml:"tips"`
}

// ScoringConfig overrides the bio vocabulary used by the scoring engine.
type ScoringConfig struct {
	Vocabulary []string `yaml:"vocabulary"`
}

// NicheConfig maps a niche slug to the hashtags that seed discovery.
type NicheConfig struct {
	Slug     string   `yaml:"slug"`
	Label    string   `yaml:"label"`
	Hashtags []string `yaml:"hashtags"`
}

// DefaultNiches are used when config.yaml defines none.
var DefaultNiches = []NicheConfig{
	{Slug: "beaute_naturelle", Label: "Beauté naturelle", Hashtags: []string{
		"beautynaturelle", "cosmetiquenaturel", "beautebio", "skincarenaturel", "routinebeaute", "soinnaturel", "cleanbeauty",
	}},
	{Slug: "zero_dechet", Label: "Zéro déchet", Hashtags: []string{
		"zerodechet", "zerowaste", "ecologie", "ecoresponsable", "vracaddict", "reduiresesdechets",
	}},
	{Slug: "savon_artisanal", Label: "Savon artisanal", Hashtags: []string{
		"savonartisanal", "savonnaturel", "saponification", "savonfroid", "handmadesoap", "savondemaison",
	}},
	{Slug: "lifestyle_bio", Label: "Lifestyle bio", Hashtags: []string{
		"lifestylebio", "vieeco", "slowlife", "slowliving", "minimalisme", "consommerresponsable",
	}},
	{Slug: "maman_bio", Label: "Maman bio", Hashtags: []string{
		"mamanbio", "mamaneco", "maternite", "bebenaturel", "familleeco", "parentalite",
	}},
	{Slug: "bien_etre", Label: "Bien-être", Hashtags: []string{
		"bienetre", "wellness", "selfcare", "routineselfcare", "prendresoindesoi", "rituelbeaute",
	}},
	{Slug: "made_in_france", Label: "Made in France", Hashtags: []string{
		"madeinfrance", "fabricationfrancaise", "artisanatfrancais", "createurfrancais", "fabriquenfrance",
	}},
}

// DefaultTips are shown alongside a search strategy.
var DefaultTips = []string{
	"Explorez les hashtags suggérés directement sur Instagram/TikTok",
	"Vérifiez le taux d'engagement (likes+comments/followers), visez 3-10%",
	"Regardez la cohérence du contenu avec votre marque",
	"Vérifiez que l'audience est française/francophone",
	"Cherchez une adresse email dans la bio (signe de professionnalisme)",
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Vocabulary returns the configured scoring vocabulary, or nil to use the
// engine default.
func (c *YAMLConfig) Vocabulary() []string {
	if c == nil {
		return nil
	}
	return c.Scoring.Vocabulary
}

// Niches returns the configured niches, falling back to DefaultNiches.
func (c *YAMLConfig) Niches() []NicheConfig {
	if c == nil || len(c.NicheList) == 0 {
		return DefaultNiches
	}
	return c.NicheList
}

// NicheHashtags returns the hashtags of the niche with the given slug.
func (c *YAMLConfig) NicheHashtags(slug string) []string {
	for _, n := range c.Niches() {
		if n.Slug == slug {
			return n.Hashtags
		}
	}
	return nil
}

// GetTips returns the configured strategy tips, falling back to DefaultTips.
func (c *YAMLConfig) GetTips() []string {
	if c == nil || len(c.Tips) == 0 {
		return DefaultTips
	}
	return c.Tips
}
