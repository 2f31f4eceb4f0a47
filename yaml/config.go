// Package yaml loads extraction settings from YAML files.
package yaml

import (
	"errors"
	"os"

	"github.com/stankin-rag/priem"
	"github.com/stankin-rag/priem/extract"
	"gopkg.in/yaml.v3"
)

// anchorsFile mirrors extract.Anchors. Absent keys keep their defaults.
type anchorsFile struct {
	StudyForm     *string `yaml:"study_form"`
	Subjects      *string `yaml:"subjects"`
	Seats         *string `yaml:"seats"`
	Tuition       *string `yaml:"tuition"`
	SeparateQuota *string `yaml:"separate_quota"`
	SpecialQuota  *string `yaml:"special_quota"`
	TargetQuota   *string `yaml:"target_quota"`
	Scores        *string `yaml:"scores"`
}

// configFile mirrors extract.Config.
type configFile struct {
	Anchors              anchorsFile       `yaml:"anchors"`
	FooterAnchor         *string           `yaml:"footer_anchor"`
	MinBlockLength       *int              `yaml:"min_block_length"`
	CurrencyWords        []string          `yaml:"currency_words"`
	Dashes               *string           `yaml:"dashes"`
	SubjectAbbreviations map[string]string `yaml:"subject_abbreviations"`
	DefaultStudyForm     *string           `yaml:"default_study_form"`
	MinScore             *int              `yaml:"min_score"`
	MaxScore             *int              `yaml:"max_score"`
	LatestScoreYear      *int              `yaml:"latest_score_year"`
}

// LoadConfig reads path and applies it over extract.DefaultConfig.
// Subject abbreviations are merged into the defaults; every other key
// replaces its default. An empty path returns the defaults.
func LoadConfig(path string) (extract.Config, error) {
	cfg := extract.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, priem.Errorf(priem.ENOTFOUND, "config file %s not found", path)
	} else if err != nil {
		return cfg, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML data over extract.DefaultConfig.
func ParseConfig(data []byte) (extract.Config, error) {
	cfg := extract.DefaultConfig()

	var f configFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return cfg, priem.Errorf(priem.EINVALID, "invalid config: %v", err)
	}

	a := &cfg.Anchors
	set(&a.StudyForm, f.Anchors.StudyForm)
	set(&a.Subjects, f.Anchors.Subjects)
	set(&a.Seats, f.Anchors.Seats)
	set(&a.Tuition, f.Anchors.Tuition)
	set(&a.SeparateQuota, f.Anchors.SeparateQuota)
	set(&a.SpecialQuota, f.Anchors.SpecialQuota)
	set(&a.TargetQuota, f.Anchors.TargetQuota)
	set(&a.Scores, f.Anchors.Scores)

	set(&cfg.FooterAnchor, f.FooterAnchor)
	set(&cfg.MinBlockLength, f.MinBlockLength)
	set(&cfg.Dashes, f.Dashes)
	set(&cfg.DefaultStudyForm, f.DefaultStudyForm)
	set(&cfg.MinScore, f.MinScore)
	set(&cfg.MaxScore, f.MaxScore)
	set(&cfg.LatestScoreYear, f.LatestScoreYear)
	if f.CurrencyWords != nil {
		cfg.CurrencyWords = f.CurrencyWords
	}
	for k, v := range f.SubjectAbbreviations {
		cfg.SubjectAbbreviations[k] = v
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func validate(cfg extract.Config) error {
	switch {
	case cfg.Anchors.StudyForm == "":
		return priem.Errorf(priem.EINVALID, "anchors.study_form must not be empty")
	case cfg.MinBlockLength < 0:
		return priem.Errorf(priem.EINVALID, "min_block_length must not be negative")
	case cfg.MinScore > cfg.MaxScore:
		return priem.Errorf(priem.EINVALID, "min_score %d exceeds max_score %d", cfg.MinScore, cfg.MaxScore)
	case cfg.Dashes == "":
		return priem.Errorf(priem.EINVALID, "dashes must not be empty")
	}
	for k, v := range cfg.SubjectAbbreviations {
		if k == "" || v == "" {
			return priem.Errorf(priem.EINVALID, "subject abbreviation %q has an empty key or name", k)
		}
	}
	return nil
}
