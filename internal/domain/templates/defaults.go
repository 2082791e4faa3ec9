package templates

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type defaultTemplate struct {
	Name          string        `yaml:"name"`
	NameEn        string        `yaml:"nameEn"`
	Description   string        `yaml:"description"`
	DescriptionEn string        `yaml:"descriptionEn"`
	Icon          string        `yaml:"icon"`
	Items         []defaultItem `yaml:"items"`
}

type defaultItem struct {
	Name       string `yaml:"name"`
	NameEn     string `yaml:"nameEn"`
	Category   string `yaml:"category"`
	CategoryEn string `yaml:"categoryEn"`
}

// DefaultCatalog parses the built-in templates shipped with the binary.
func DefaultCatalog() ([]CreateTemplateInput, error) {
	return parseCatalog(defaultsYAML)
}

func parseCatalog(data []byte) ([]CreateTemplateInput, error) {
	var raw []defaultTemplate
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse default templates: %w", err)
	}

	result := make([]CreateTemplateInput, 0, len(raw))
	for i, tpl := range raw {
		if strings.TrimSpace(tpl.Name) == "" {
			return nil, fmt.Errorf("default template %d: %w", i, ErrNameRequired)
		}

		input := CreateTemplateInput{
			Name:          tpl.Name,
			NameEn:        optionalString(tpl.NameEn),
			Description:   optionalString(tpl.Description),
			DescriptionEn: optionalString(tpl.DescriptionEn),
			Icon:          optionalString(tpl.Icon),
			Items:         make([]CreateItemInput, 0, len(tpl.Items)),
		}
		for _, item := range tpl.Items {
			input.Items = append(input.Items, CreateItemInput{
				Name:       item.Name,
				NameEn:     optionalString(item.NameEn),
				Category:   optionalString(item.Category),
				CategoryEn: optionalString(item.CategoryEn),
			})
		}
		result = append(result, input)
	}

	return result, nil
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
