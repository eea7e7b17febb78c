package apistub

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/dshills/larek/internal/model"
)

// entry is the on-disk form of a catalog product. YAML is a superset of JSON,
// so catalog files may be written in either.
type entry struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Category    string `yaml:"category"`
	Price       *int64 `yaml:"price"`
}

type catalogFile struct {
	Items []entry `yaml:"items"`
}

// LoadCatalog reads a catalog file with a top-level "items" list.
func LoadCatalog(path string) ([]model.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes catalog data in YAML or JSON.
func ParseCatalog(data []byte) ([]model.Product, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	products := make([]model.Product, 0, len(f.Items))
	seen := make(map[string]bool, len(f.Items))
	for i, e := range f.Items {
		if e.ID == "" {
			return nil, fmt.Errorf("parse catalog: item %d has no id", i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("parse catalog: duplicate id %q", e.ID)
		}
		seen[e.ID] = true

		p := model.Product{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Image:       e.Image,
			Category:    e.Category,
		}
		if e.Price != nil {
			p.Price = decimal.NewNullDecimal(decimal.NewFromInt(*e.Price))
		}
		products = append(products, p)
	}
	return products, nil
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() []model.Product {
	return []model.Product{
		{
			ID:          "854cef69-976d-4c2a-a18c-2aa45046c390",
			Title:       "+1 час в сутках",
			Description: "Если планируете решать задачи в тренажёре, берите два.",
			Image:       "/5_Dots.svg",
			Category:    "софт-скил",
			Price:       model.Price(750),
		},
		{
			ID:          "c101ab44-ed99-4a54-990d-47aa2bb4e7d9",
			Title:       "HEX-леденец",
			Description: "Лизните этот леденец, чтобы мгновенно запоминать и узнавать любой цветовой код CSS.",
			Image:       "/Shell.svg",
			Category:    "другое",
			Price:       model.Price(1450),
		},
		{
			ID:          "b06cde61-912f-4663-9751-09956c0eed67",
			Title:       "Мамка-таймер",
			Description: "Будет стоять над душой и не давать прокрастинировать.",
			Image:       "/Asterisk_2.svg",
			Category:    "софт-скил",
		},
		{
			ID:          "412bcf81-7e75-4e70-bdb9-d3c73c9803b7",
			Title:       "Фреймворк куки судьбы",
			Description: "Откройте эти куки, чтобы узнать, какой фреймворк вы должны изучить дальше.",
			Image:       "/Soft_Flower.svg",
			Category:    "дополнительное",
			Price:       model.Price(2500),
		},
		{
			ID:          "1c521d84-c48d-48fa-8cfb-9d911fa515fd",
			Title:       "Кнопка «Замьютить кота»",
			Description: "Если орёт кот, нажмите кнопку.",
			Image:       "/mute-cat.svg",
			Category:    "кнопка",
			Price:       model.Price(2000),
		},
		{
			ID:          "f3867296-45c7-4603-bd34-29cea3a061d5",
			Title:       "БЭМ-пылесос",
			Description: "Он будет следить за корректностью названий классов в вашем коде.",
			Image:       "/Pill.svg",
			Category:    "хард-скил",
			Price:       model.Price(1500),
		},
	}
}
