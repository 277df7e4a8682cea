package configs

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"mercadona-parser-service/internal/core/domain"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed regions.json
var defaultRegionsJSON []byte

//go:embed regions.schema.json
var regionsSchemaJSON []byte

const regionsSchemaURL = "regions.schema.json"

// RegionTable - таблица регион -> склады. Загружается один раз и дальше только читается.
type RegionTable struct {
	regions []domain.Region
	byKey   map[string]int
}

type regionsDocument struct {
	Regions []struct {
		Key        string   `json:"key"`
		Name       string   `json:"name"`
		Warehouses []string `json:"warehouses"`
	} `json:"regions"`
}

// DefaultRegionTable возвращает встроенную таблицу 17 автономных сообществ
func DefaultRegionTable() (*RegionTable, error) {
	return ParseRegionTable(defaultRegionsJSON)
}

// LoadRegionTable читает таблицу из файла; пустой путь означает встроенную таблицу
func LoadRegionTable(path string) (*RegionTable, error) {
	if path == "" {
		return DefaultRegionTable()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read regions file: %w", err)
	}
	table, err := ParseRegionTable(raw)
	if err != nil {
		return nil, fmt.Errorf("regions file %s: %w", path, err)
	}
	return table, nil
}

// ParseRegionTable проверяет документ по JSON Schema и строит таблицу
func ParseRegionTable(raw []byte) (*RegionTable, error) {
	schema, err := compileRegionsSchema()
	if err != nil {
		return nil, err
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("regions document is not valid JSON: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return nil, fmt.Errorf("regions document does not match schema: %w", err)
	}

	var doc regionsDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode regions document: %w", err)
	}

	caser := cases.Title(language.Spanish)
	table := &RegionTable{byKey: make(map[string]int, len(doc.Regions))}
	for _, r := range doc.Regions {
		if _, dup := table.byKey[r.Key]; dup {
			return nil, fmt.Errorf("duplicate region key %q", r.Key)
		}
		name := r.Name
		if name == "" {
			name = caser.String(strings.ReplaceAll(r.Key, "_", " "))
		}
		table.byKey[r.Key] = len(table.regions)
		table.regions = append(table.regions, domain.Region{
			Key:        r.Key,
			Name:       name,
			Warehouses: append([]string(nil), r.Warehouses...),
		})
	}
	return table, nil
}

func compileRegionsSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(regionsSchemaURL, bytes.NewReader(regionsSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add regions schema: %w", err)
	}
	schema, err := compiler.Compile(regionsSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile regions schema: %w", err)
	}
	return schema, nil
}

// All возвращает регионы в порядке документа
func (t *RegionTable) All() []domain.Region {
	out := make([]domain.Region, len(t.regions))
	copy(out, t.regions)
	return out
}

// Select возвращает регионы по ключам в порядке запроса; пустой список означает все.
// Неизвестный ключ - ошибка до любых запросов к магазину.
func (t *RegionTable) Select(keys []string) ([]domain.Region, error) {
	if len(keys) == 0 {
		return t.All(), nil
	}
	out := make([]domain.Region, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		key = strings.ToLower(strings.TrimSpace(key))
		i, ok := t.byKey[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRegion, key)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t.regions[i])
	}
	return out, nil
}

// DisplayName возвращает название региона; для неизвестного ключа - сам ключ
func (t *RegionTable) DisplayName(key string) string {
	if i, ok := t.byKey[key]; ok {
		return t.regions[i].Name
	}
	return key
}
