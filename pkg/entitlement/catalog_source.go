package entitlement

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

type inMemSource struct {
	catalog Catalog
}

// NewInMemSource returns a CatalogSource serving a copy of the given catalog.
// Passing no catalog serves the built-in defaults.
func NewInMemSource(catalog Catalog) CatalogSource {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &inMemSource{catalog: maps.Clone(catalog)}
}

func (s *inMemSource) Load(ctx context.Context) (Catalog, error) {
	return maps.Clone(s.catalog), nil
}

type yamlSource struct {
	path string
}

// NewYAMLSource returns a CatalogSource reading the allowance table from a
// YAML file, so deployments can tune paid-tier allowances without a rebuild:
//
//	plans:
//	  free: 5
//	  basic: 30
//	  pro: 250
//
// Plans missing from the file keep their default allowance.
func NewYAMLSource(path string) CatalogSource {
	return &yamlSource{path: path}
}

func (s *yamlSource) Load(ctx context.Context) (Catalog, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	var doc struct {
		Plans map[string]int64 `yaml:"plans"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	catalog := DefaultCatalog()
	for name, allowance := range doc.Plans {
		plan, err := ParsePlan(name)
		if err != nil {
			return nil, errors.Join(ErrFailedToLoadCatalog,
				fmt.Errorf("unknown plan %q in %s", name, s.path))
		}
		catalog[plan] = allowance
	}

	return catalog, nil
}
