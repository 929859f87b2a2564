package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fadilmartias/hr-onboarding/internal/model"
	"gopkg.in/yaml.v3"
)

// Catalog is the onboarding catalog file. Entries without a department apply
// to everyone.
type Catalog struct {
	Tasks   []TaskEntry   `yaml:"tasks"`
	Modules []ModuleEntry `yaml:"training_modules"`
}

type TaskEntry struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Department  string `yaml:"department"`
	DueDays     int    `yaml:"due_days"`
}

type ModuleEntry struct {
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	Department      string `yaml:"department"`
	DurationMinutes int    `yaml:"duration_minutes"`
}

type CatalogStore interface {
	UpsertCatalog(ctx context.Context, tasks []model.OnboardingTask, modules []model.TrainingModule) error
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for i, t := range c.Tasks {
		if strings.TrimSpace(t.Title) == "" {
			return nil, fmt.Errorf("catalog %s: task %d has no title", path, i+1)
		}
	}
	for i, m := range c.Modules {
		if strings.TrimSpace(m.Title) == "" {
			return nil, fmt.Errorf("catalog %s: training module %d has no title", path, i+1)
		}
	}
	return &c, nil
}

// Apply inserts catalog entries that are not stored yet. Running it again
// with the same file changes nothing.
func (c *Catalog) Apply(ctx context.Context, store CatalogStore) error {
	tasks := make([]model.OnboardingTask, 0, len(c.Tasks))
	for _, t := range c.Tasks {
		tasks = append(tasks, model.OnboardingTask{
			Title:       strings.TrimSpace(t.Title),
			Description: t.Description,
			Department:  department(t.Department),
			DueDays:     t.DueDays,
		})
	}
	modules := make([]model.TrainingModule, 0, len(c.Modules))
	for _, m := range c.Modules {
		modules = append(modules, model.TrainingModule{
			Title:           strings.TrimSpace(m.Title),
			Description:     m.Description,
			Department:      department(m.Department),
			DurationMinutes: m.DurationMinutes,
		})
	}
	return store.UpsertCatalog(ctx, tasks, modules)
}

func department(d string) string {
	d = strings.TrimSpace(d)
	if d == "" || strings.EqualFold(d, model.DepartmentAll) {
		return model.DepartmentAll
	}
	return d
}
