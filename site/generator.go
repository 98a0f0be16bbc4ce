// Package site turns validated menu items into Hugo page bundles and runs
// the external site build.
package site

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"menugen/menu"
)

// frontMatter is the YAML header of an item page. The item name serializes
// as title to match the site theme.
type frontMatter struct {
	Title        string   `yaml:"title"`
	Category     string   `yaml:"category"`
	Price        int      `yaml:"price"`
	WeightUnit   string   `yaml:"weight_unit"`
	Image        string   `yaml:"image"`
	Testimonials []string `yaml:"testimonials,omitempty"`
}

// Generator writes the content tree consumed by the site build.
type Generator struct {
	// ContentDir is the site content root; items land in ContentDir/items.
	ContentDir string
	// ImagesDir holds the derived web images to copy into page bundles.
	ImagesDir string
	Logger    *slog.Logger
}

// Generate rebuilds the items section from scratch: one page bundle per
// item with its web image copied alongside, plus the menu section page.
// The old tree is removed first so deleted rows disappear from the site.
func (g *Generator) Generate(items []menu.Item) error {
	logger := g.logger()

	itemsDir := filepath.Join(g.ContentDir, "items")
	if err := os.RemoveAll(itemsDir); err != nil {
		return fmt.Errorf("clean items directory: %w", err)
	}
	if err := os.MkdirAll(itemsDir, 0755); err != nil {
		return fmt.Errorf("create items directory: %w", err)
	}

	for _, item := range items {
		if err := g.writeItem(itemsDir, item); err != nil {
			return err
		}
		logger.Info("page written",
			slog.String("item", item.Name), slog.String("slug", item.Slug()))
	}

	if err := g.writeMenuIndex(); err != nil {
		return err
	}

	g.reportOrphans(items)
	return nil
}

func (g *Generator) writeItem(itemsDir string, item menu.Item) error {
	dir := filepath.Join(itemsDir, item.Slug())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create page bundle %s: %w", item.Slug(), err)
	}

	webName := item.WebImageName()
	src := filepath.Join(g.ImagesDir, webName)
	if data, err := os.ReadFile(src); err == nil {
		if err := os.WriteFile(filepath.Join(dir, webName), data, 0644); err != nil {
			return fmt.Errorf("copy image %s: %w", webName, err)
		}
	} else {
		g.logger().Warn("web image not found",
			slog.String("item", item.Name), slog.String("path", src))
	}

	fm, err := yaml.Marshal(frontMatter{
		Title:        item.Name,
		Category:     item.Category,
		Price:        item.Price,
		WeightUnit:   item.WeightUnit,
		Image:        webName,
		Testimonials: item.Testimonials,
	})
	if err != nil {
		return fmt.Errorf("marshal front matter for %s: %w", item.Name, err)
	}

	page := fmt.Sprintf("---\n%s---\n\n%s\n", fm, item.Description)
	if err := os.WriteFile(filepath.Join(dir, "index.md"), []byte(page), 0644); err != nil {
		return fmt.Errorf("write page for %s: %w", item.Name, err)
	}
	return nil
}

func (g *Generator) writeMenuIndex() error {
	menuDir := filepath.Join(g.ContentDir, "menu")
	if err := os.MkdirAll(menuDir, 0755); err != nil {
		return fmt.Errorf("create menu directory: %w", err)
	}
	const page = "---\ntitle: Our Menu\n---\n"
	if err := os.WriteFile(filepath.Join(menuDir, "_index.md"), []byte(page), 0644); err != nil {
		return fmt.Errorf("write menu index: %w", err)
	}
	return nil
}

// reportOrphans warns about web images no published item references
// anymore. Warning only; stale assets are an operator cleanup, not a
// deploy blocker.
func (g *Generator) reportOrphans(items []menu.Item) {
	matches, err := doublestar.FilepathGlob(filepath.Join(g.ImagesDir, "**", "*.jpg"))
	if err != nil || len(matches) == 0 {
		return
	}
	used := make(map[string]bool, len(items))
	for _, item := range items {
		used[item.WebImageName()] = true
	}
	for _, m := range matches {
		if !used[filepath.Base(m)] {
			g.logger().Warn("orphaned web image", slog.String("path", m))
		}
	}
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}
