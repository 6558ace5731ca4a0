//go:build mage

// Package main contains Mage build targets for pdf-suite developer tooling.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"go.yaml.in/yaml/v3"
)

// projectDirs lists the local directories a development checkout uses.
var projectDirs = []string{
	".secrets",
	"out",
	"state",
}

// Init creates the local working directories.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "pdf-suite"
	cmdPkg  = "./cmd/pdf-suite"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Tools builds the CLI and prints the tool catalog.
func Tools() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "tools")
}

// Stats prints Go line counts per package and the size of the data files
// the CLI embeds: catalog tools per tab and message keys per locale.
func Stats() error {
	pkgs, err := goLinesByPackage(".")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(pkgs))
	for name := range pkgs {
		names = append(names, name)
	}
	sort.Strings(names)

	var prod, test int
	fmt.Printf("%-28s %8s %8s\n", "package", "prod", "test")
	for _, name := range names {
		c := pkgs[name]
		prod += c.prod
		test += c.test
		fmt.Printf("%-28s %8d %8d\n", name, c.prod, c.test)
	}
	fmt.Printf("%-28s %8d %8d\n", "total", prod, test)

	tabs, err := catalogTools(catalogFile)
	if err != nil {
		return err
	}
	fmt.Println()
	for _, t := range tabs {
		fmt.Printf("Catalog %-20s %d tools\n", t.Name+":", len(t.Tools))
	}

	locales, err := filepath.Glob(filepath.Join(messagesDir, "*.yaml"))
	if err != nil {
		return err
	}
	for _, path := range locales {
		n, err := messageKeys(path)
		if err != nil {
			return err
		}
		fmt.Printf("Messages %-19s %d keys\n", strings.TrimSuffix(filepath.Base(path), ".yaml")+":", n)
	}
	return nil
}

const (
	catalogFile = "internal/catalog/catalog.yaml"
	messagesDir = "internal/messages"
)

type lineCount struct {
	prod, test int
}

// skipDirs are never walked for Go sources.
var skipDirs = map[string]bool{
	"_examples": true,
	binDir:      true,
	"out":       true,
	"state":     true,
}

// goLinesByPackage counts non-blank lines of Go files, keyed by directory.
func goLinesByPackage(root string) (map[string]lineCount, error) {
	counts := make(map[string]lineCount)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				n++
			}
		}
		dir := filepath.ToSlash(filepath.Dir(path))
		c := counts[dir]
		if strings.HasSuffix(path, "_test.go") {
			c.test += n
		} else {
			c.prod += n
		}
		counts[dir] = c
		return nil
	})
	return counts, err
}

type catalogTab struct {
	Name  string `yaml:"name"`
	Tools []struct {
		ID string `yaml:"id"`
	} `yaml:"tools"`
}

func catalogTools(path string) ([]catalogTab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc struct {
		Tabs []catalogTab `yaml:"tabs"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc.Tabs, nil
}

func messageKeys(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	var table map[string]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return len(table), nil
}
