// cmd/tools/template-pack/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"invoice-template-workers/internal/models"
	"invoice-template-workers/internal/templates"
	"invoice-template-workers/pkg/templatepack"
)

const defaultPackPath = "configs/template-pack.json"

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)

	exportOut := exportCmd.String("out", defaultPackPath, "Path of the pack to write")
	exportIDs := exportCmd.String("ids", "", "Comma separated built-in IDs (default: all)")

	validatePath := validateCmd.String("path", defaultPackPath, "Path to the pack file")

	addPath := addCmd.String("path", defaultPackPath, "Path to the pack file (created if missing)")
	addName := addCmd.String("name", "", "Template name")
	addCategory := addCmd.String("category", "professional", "Category (professional, creative, minimal, corporate)")
	addThumbnail := addCmd.String("thumbnail", "", "Thumbnail URL")
	addConfig := addCmd.String("config", "", "JSON file holding the template config (default: the stock config)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		n, err := exportBuiltins(*exportOut, splitIDs(*exportIDs))
		if err != nil {
			fmt.Printf("Error exporting templates: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d templates to %s\n", n, *exportOut)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		p, err := templatepack.Load(*validatePath)
		if err != nil {
			fmt.Printf("Error loading pack: %v\n", err)
			os.Exit(1)
		}
		if err := p.Validate(); err != nil {
			fmt.Printf("Pack validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Pack validation passed. Found %d templates.\n", len(p.Templates))

	case "add":
		addCmd.Parse(os.Args[2:])
		if *addName == "" {
			fmt.Println("Error: name is required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		payload := models.TemplatePayload{
			Name:      *addName,
			Category:  models.TemplateCategory(*addCategory),
			Thumbnail: *addThumbnail,
		}
		if err := addTemplate(*addPath, payload, *addConfig); err != nil {
			fmt.Printf("Error adding template: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added template: %s\n", *addName)

	case "help":
		fallthrough
	default:
		help()
	}
}

func exportBuiltins(out string, ids []string) (int, error) {
	p, err := templatepack.FromRegistry(templates.NewRegistry(), ids...)
	if err != nil {
		return 0, err
	}
	if err := templatepack.Save(p, out); err != nil {
		return 0, err
	}
	return len(p.Templates), nil
}

func addTemplate(path string, payload models.TemplatePayload, configPath string) error {
	p, err := templatepack.Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load pack: %w", err)
		}
		p = templatepack.New()
	}

	cfg := templates.DefaultConfig()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}
	payload.Config = &cfg

	if v := templates.ValidateConfig(cfg); !v.Valid {
		fmt.Printf("Warning: %s\n", strings.Join(v.Errors, "; "))
	}

	if err := p.Add(payload); err != nil {
		return err
	}
	return templatepack.Save(p, path)
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func help() {
	fmt.Print(`
Usage: template-pack <command> [flags]

Commands:
  export    Write the built-in templates to a pack
  validate  Validate a pack file
  add       Add a template to a pack
  help      Show this help message

Examples:
  template-pack export -out configs/template-pack.json
  template-pack export -ids creative-bold,minimal-clean -out /tmp/pack.json
  template-pack add -name "Studio Invoice" -category creative -config studio.json
  template-pack validate -path configs/template-pack.json

Use 'template-pack <command> -h' for more information about a command.
`)
}
