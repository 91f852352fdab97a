package commands

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed all:scaffold
var scaffoldFS embed.FS

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir   string `arg:"" help:"Directory to scaffold the new site in"`
	Force bool   `help:"Overwrite existing files"`
}

func (i *InitCmd) Run(_ *Global, _ *CLI) error {
	fmt.Println("Scaffolding new site in", i.Dir)
	if err := writeScaffold(i.Dir, i.Force); err != nil {
		return err
	}
	fmt.Println("Done. Build it with: mdpress build", i.Dir)
	return nil
}

func writeScaffold(dir string, force bool) error {
	return fs.WalkDir(scaffoldFS, "scaffold", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel("scaffold", path)
		if err != nil {
			return err
		}
		target := filepath.Join(dir, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if _, err := os.Stat(target); err == nil && !force {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", target)
		}
		data, err := scaffoldFS.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}
