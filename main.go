// Command crystview is a desktop viewer for periodic crystal structures.
// With -export it runs headless and writes the rendered structure as STL.
package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/chazu/crystview/pkg/app"
	"github.com/chazu/crystview/pkg/config"
)

//go:embed all:frontend/dist
var assets embed.FS

const appTitle = "crystview"

var (
	flagConfig = flag.String("config", "", "TOML configuration file")
	flagScript = flag.String("script", "", "Structure script to load")
	flagExport = flag.String("export", "", "Write the structure as STL to this path and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := loadConfig(*flagConfig)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("app: %v", err)
	}

	if *flagExport != "" {
		if err := export(a, *flagScript, *flagExport); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *flagScript != "" {
		if r := evalFile(a, *flagScript); len(r.Errors) > 0 {
			log.Printf("Failed to load %s: %s", *flagScript, r.Errors[0].Message)
		}
	}

	err = wails.Run(&options.App{
		Title:  appTitle,
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.OnStartup(a),
		Bind: []interface{}{
			a,
		},
	})
	if err != nil {
		log.Fatalf("wails: %v", err)
	}
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	log.Printf("Loaded config %s", path)
	return cfg, nil
}

func evalFile(a *app.App, path string) app.EvalResult {
	source, err := os.ReadFile(path)
	if err != nil {
		r := app.EvalResult{}
		r.Errors = append(r.Errors, app.EvalErrorData{Message: err.Error()})
		return r
	}
	return a.Evaluate(string(source))
}

func export(a *app.App, script, out string) error {
	if script == "" {
		return errors.New("-export needs -script")
	}
	r := evalFile(a, script)
	for _, w := range r.Warnings {
		log.Printf("%s: warning: %s", script, w.Message)
	}
	if len(r.Errors) > 0 {
		e := r.Errors[0]
		if e.Line > 0 {
			return fmt.Errorf("%s:%d: %s", script, e.Line, e.Message)
		}
		return fmt.Errorf("%s: %s", script, e.Message)
	}
	return a.Export(out)
}
