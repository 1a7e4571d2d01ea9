// Command analyze runs a recorded pose-frame stream through the analysis
// engine and prints the session report.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/strideworks/form.report/internal/api"
	"github.com/strideworks/form.report/internal/config"
	"github.com/strideworks/form.report/internal/engine"
	"github.com/strideworks/form.report/internal/report"
)

func main() {
	var exercise string
	var framesPath string
	var configPath string
	var chartPath string
	var plotPath string
	var remote string

	flag.StringVar(&exercise, "exercise", "", "exercise identifier (see -list)")
	flag.StringVar(&framesPath, "frames", "", "path to frames JSON file")
	flag.StringVar(&configPath, "config", "", "optional tuning config JSON path")
	flag.StringVar(&chartPath, "chart", "", "write session chart HTML to this path")
	flag.StringVar(&plotPath, "plot", "", "write primary-angle trace PNG to this path")
	flag.StringVar(&remote, "remote", "", "stream through a running server at this base URL instead of analyzing locally")
	list := flag.Bool("list", false, "list known exercises and exit")
	flag.Parse()

	if *list {
		for _, name := range engine.Exercises() {
			fmt.Println(name)
		}
		return
	}

	if exercise == "" || framesPath == "" {
		log.Fatalf("-exercise and -frames must be provided")
	}

	frames, err := loadFrames(framesPath)
	if err != nil {
		log.Fatalf("load frames: %v", err)
	}

	if remote != "" {
		runRemote(remote, exercise, frames)
		return
	}

	cfg := config.EmptyTuningConfig()
	if configPath != "" {
		cfg, err = config.LoadTuningConfig(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	profile, err := engine.ProfileFor(exercise)
	if err != nil {
		log.Fatalf("unknown exercise: %v", err)
	}

	session, err := engine.NewSession(profile, cfg.SessionOptions())
	if err != nil {
		log.Fatalf("create session: %v", err)
	}

	for _, frame := range frames {
		if _, err := session.ProcessFrame(frame); err != nil {
			log.Fatalf("frame %d: %v", frame.Index, err)
		}
	}
	sessionReport := session.Finish()

	if chartPath != "" {
		html, err := report.SessionChartHTML(sessionReport, profile.Segmentation, session.PrimaryTrace())
		if err != nil {
			log.Fatalf("render chart: %v", err)
		}
		if err := os.WriteFile(chartPath, html, 0644); err != nil {
			log.Fatalf("write chart: %v", err)
		}
	}
	if plotPath != "" {
		if err := report.SaveTracePlot(exercise, profile.Segmentation, session.PrimaryTrace(), plotPath); err != nil {
			log.Fatalf("write plot: %v", err)
		}
	}

	printReport(sessionReport)
}

func runRemote(baseURL, exercise string, frames []engine.FrameSample) {
	client := api.NewClient(baseURL, nil)

	id, err := client.CreateSession(exercise)
	if err != nil {
		log.Fatalf("create remote session: %v", err)
	}

	const batchSize = 200
	for i := 0; i < len(frames); i += batchSize {
		end := i + batchSize
		if end > len(frames) {
			end = len(frames)
		}
		if _, err := client.PostFrames(id, frames[i:end]); err != nil {
			log.Fatalf("post frames: %v", err)
		}
	}

	sessionReport, err := client.Finish(id)
	if err != nil {
		log.Fatalf("finish remote session: %v", err)
	}
	printReport(sessionReport)
}

func loadFrames(path string) ([]engine.FrameSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var frames []engine.FrameSample
	if err := json.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("failed to parse frames JSON: %w", err)
	}
	return frames, nil
}

func printReport(r engine.SessionReport) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		log.Fatalf("encode report: %v", err)
	}
}
