package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"particle-engine/config"
	"particle-engine/core"
	"particle-engine/internal/opengl"
	"particle-engine/particle"
	"particle-engine/renderer"
	"particle-engine/telemetry"
)

var skyColor = core.Color{R: 0.05, G: 0.05, B: 0.08, A: 1}

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults are embedded)")
	dumpConfig := flag.String("dump-config", "", "write the effective config to this path and exit")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if err := run(*configPath, *dumpConfig, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dumpConfig string, debug bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dumpConfig != "" {
		return cfg.WriteYAML(dumpConfig)
	}
	params, err := cfg.Params()
	if err != nil {
		return err
	}

	logger := core.NewDefaultLogger("demo", debug || cfg.Debug)

	window, err := opengl.NewWindow(windowConfig(cfg.Window))
	if err != nil {
		return err
	}
	defer window.Destroy()
	logger.Infof("OpenGL version: %s", opengl.Version())

	backend, err := opengl.NewParticleBackend(params.MaxParticles)
	if err != nil {
		return err
	}
	defer backend.Destroy()

	particleRenderer := renderer.NewParticleRenderer(backend)
	emitter, err := particle.NewEmitter(params, particle.NewRandomSource(cfg.Emitter.Seed), particleRenderer, logger)
	if err != nil {
		return err
	}
	emitter.Activate()
	logger.Infof("[Particles] emitter %s: capacity=%d rate=%.0f/s saturation=%s",
		emitter.ID(), params.MaxParticles, params.SpawnRate, params.Saturation)

	recorder, closeTelemetry, err := openTelemetry(cfg.Telemetry)
	if err != nil {
		return err
	}
	defer closeTelemetry()

	camera := newOrbitCamera(cfg.Camera)
	status := &StatusLine{}

	fmt.Println("Controls:")
	fmt.Println("  E      - Toggle emitter (activate / deactivate)")
	fmt.Println("  R      - Restart emitter")
	fmt.Println("  ESC    - Quit")

	var (
		frame       int
		emitterKey  bool
		restartKey  bool
		lastTime    = time.Now()
		titleTime   = lastTime
		framesInSec int
		displayFPS  int
	)

	for !window.ShouldClose() {
		window.PollEvents()
		now := time.Now()
		deltaTime := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if window.IsKeyPressed(glfw.KeyEscape) {
			window.Handle.SetShouldClose(true)
		}

		// E key — toggle spawning; existing particles drain either way
		eDown := window.IsKeyPressed(glfw.KeyE)
		if eDown && !emitterKey {
			if emitter.IsActive() {
				emitter.Deactivate()
			} else {
				emitter.Activate()
			}
			if emitter.IsActive() {
				fmt.Println("[Particles] ON")
			} else {
				fmt.Println("[Particles] OFF")
			}
		}
		emitterKey = eDown

		rDown := window.IsKeyPressed(glfw.KeyR)
		if rDown && !restartKey {
			emitter.Deactivate()
			emitter.Activate()
			fmt.Println("[Particles] restarted")
		}
		restartKey = rDown

		if cfg.Emitter.AutoDeactivate && emitter.ShouldBeDeactivated(emitter.Elapsed()) {
			emitter.Deactivate()
			fmt.Printf("[Particles] lifetime %.1fs reached, draining %d\n", params.LifeTime, emitter.ParticleCount())
		}

		camera.Update(deltaTime)
		backend.SetCamera(camera.View(), camera.Projection(window.Aspect()))

		emitter.Update(deltaTime, camera.Eye())

		opengl.BeginFrame(skyColor)
		if err := emitter.Render(); err != nil {
			logger.Errorf("render: %v", err)
		}
		window.SwapBuffers()

		frame++
		if recorder != nil {
			if err := recorder.Record(recorder.Snapshot(frame, emitter)); err != nil {
				logger.Warnf("%v; telemetry disabled", err)
				recorder = nil
			}
		}

		framesInSec++
		if now.Sub(titleTime) >= time.Second {
			displayFPS = framesInSec
			framesInSec = 0
			titleTime = now

			instances, draws := particleRenderer.DrawStats()
			status.Clear()
			status.Add("%s", cfg.Window.Title)
			status.Add("FPS: %d", displayFPS)
			status.Add("%s %d/%d", emitter.State(), emitter.ParticleCount(), emitter.Capacity())
			status.Add("instances=%d draws=%d", instances, draws)
			window.SetTitle(status.String())
			logger.Debugf("[Frame %d] %s", frame, status.String())
		}
	}

	if recorder != nil {
		if err := recorder.Flush(); err != nil {
			logger.Warnf("%v", err)
		}
	}
	fmt.Println("Exiting...")
	return nil
}

func openTelemetry(cfg config.TelemetryConfig) (*telemetry.Recorder, func(), error) {
	if cfg.Path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", cfg.Path, err)
	}
	return telemetry.NewRecorder(f, cfg.FlushEvery), func() { f.Close() }, nil
}

// windowConfig overlays the YAML window section on the built-in defaults;
// zero or empty fields keep the default.
func windowConfig(cfg config.WindowConfig) opengl.WindowConfig {
	wc := opengl.DefaultWindowConfig()
	if cfg.Width > 0 {
		wc.Width = cfg.Width
	}
	if cfg.Height > 0 {
		wc.Height = cfg.Height
	}
	if cfg.Title != "" {
		wc.Title = cfg.Title
	}
	wc.VSync = cfg.VSync
	return wc
}
