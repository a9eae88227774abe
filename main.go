package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/Weeki513/Kiklet/audio"
	"github.com/Weeki513/Kiklet/deliver"
	"github.com/Weeki513/Kiklet/hotkey"
	"github.com/Weeki513/Kiklet/log"
	"github.com/Weeki513/Kiklet/notify"
	"github.com/Weeki513/Kiklet/pipeline"
	"github.com/Weeki513/Kiklet/settings"
	"github.com/Weeki513/Kiklet/speech"
	"github.com/Weeki513/Kiklet/storage"
)

var version = "dev"

// Recordings older than this are dropped at startup.
const purgeAfter = 30 * 24 * time.Hour

func main() {
	run()
}

func run() {
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	dataDirFlag := flag.String("datadir", "", "recordings directory (default: OS-specific location)")
	settingsFlag := flag.String("settings", "", "settings file path (default: OS-specific location)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	headlessFlag := flag.Bool("headless", false, "Disable desktop notifications")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("kiklet %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *headlessFlag {
		notify.Disable()
	}

	settingsPath := *settingsFlag
	if settingsPath == "" {
		settingsPath, err = settings.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	store, err := settings.NewStore(settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dataDir := *dataDirFlag
	if dataDir == "" {
		dataDir, err = defaultDataDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	recordings, err := storage.Open(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	svc := speech.NewClient(func() string { return store.Get().OpenAIAPIKey })

	// Subcommands operate on the stores and exit.
	if args := flag.Args(); len(args) > 0 {
		os.Exit(runCommand(args, store, recordings, svc))
	}

	audioCtx, err := audio.NewContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer audioCtx.Close()

	app := newApp(store, recordings, audioCtx, svc)

	if n, err := recordings.Purge(purgeAfter); err != nil {
		log.Warnf("purging old recordings: %v", err)
	} else if n > 0 {
		log.Info(fmt.Sprintf("purged %d old recordings", n))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(args []string, store *settings.Store, recordings *storage.Store, svc speech.Service) int {
	switch args[0] {
	case "list":
		items := recordings.List()
		if len(items) == 0 {
			fmt.Println("No recordings.")
			return 0
		}
		for _, it := range items {
			fmt.Printf("%s  %s  %.1fs  %d bytes\n", it.ID, it.CreatedAt, it.DurationSec, it.SizeBytes)
		}
		return 0

	case "delete":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: kiklet delete <recording-id>")
			return 1
		}
		if err := recordings.Remove(args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println("Deleted.")
		return 0

	case "retry":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: kiklet retry <recording-id>")
			return 1
		}
		if !store.Get().HasCredential() {
			fmt.Fprintln(os.Stderr, "Error: no API key configured")
			return 1
		}
		pipe := pipeline.New(pipeline.NewStore(), svc, deliver.New(), notify.New(), store.Get)
		return retryRecording(context.Background(), args[1], recordings, pipe)

	case "models":
		models, err := svc.ListModels(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		for _, m := range models {
			fmt.Println(m.ID)
		}
		return 0

	case "doctor":
		return runDoctor(store)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q (use: list, delete, retry, models, doctor)\n", args[0])
		return 1
	}
}

// retryRecording reruns the transcription pipeline for a stored recording
// and prints the outcome.
func retryRecording(ctx context.Context, id string, recordings *storage.Store, pipe *pipeline.Pipeline) int {
	var item storage.Item
	found := false
	for _, it := range recordings.List() {
		if it.ID == id {
			item = it
			found = true
			break
		}
	}
	if !found {
		fmt.Fprintf(os.Stderr, "Error: no recording with ID %q\n", id)
		return 1
	}

	pipe.Retry(ctx, item)

	switch st := pipe.States().Get(item.ID); st.Status {
	case pipeline.StatusDone:
		if st.Text == "" {
			fmt.Println("No speech recognized.")
		} else {
			fmt.Println(st.Text)
		}
		return 0
	case pipeline.StatusError:
		fmt.Fprintf(os.Stderr, "Error: %s\n", st.Err)
		return 1
	default:
		fmt.Fprintf(os.Stderr, "Error: transcription did not finish (%s)\n", st.Status)
		return 1
	}
}

func runDoctor(store *settings.Store) int {
	cfg := store.Get()
	fail := 0

	if msg, err := hotkey.Diagnose(); err != nil {
		fmt.Printf("hotkey: FAIL (%v)\n", err)
		fail = 1
	} else {
		fmt.Printf("hotkey: OK (%s)\n", msg)
	}

	if _, err := hotkey.Parse(cfg.HotkeyAccelerator); err != nil {
		fmt.Printf("binding %q: FAIL (%v)\n", cfg.HotkeyAccelerator, err)
		fail = 1
	} else {
		fmt.Printf("binding %q: OK\n", cfg.HotkeyAccelerator)
	}

	if audioCtx, err := audio.NewContext(); err != nil {
		fmt.Printf("audio: FAIL (%v)\n", err)
		fail = 1
	} else {
		devices, _ := audioCtx.Devices()
		fmt.Printf("audio: OK (%d capture devices)\n", len(devices))
		audioCtx.Close()
	}

	if cfg.HasCredential() {
		fmt.Println("API key: configured")
	} else {
		fmt.Println("API key: missing (transcription disabled)")
	}
	return fail
}

func defaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "kiklet", "recordings"), nil
}
