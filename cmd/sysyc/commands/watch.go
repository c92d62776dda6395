package commands

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sysyc/internal/compileerr"
	"sysyc/internal/diag"
)

// watchAddr is the fixed address the diagnostic websocket server listens
// on; a teaching compiler doesn't need a configurable port for this.
const watchAddr = ":4173"

const pollInterval = 300 * time.Millisecond

// Watch implements the `sysyc watch <input>` subcommand: a thin alias for
// `sysyc -riscv <input> -o <input-with-.s> --watch`, so the one-shot and
// watch-mode code paths never drift apart.
func Watch(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("sysyc: watch expects an input file")
	}
	input := args[0]
	output := strings.TrimSuffix(input, filepath.Ext(input)) + ".s"
	buildArgs := append([]string{string(ModeRiscV), input, "-o", output, "--watch"}, args[1:]...)
	return Build(buildArgs)
}

// watchLoop starts the diagnostic websocket hub, then polls input's mtime
// and re-runs rebuild whenever it changes, broadcasting the outcome to
// every connected client. It runs until the process is killed.
func watchLoop(input string, rebuild func() error) error {
	hub := diag.NewHub()
	mux := http.NewServeMux()
	mux.HandleFunc("/diagnostics", hub.ServeWS)
	srv := &http.Server{Addr: watchAddr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("sysyc: watch server: %v", err)
		}
	}()
	fmt.Fprintf(os.Stderr, "sysyc: watching %s, diagnostics at ws://127.0.0.1%s/diagnostics\n", input, watchAddr)

	lastMod, err := mtime(input)
	if err != nil {
		return err
	}
	broadcastResult(hub, nil)

	for {
		time.Sleep(pollInterval)
		mod, err := mtime(input)
		if err != nil {
			continue // transient, e.g. an editor's save-via-rename window
		}
		if !mod.After(lastMod) {
			continue
		}
		lastMod = mod
		err = rebuild()
		broadcastResult(hub, err)
	}
}

func mtime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func broadcastResult(hub *diag.Hub, err error) {
	if err == nil {
		hub.Broadcast(diag.Event{OK: true, Message: "build succeeded"})
		return
	}
	ev := diag.Event{OK: false, Message: err.Error()}
	if ce, ok := err.(*compileerr.Error); ok && ce.Location.Line > 0 {
		ev.Location = &diag.Location{File: ce.Location.File, Line: ce.Location.Line, Column: ce.Location.Column}
	}
	hub.Broadcast(ev)
}
