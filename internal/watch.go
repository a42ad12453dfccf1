package internal

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tt "github.com/cqlang/cqlin/internal/types"
	"github.com/fsnotify/fsnotify"
)

type watcher interface {
	Add(name string) error
	Close() error
}

// StartWatching begins re-linting the configured directories whenever a
// CQL file is written.
func (e *Engine) StartWatching(dirs []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.watching {
		return fmt.Errorf("already watching")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	e.watcher = w

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return w.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watching = true
	go e.watchLoop(w)
	return nil
}

// StopWatching halts the watch loop.
func (e *Engine) StopWatching() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.watching {
		log.Println("not watching")
		return nil
	}
	e.watching = false
	return e.watcher.Close()
}

func (e *Engine) watchLoop(w *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			e.handleFileEvent(event)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("error: %v", err)
		}
	}
}

func (e *Engine) handleFileEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Write != fsnotify.Write {
		return
	}
	if !HasDesiredExtension(event.Name) {
		return
	}
	// Editors fire several writes in a row; treat a short burst as one.
	time.Sleep(100 * time.Millisecond)
	issues, err := e.Run(event.Name)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	e.reportIssues(event.Name, issues)
}

func (e *Engine) reportIssues(filename string, issues []tt.Issue) {
	if len(issues) == 0 {
		log.Printf("no issues found in %s", filename)
		return
	}
	log.Printf("found %d issues in %s", len(issues), filename)
	for _, issue := range issues {
		log.Printf("- %s: %s", issue.Rule, issue.Message)
	}
}
