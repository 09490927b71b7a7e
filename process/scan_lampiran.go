package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"simak/models"
	"simak/pkg/docscan"
	"simak/pkg/localstore"
)

// Scans a directory of scanned case documents, links each to a record by
// the NRP in its file name (or OCR text), and appends lampiran metadata.
// Optional watch mode keeps processing files as they are dropped in.

var verbose bool

// MIME mapping to avoid opening files repeatedly
var extMime = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// scanState preloads records and existing lampiran so per-file work stays
// in memory; every append saves the whole lampiran blob back.
type scanState struct {
	store    localstore.Store
	byNRP    map[string]models.ViolationRecord
	lampiran []models.Lampiran
	attached map[string]bool // recordID + "/" + fileName
	mu       sync.Mutex
}

func loadScanState(store localstore.Store) (*scanState, error) {
	ss := &scanState{
		store:    store,
		byNRP:    map[string]models.ViolationRecord{},
		attached: map[string]bool{},
	}
	var records []models.ViolationRecord
	if err := loadKey(store, localstore.KeyRecords, &records); err != nil {
		return nil, err
	}
	for _, r := range records {
		if _, ok := ss.byNRP[r.NRP]; !ok {
			ss.byNRP[r.NRP] = r
		}
	}
	if err := loadKey(store, localstore.KeyLampiran, &ss.lampiran); err != nil {
		return nil, err
	}
	for _, l := range ss.lampiran {
		ss.attached[l.RecordID+"/"+l.FileName] = true
	}
	return ss, nil
}

func loadKey(store localstore.Store, key string, dst any) error {
	b, ok, err := store.Load(key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return json.Unmarshal(b, dst)
}

// hasAttached reports whether the record already carries this file. Workers
// call it concurrently with append, so the map read takes the lock too.
func (ss *scanState) hasAttached(recordID, fileName string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.attached[recordID+"/"+fileName]
}

func (ss *scanState) append(l models.Lampiran) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	k := l.RecordID + "/" + l.FileName
	if ss.attached[k] {
		return nil
	}
	ss.lampiran = append(ss.lampiran, l)
	ss.attached[k] = true
	b, err := json.Marshal(ss.lampiran)
	if err != nil {
		return err
	}
	return ss.store.Save(localstore.KeyLampiran, b)
}

func main() {
	_ = godotenv.Load()

	dirFlag := flag.String("dir", defaultInboxDir(), "directory to scan for scanned case documents")
	dryRun := flag.Bool("dry-run", false, "only list candidate files and OCR results; no writes")
	watch := flag.Bool("watch", false, "watch directory for new files")
	workers := flag.Int("workers", 0, "worker pool size (default NumCPU)")
	flag.BoolVar(&verbose, "verbose", false, "verbose per-file logging")
	flag.Parse()

	if *dryRun {
		log.Printf("Dry-run: scanning %s (no writes)", *dirFlag)
		for _, f := range listImageFiles(*dirFlag) {
			text, conf, err := docscan.ExtractText(filepath.Join(*dirFlag, f))
			if err != nil {
				log.Printf("OCR fail %s: %v", f, err)
				continue
			}
			nrp, ok := docscan.FindNRP(text)
			log.Printf("%s conf=%.2f nrp=%s found=%v", f, conf, nrp, ok)
		}
		return
	}

	ss, err := loadScanState(localstore.Open())
	if err != nil {
		log.Fatalf("failed to load persisted data: %v", err)
	}
	log.Printf("Preloaded: records=%d lampiran=%d", len(ss.byNRP), len(ss.lampiran))

	files := listImageFiles(*dirFlag)
	log.Printf("Scanning %d files (workers=%d)", len(files), effectiveWorkers(*workers))
	runWorkerPool(*dirFlag, ss, files, effectiveWorkers(*workers))

	if *watch {
		if err := watchDirectory(*dirFlag, ss, effectiveWorkers(*workers)); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

// defaultInboxDir follows the server's LAMPIRAN_BASE layout.
func defaultInboxDir() string {
	base := os.Getenv("LAMPIRAN_BASE")
	if base == "" {
		base = "lampiran"
	}
	return filepath.Join(base, "inbox")
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func logV(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

func listImageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !isSupportedExt(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func isSupportedExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := extMime[ext]
	return ok
}

// worker pool orchestrator
func runWorkerPool(dir string, ss *scanState, initial []string, workers int, extraCh ...<-chan string) {
	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				processSingleFile(dir, name, ss)
			}
		}()
	}
	go func() {
		for _, f := range initial {
			fileCh <- f
		}
		for _, ch := range extraCh {
			go func(c <-chan string) {
				for n := range c {
					fileCh <- n
				}
			}(ch)
		}
		if len(extraCh) == 0 {
			close(fileCh)
		}
	}()
	if len(extraCh) == 0 {
		wg.Wait()
	}
}

// processSingleFile OCRs one document and attaches it to its record.
func processSingleFile(dir, name string, ss *scanState) {
	fullPath := filepath.Join(dir, name)

	text, conf, ocrErr := docscan.ExtractText(fullPath)

	// file-name convention wins; OCR text is the fallback
	nrp, ok := docscan.NRPFromFileName(name)
	if !ok && ocrErr == nil {
		nrp, ok = docscan.FindNRP(text)
	}
	if !ok {
		logV("SKIP no NRP for %s", name)
		return
	}
	rec, found := ss.byNRP[nrp]
	if !found {
		logV("SKIP no record with NRP %s (%s)", nrp, name)
		return
	}
	if ss.hasAttached(rec.ID, name) {
		logV("SKIP already attached %s", name)
		return
	}

	l := models.Lampiran{
		ID:          uuid.NewString(),
		RecordID:    rec.ID,
		FileName:    name,
		StorePath:   fullPath,
		ContentType: extMime[strings.ToLower(filepath.Ext(name))],
		UploadedAt:  time.Now().UnixMilli(),
	}
	if ocrErr != nil {
		l.Failed = true
		l.FailedReason = ocrErr.Error()
	} else {
		l.OCRText = text
		l.OCRConf = conf
	}
	if err := ss.append(l); err != nil {
		log.Printf("ERROR save lampiran %s: %v", name, err)
		return
	}
	log.Printf("ATTACHED %s -> %s (%s)", name, rec.Nama, nrp)
}

func watchDirectory(dir string, ss *scanState, workers int) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %s (debounced) ...", dir)

	fileCh := make(chan string, 256)
	go func() {
		// simple debounce map of pending files
		pending := map[string]time.Time{}
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					close(fileCh)
					return
				}
				if ev.Op&fsnotify.Create == fsnotify.Create {
					name := filepath.Base(ev.Name)
					if !isSupportedExt(name) {
						continue
					}
					pending[name] = time.Now()
				}
			case <-ticker.C:
				now := time.Now()
				for name, t := range pending {
					if now.Sub(t) > 300*time.Millisecond { // stable
						fileCh <- name
						delete(pending, name)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					close(fileCh)
					return
				}
				log.Printf("watch error: %v", err)
			}
		}
	}()

	go runWorkerPool(dir, ss, nil, workers, fileCh)
	// block forever (Ctrl+C to exit)
	select {}
}
