package library

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dhowden/tag"
	"github.com/google/uuid"

	"tunebox/backend/store"
)

// audioExtensions are the file types the scanner indexes. Indexing is wider
// than what the engine can decode; unplayable formats fail at load time.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".wav":  true,
	".flac": true,
	".aac":  true,
}

// skipDirs are well-known non-music directories.
var skipDirs = map[string]bool{
	"android":       true,
	"data":          true,
	"obb":           true,
	"cache":         true,
	"alarms":        true,
	"notifications": true,
	"ringtones":     true,
}

const maxScanDepth = 10

type JobStatus string

const (
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// ScanJob tracks one background scan pass.
type ScanJob struct {
	ID         string     `json:"id"`
	Status     JobStatus  `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	FilesSeen  int        `json:"files_seen"`
	SongsAdded int        `json:"songs_added"`
	Error      string     `json:"error,omitempty"`
}

// Scanner walks the configured music directories and feeds the store.
type Scanner struct {
	store *store.Store
	roots []string

	mu   sync.Mutex
	jobs map[string]*ScanJob
}

func NewScanner(st *store.Store, roots []string) *Scanner {
	return &Scanner{
		store: st,
		roots: roots,
		jobs:  make(map[string]*ScanJob),
	}
}

// Start kicks off a background scan and returns its job id immediately.
func (sc *Scanner) Start() string {
	job := &ScanJob{
		ID:        uuid.NewString(),
		Status:    JobRunning,
		StartedAt: time.Now(),
	}

	sc.mu.Lock()
	sc.jobs[job.ID] = job
	sc.mu.Unlock()

	go sc.run(job.ID)
	return job.ID
}

// Job returns a snapshot of the job, or false if the id is unknown.
func (sc *Scanner) Job(id string) (ScanJob, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	job, ok := sc.jobs[id]
	if !ok {
		return ScanJob{}, false
	}
	return *job, true
}

func (sc *Scanner) run(jobID string) {
	ctx := context.Background()
	var filesSeen, songsAdded int

	var failure error
	for _, root := range sc.roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Printf("WARN: scan: %s: %v", path, err)
				return nil
			}

			if d.IsDir() {
				name := strings.ToLower(d.Name())
				if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
					return fs.SkipDir
				}
				if scanDepth(root, path) > maxScanDepth {
					return fs.SkipDir
				}
				return nil
			}

			if !audioExtensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}

			filesSeen++
			added, err := sc.indexFile(ctx, path)
			if err != nil {
				log.Printf("WARN: scan: indexing %s: %v", path, err)
				return nil
			}
			if added {
				songsAdded++
			}

			sc.updateJob(jobID, func(j *ScanJob) {
				j.FilesSeen = filesSeen
				j.SongsAdded = songsAdded
			})
			return nil
		})
		if err != nil {
			failure = err
			break
		}
	}

	now := time.Now()
	sc.updateJob(jobID, func(j *ScanJob) {
		j.FilesSeen = filesSeen
		j.SongsAdded = songsAdded
		j.FinishedAt = &now
		if failure != nil {
			j.Status = JobFailed
			j.Error = failure.Error()
		} else {
			j.Status = JobDone
		}
	})

	if failure != nil {
		log.Printf("ERROR: scan %s failed: %v", jobID, failure)
		return
	}
	log.Printf("Scan %s finished: %d files seen, %d songs added", jobID, filesSeen, songsAdded)
}

func (sc *Scanner) updateJob(id string, fn func(*ScanJob)) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if job, ok := sc.jobs[id]; ok {
		fn(job)
	}
}

// indexFile inserts one audio file as a song and links its artists and
// genre. Reports whether a new song row was created.
func (sc *Scanner) indexFile(ctx context.Context, path string) (bool, error) {
	song := readFileTags(path)

	id, created, err := sc.store.InsertSong(ctx, song)
	if err != nil {
		return false, err
	}
	if !created {
		return false, nil
	}

	if _, err := LinkSongArtists(ctx, sc.store, id, song.Artist); err != nil {
		log.Printf("WARN: scan: linking artists for %s: %v", path, err)
	}

	if song.Genre != "" {
		genreID, err := sc.store.CreateGenre(ctx, song.Genre, "")
		if err == nil {
			err = sc.store.LinkSongGenre(ctx, id, genreID)
		}
		if err != nil {
			log.Printf("WARN: scan: linking genre for %s: %v", path, err)
		}
	}

	return true, nil
}

// readFileTags builds a song record from the file's embedded tags. Files
// with no readable tags fall back to the filename stem as the title.
func readFileTags(path string) *store.Song {
	song := &store.Song{
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:  path,
	}

	f, err := os.Open(path)
	if err != nil {
		return song
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return song
	}

	if t := strings.TrimSpace(meta.Title()); t != "" {
		song.Title = t
	}
	song.Artist = strings.TrimSpace(meta.Artist())
	song.Genre = strings.TrimSpace(meta.Genre())
	return song
}

func scanDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
