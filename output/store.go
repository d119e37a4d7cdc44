package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/hscells/quarry/learning"
	"github.com/mailru/easyjson"
	"github.com/peterbourgon/diskv"
	"github.com/pkg/errors"
)

// ErrNoRecord is returned when a run has no stored snapshots.
var ErrNoRecord = errors.New("no record")

// BlockTransform determines how diskv should partition folders.
func BlockTransform(blockSize int) func(string) []string {
	return func(s string) []string {
		var (
			sliceSize = len(s) / blockSize
			pathSlice = make([]string, sliceSize)
		)
		for i := 0; i < sliceSize; i++ {
			from, to := i*blockSize, (i*blockSize)+blockSize
			pathSlice[i] = s[from:to]
		}
		return pathSlice
	}
}

// Store keeps a record of every snapshot of a run on disk. Each run gets its own
// identifier; records are keyed by run and position in the run.
type Store struct {
	dv  *diskv.Diskv
	run string
	seq int
	err error
}

// NewStore creates a store for a new run under dir.
func NewStore(dir string) *Store {
	return NewDiskvStore(diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    BlockTransform(8),
		CacheSizeMax: 4096 * 1024,
	}))
}

// NewDiskvStore creates a store for a new run with the specified diskv parameters.
func NewDiskvStore(dv *diskv.Diskv) *Store {
	return &Store{dv: dv, run: strings.Replace(uuid.New().String(), "-", "", -1)}
}

// Run is the identifier of the run being recorded.
func (s *Store) Run() string {
	return s.run
}

func (s *Store) key(run string, seq int) string {
	return fmt.Sprintf("%s%06d", run, seq)
}

func (s *Store) write(event string, snap learning.Snapshot) error {
	r := Record{Run: s.run, Event: event, Snapshot: snap}
	b, err := easyjson.Marshal(r)
	if err != nil {
		return err
	}
	err = s.dv.Write(s.key(s.run, s.seq), b)
	s.seq++
	return err
}

// Records reads every stored record of a run, in the order they were written.
func (s *Store) Records(run string) ([]Record, error) {
	var keys []string
	for key := range s.dv.KeysPrefix(run, nil) {
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil, errors.Wrapf(ErrNoRecord, "run %s", run)
	}
	sort.Strings(keys)
	records := make([]Record, len(keys))
	for i, key := range keys {
		b, err := s.dv.Read(key)
		if err != nil {
			return nil, err
		}
		if err := easyjson.Unmarshal(b, &records[i]); err != nil {
			return nil, errors.Wrapf(err, "decoding %s", key)
		}
	}
	return records, nil
}

// Runs lists the identifiers of every run in the store.
func (s *Store) Runs() []string {
	seen := make(map[string]bool)
	var runs []string
	for key := range s.dv.Keys(nil) {
		if len(key) <= 6 {
			continue
		}
		run := key[:len(key)-6]
		if !seen[run] {
			seen[run] = true
			runs = append(runs, run)
		}
	}
	sort.Strings(runs)
	return runs
}

// Err is the first error writing a record, if any. Listener callbacks cannot return
// errors, so they are kept here.
func (s *Store) Err() error {
	return s.err
}

func (s *Store) record(event string, snap learning.Snapshot) {
	if err := s.write(event, snap); err != nil && s.err == nil {
		s.err = err
	}
}

func (s *Store) AlgorithmStarted(snap learning.Snapshot) {
	s.record("started", snap)
}

func (s *Store) IterationCompleted(snap learning.Snapshot) {
	s.record("iteration", snap)
}

func (s *Store) AlgorithmFinished(snap learning.Snapshot) {
	s.record("finished", snap)
}

func (s *Store) AlgorithmTerminated(snap learning.Snapshot) {
	s.record("terminated", snap)
}
