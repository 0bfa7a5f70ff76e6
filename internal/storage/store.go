package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/fracterm/internal/density"
	"github.com/san-kum/fracterm/internal/orbit"
	"github.com/san-kum/fracterm/internal/plane"
)

const (
	metadataFile = "metadata.json"
	gridFile     = "grid.csv"
)

var ErrCorrupt = errors.New("corrupt session")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// Window is a plane rectangle as stored on disk.
type Window struct {
	CornerRe float64 `json:"corner_re"`
	CornerIm float64 `json:"corner_im"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rows     int     `json:"rows,omitempty"`
	Columns  int     `json:"columns,omitempty"`
}

type RuleMetadata struct {
	Transform string  `json:"transform"`
	PowerRe   float64 `json:"power_re"`
	PowerIm   float64 `json:"power_im"`
	Radius    float64 `json:"radius"`
}

type SessionMetadata struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Timestamp time.Time    `json:"timestamp"`
	Seed      int64        `json:"seed"`
	Plot      Window       `json:"plot"`
	Farm      Window       `json:"farm"`
	Rule      RuleMetadata `json:"rule"`
	MinIters  int          `json:"min_iters"`
	MaxIters  int          `json:"max_iters"`
	Samples   int64        `json:"samples"`
	Plotted   int64        `json:"plotted"`
	Gamma     float64      `json:"gamma"`
	Max       uint32       `json:"max"`
	Total     uint64       `json:"total"`
	Coverage  float64      `json:"coverage"`
}

// Session describes how a grid was accumulated.
type Session struct {
	Name     string
	Rule     orbit.Rule
	Farm     density.Region
	MinIters int
	MaxIters int
	Samples  int64
	Plotted  int64
	Seed     int64
	Gamma    float64
}

func (m *SessionMetadata) View() (plane.Viewport, error) {
	return plane.New(complex(m.Plot.CornerRe, m.Plot.CornerIm), m.Plot.Width, m.Plot.Height, m.Plot.Rows, m.Plot.Columns)
}

func (m *SessionMetadata) Region() density.Region {
	return density.Region{Corner: complex(m.Farm.CornerRe, m.Farm.CornerIm), Width: m.Farm.Width, Height: m.Farm.Height}
}

// GetRule rebuilds the rule the session sampled with. Buddhabrot orbits
// replace the param per sample, so it is not stored.
func (m *SessionMetadata) GetRule() (orbit.Rule, error) {
	t, err := orbit.ParseTransform(m.Rule.Transform)
	if err != nil {
		return orbit.Rule{}, err
	}
	return orbit.NewRule(t, complex(m.Rule.PowerRe, m.Rule.PowerIm), 0, m.Rule.Radius)
}

func (s *Store) newID(name string) string {
	base := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	id := base
	for n := 1; ; n++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, id)); os.IsNotExist(err) {
			return id
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

func (s *Store) Save(grid *density.Grid, sess Session) (string, error) {
	if sess.Name == "" {
		sess.Name = "buddha"
	}
	id := s.newID(sess.Name)
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	view := grid.View()
	stats := grid.Stats()
	meta := SessionMetadata{
		ID:        id,
		Name:      sess.Name,
		Timestamp: time.Now(),
		Seed:      sess.Seed,
		Plot: Window{
			CornerRe: real(view.Corner), CornerIm: imag(view.Corner),
			Width: view.Width, Height: view.Height,
			Rows: view.Rows, Columns: view.Columns,
		},
		Farm: Window{
			CornerRe: real(sess.Farm.Corner), CornerIm: imag(sess.Farm.Corner),
			Width: sess.Farm.Width, Height: sess.Farm.Height,
		},
		Rule: RuleMetadata{
			Transform: sess.Rule.Transform.String(),
			PowerRe:   real(sess.Rule.Power),
			PowerIm:   imag(sess.Rule.Power),
			Radius:    sess.Rule.Radius,
		},
		MinIters: sess.MinIters,
		MaxIters: sess.MaxIters,
		Samples:  sess.Samples,
		Plotted:  sess.Plotted,
		Gamma:    sess.Gamma,
		Max:      stats.Max,
		Total:    stats.Total,
		Coverage: stats.Coverage,
	}

	metaFile, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(dir, gridFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	row := make([]string, view.Columns)
	for r := 0; r < view.Rows; r++ {
		for c := range row {
			row[c] = strconv.FormatUint(uint64(grid.At(r, c)), 10)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return id, nil
}

// List returns stored sessions, newest first. Directories without
// readable metadata are skipped.
func (s *Store) List() ([]SessionMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionMetadata{}, nil
		}
		return nil, err
	}

	sessions := make([]SessionMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		sessions = append(sessions, *meta)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Timestamp.After(sessions[j].Timestamp)
	})
	return sessions, nil
}

func (s *Store) Load(id string) (*SessionMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta SessionMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, id, err)
	}

	return &meta, nil
}

// LoadGrid rebuilds the stored histogram.
func (s *Store) LoadGrid(id string) (*density.Grid, *SessionMetadata, error) {
	meta, err := s.Load(id)
	if err != nil {
		return nil, nil, err
	}
	view, err := meta.View()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, id, err)
	}
	grid, err := density.NewGrid(view)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, id, gridFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = view.Columns
	r.ReuseRecord = true

	for row := 0; row < view.Rows; row++ {
		record, err := r.Read()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s row %d: %w", ErrCorrupt, id, row, err)
		}
		for c, field := range record {
			v, err := strconv.ParseUint(field, 10, 32)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %s row %d col %d: %w", ErrCorrupt, id, row, c, err)
			}
			grid.Set(row, c, uint32(v))
		}
	}

	return grid, meta, nil
}

func (s *Store) Delete(id string) error {
	dir := filepath.Join(s.baseDir, id)
	if _, err := os.Stat(filepath.Join(dir, metadataFile)); err != nil {
		return err
	}
	return os.RemoveAll(dir)
}
