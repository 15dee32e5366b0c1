package track

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"racing-sim/internal/common"
)

const (
	trackFile   = "track.json"
	previewFile = "preview.png"
	namePrefix  = "Track-"
)

// NotFoundError is returned by Store.Load for an unknown track name.
type NotFoundError struct {
	Name  string
	Known []string
}

func (e *NotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("track %q not found, no tracks saved yet", e.Name)
	}
	return fmt.Sprintf("track %q not found, known tracks: %s", e.Name, strings.Join(e.Known, ", "))
}

// Store keeps every track in its own directory under Root.
type Store struct {
	Root string
}

type trackPayload struct {
	Left      [][2]float64 `json:"left"`
	Right     [][2]float64 `json:"right"`
	Waypoints [][2]float64 `json:"waypoints"`
	Closed    bool         `json:"closed"`
}

// List returns the names of every stored track, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not list tracks in %s", s.Root)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.Root, e.Name(), trackFile)); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load reads the named track.
func (s *Store) Load(name string) (*Track, error) {
	data, err := os.ReadFile(filepath.Join(s.Root, name, trackFile))
	if os.IsNotExist(err) {
		known, listErr := s.List()
		if listErr != nil {
			return nil, listErr
		}
		return nil, &NotFoundError{Name: name, Known: known}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not read track %s", name)
	}

	var payload trackPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrapf(err, "could not decode track %s", name)
	}

	return &Track{
		Name:      name,
		Left:      fromPairs(payload.Left),
		Right:     fromPairs(payload.Right),
		Waypoints: fromPairs(payload.Waypoints),
		Closed:    payload.Closed,
	}, nil
}

// Save writes t recentred on its first waypoint. An unnamed track gets the
// smallest free Track-N name. The stored name is returned.
func (s *Store) Save(t *Track) (string, error) {
	name := t.Name
	if name == "" {
		var err error
		if name, err = s.NextName(); err != nil {
			return "", err
		}
	}

	out := t.Recentered()
	payload := trackPayload{
		Left:      toPairs(out.Left),
		Right:     toPairs(out.Right),
		Waypoints: toPairs(out.Waypoints),
		Closed:    out.Closed,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", errors.Wrapf(err, "could not encode track %s", name)
	}

	dir := filepath.Join(s.Root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "could not create track directory %s", dir)
	}
	if err := os.WriteFile(filepath.Join(dir, trackFile), data, 0o644); err != nil {
		return "", errors.Wrapf(err, "could not write track %s", name)
	}
	return name, nil
}

// NextName returns the smallest Track-N not used by a directory in Root.
func (s *Store) NextName() (string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil && !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "could not list tracks in %s", s.Root)
	}

	used := make(map[int]bool)
	for _, e := range entries {
		if n, err := strconv.Atoi(strings.TrimPrefix(e.Name(), namePrefix)); err == nil && strings.HasPrefix(e.Name(), namePrefix) {
			used[n] = true
		}
	}
	n := 1
	for used[n] {
		n++
	}
	return namePrefix + strconv.Itoa(n), nil
}

// PreviewPath is where the preview image of the named track lives.
func (s *Store) PreviewPath(name string) string {
	return filepath.Join(s.Root, name, previewFile)
}

func toPairs(pts []common.Vec2) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func fromPairs(pairs [][2]float64) []common.Vec2 {
	out := make([]common.Vec2, len(pairs))
	for i, p := range pairs {
		out[i] = common.V(p[0], p[1])
	}
	return out
}
