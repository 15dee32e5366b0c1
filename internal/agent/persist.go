package agent

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

type tableEntry struct {
	State  State     `json:"state"`
	Values []float64 `json:"q"`
}

type tableFile struct {
	Config  Config       `json:"config"`
	Epsilon float64      `json:"epsilon"`
	Entries []tableEntry `json:"entries"`
}

// Save writes the agent's Q-table and settings to path.
func (a *AgentQTable) Save(path string) error {
	out := tableFile{Config: a.Config, Epsilon: a.Epsilon}
	for s, q := range a.QTable {
		out.Entries = append(out.Entries, tableEntry{State: s, Values: q})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return errors.Wrap(err, "could not encode q-table")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "could not write q-table %s", path)
	}
	return nil
}

// Load reads an agent written by Save.
func Load(path string, seed int64) (*AgentQTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read q-table %s", path)
	}

	var in tableFile
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrapf(err, "could not decode q-table %s", path)
	}

	a := NewAgent(in.Config, seed)
	a.Epsilon = in.Epsilon
	for _, e := range in.Entries {
		if len(e.Values) != in.Config.Actions() {
			return nil, errors.Errorf("q-table %s: entry has %d actions, want %d", path, len(e.Values), in.Config.Actions())
		}
		a.QTable[e.State] = e.Values
	}
	return a, nil
}
