// Package drafts keeps whole-form report snapshots. The most recent save
// for a key wins; there is no versioning.
package drafts

import (
	"cctareport.com/engine/types"
	"cctareport.com/engine/utils"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const DefaultKey = "cctaReportDraft"

var ErrNotFound = errors.New("draft not found")

// Draft is an opaque snapshot: the report record plus the raw form values
// it was collected from.
type Draft struct {
	Report  *types.Report          `json:"report,omitempty"`
	Inputs  map[string]interface{} `json:"inputs,omitempty"`
	SavedAt time.Time              `json:"saved_at"`
}

type Store interface {
	Save(key string, draft Draft) error
	Load(key string) (Draft, error)
	// Patch applies a JSON merge patch to the stored snapshot.
	Patch(key string, patch []byte) (Draft, error)
	Delete(key string) error
}

// Fingerprint hashes the content of a draft, ignoring when it was saved.
func Fingerprint(draft Draft) (uint64, error) {
	report, err := json.Marshal(draft.Report)
	if err != nil {
		return 0, fmt.Errorf("fingerprint report: %w", err)
	}
	inputs, err := json.Marshal(draft.Inputs)
	if err != nil {
		return 0, fmt.Errorf("fingerprint inputs: %w", err)
	}
	return utils.HashBytes(report, inputs), nil
}

func decode(b []byte) (Draft, error) {
	var draft Draft
	if err := json.Unmarshal(b, &draft); err != nil {
		return Draft{}, fmt.Errorf("decode draft: %w", err)
	}
	return draft, nil
}
