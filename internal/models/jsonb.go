package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/wod-analyzer/backend/internal/types"
)

// AnalysisJSON stores a WodAnalysis in a JSONB column
type AnalysisJSON types.WodAnalysis

// Value implements the driver.Valuer interface
func (a AnalysisJSON) Value() (driver.Value, error) {
	data, err := json.Marshal(types.WodAnalysis(a))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (a *AnalysisJSON) Scan(value interface{}) error {
	if value == nil {
		*a = AnalysisJSON{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported analysis column type %T", value)
	}

	var analysis types.WodAnalysis
	if err := json.Unmarshal(bytes, &analysis); err != nil {
		return err
	}
	*a = AnalysisJSON(analysis)
	return nil
}

// MarshalJSON keeps the API shape identical to types.WodAnalysis
func (a AnalysisJSON) MarshalJSON() ([]byte, error) {
	return json.Marshal(types.WodAnalysis(a))
}

// UnmarshalJSON mirrors MarshalJSON
func (a *AnalysisJSON) UnmarshalJSON(data []byte) error {
	var analysis types.WodAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return err
	}
	*a = AnalysisJSON(analysis)
	return nil
}

// LoadProfile is the pgvector embedding of an entry's training load.
// Rows written without one scan as an empty vector.
type LoadProfile struct {
	pgvector.Vector
}

// NewLoadProfile wraps raw vector components
func NewLoadProfile(components []float32) LoadProfile {
	return LoadProfile{Vector: pgvector.NewVector(components)}
}

// Value implements the driver.Valuer interface
func (p LoadProfile) Value() (driver.Value, error) {
	if len(p.Slice()) == 0 {
		return nil, nil
	}
	return p.Vector.Value()
}

// Scan implements the sql.Scanner interface
func (p *LoadProfile) Scan(value interface{}) error {
	if value == nil {
		p.Vector = pgvector.NewVector(nil)
		return nil
	}
	return p.Vector.Scan(value)
}
