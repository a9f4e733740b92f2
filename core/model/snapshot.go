package model

import (
	"encoding/json"

	"github.com/YuminosukeSato/framekit/pkg/errors"
)

// SnapshotVersion はスナップショット形式のバージョン
const SnapshotVersion = "1"

// Snapshot は学習済み変換器の状態を表す構造体（監査・デバッグ用のシリアライゼーション）
type Snapshot struct {
	// Transformer は変換器の種類（CombinationOHE, CategoryToValue等）
	Transformer string `json:"transformer"`

	// Version はスナップショット形式のバージョン（互換性チェック用）
	Version string `json:"version"`

	// Params は変換器のハイパーパラメータ
	Params map[string]interface{} `json:"params"`

	// State は学習済みのスキーマと次元
	State ModelState `json:"state"`

	// Metadata は変換器固有の追加情報（発見したカテゴリ等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// NewSnapshot は変換器のパラメータと学習状態からスナップショットを作成する
func NewSnapshot(transformer string, p Parameterized, state *StateManager) *Snapshot {
	return &Snapshot{
		Transformer: transformer,
		Version:     SnapshotVersion,
		Params:      p.GetParams(),
		State:       state.GetState(),
		Metadata:    make(map[string]interface{}),
	}
}

// ToJSON はSnapshotをJSON形式にシリアライズ
func (s *Snapshot) ToJSON() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot of %s", s.Transformer)
	}
	return data, nil
}

// Validate はSnapshotの妥当性を検証
func (s *Snapshot) Validate() error {
	if s.Transformer == "" {
		return errors.NewValidationError("transformer", "transformer is required", s.Transformer)
	}
	if s.Version != SnapshotVersion {
		return errors.NewValidationError("version", "unsupported snapshot version", s.Version)
	}
	if !s.State.Fitted && len(s.State.Columns) > 0 {
		return errors.NewValidationError("state", "unfitted transformer should not have columns", s.State.Columns)
	}
	return nil
}
