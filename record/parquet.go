package record

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// MoveRow is one move of a recorded game in the tabular export.
type MoveRow struct {
	GameID     string `parquet:"game_id,dict"`
	Layout     string `parquet:"layout,dict"`
	Step       int32  `parquet:"step"`
	Agent      int32  `parquet:"agent"`
	Move       string `parquet:"move,dict"`
	FinalScore int32  `parquet:"final_score"`
	Status     string `parquet:"status,dict"`
}

// Rows flattens recordings into one row per move.
func Rows(recordings []*Recording) []MoveRow {
	var rows []MoveRow
	for _, r := range recordings {
		for i, step := range r.Moves {
			rows = append(rows, MoveRow{
				GameID:     r.ID,
				Layout:     r.Layout,
				Step:       int32(i + 1),
				Agent:      int32(step.Agent),
				Move:       string(step.Move),
				FinalScore: int32(r.Score),
				Status:     r.Status,
			})
		}
	}
	return rows
}

// ExportParquet writes the moves of recordings to a parquet file at path.
func ExportParquet(path string, recordings []*Recording) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// Write to a temp file and rename atomically.
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, Rows(recordings),
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "move_v1"),
	); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}
