// Package record saves played games so they can be replayed or exported for analysis.
package record

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"chase/engine"
	"chase/game"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Extension is the file extension of saved recordings.
const Extension = ".json.zst"

var ErrInvalidRecording = errors.New("invalid recording")

//go:embed schema.json
var schemaText string

var schema = jsonschema.MustCompileString("recording.schema.json", schemaText)

// Recording is everything needed to replay a game: the board, the rules, the number of
// pursuers that played and the move history.
type Recording struct {
	ID          string            `json:"id"`
	Layout      string            `json:"layout"`
	Board       []string          `json:"board"`
	Rules       game.ClassicRules `json:"rules"`
	NumPursuers int               `json:"num_pursuers"`
	Moves       []engine.Step     `json:"moves"`
	Score       int               `json:"score"`
	Status      string            `json:"status"`
	PlayedAt    time.Time         `json:"played_at"`
}

// New records a game that started from initial and ended with result.
func New(initial *game.GameState, moves []engine.Step, result engine.Result) (*Recording, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate recording id: %w", err)
	}
	board := initial.Board()
	return &Recording{
		ID:          id.String(),
		Layout:      board.Name,
		Board:       board.Lines(),
		Rules:       game.Snapshot(initial.Rules()),
		NumPursuers: initial.NumAgents() - 1,
		Moves:       append([]engine.Step{}, moves...),
		Score:       result.Score,
		Status:      result.Status.String(),
		PlayedAt:    result.Game.StartTime.UTC(),
	}, nil
}

// InitialState rebuilds the state the recorded game started from under the recorded rules.
func (r *Recording) InitialState() (*game.GameState, error) {
	board, err := game.ParseBoard(r.Layout, r.Board)
	if err != nil {
		return nil, err
	}
	rules := r.Rules
	return game.NewGameState(board, &rules, r.NumPursuers), nil
}

// FileName names the recording of the i-th game of a run.
func FileName(i int, at time.Time) string {
	return fmt.Sprintf("recorded-game-%d-%s%s", i, at.Format("01-02-15-04-05"), Extension)
}

// Save writes r to path as zstd-compressed JSON.
func Save(path string, r *Recording) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(enc)
	if err := json.NewEncoder(bw).Encode(r); err != nil {
		enc.Close()
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

// Load reads a recording written by Save. The content is checked against the recording
// schema before it is decoded.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	data, err := io.ReadAll(bufio.NewReader(dec))
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return Decode(data)
}

// Decode validates and decodes an uncompressed recording.
func Decode(data []byte) (*Recording, error) {
	var doc any
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	if err := d.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecording, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecording, err)
	}

	var r Recording
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecording, err)
	}
	return &r, nil
}
