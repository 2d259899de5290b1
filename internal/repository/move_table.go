package repository

import (
	"math"
	"sort"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

const DefaultWeight = 0.5

// MoveTable maps canonical board keys to learned weights in [0,1].
//
// The table is not synchronized. Only one goroutine may use it at a time:
// the loader until it publishes readiness, then the foreground that plays
// games and flushes. Nothing else keeps a copy of the weights.
type MoveTable struct {
	weights       map[string]float64
	defaultWeight float64
}

func NewMoveTable(defaultWeight float64) *MoveTable {
	return &MoveTable{
		weights:       make(map[string]float64),
		defaultWeight: clamp(defaultWeight, DefaultWeight),
	}
}

// GetOrInit returns the weight of key, inserting the default weight first if
// the key has never been seen.
func (that *MoveTable) GetOrInit(key string) float64 {
	if weight, ok := that.weights[key]; ok {
		return weight
	}

	that.weights[key] = that.defaultWeight

	return that.defaultWeight
}

func (that *MoveTable) Get(key string) (float64, bool) {
	weight, ok := that.weights[key]
	return weight, ok
}

// Set stores weight clamped to [0,1]. NaN is replaced by the default weight.
func (that *MoveTable) Set(key string, weight float64) {
	that.weights[key] = clamp(weight, that.defaultWeight)
}

func (that *MoveTable) Len() int {
	return len(that.weights)
}

func (that *MoveTable) DefaultWeight() float64 {
	return that.defaultWeight
}

// Snapshot copies the table into a slice sorted by key.
func (that *MoveTable) Snapshot() []entity.WeightRecord {
	records := make([]entity.WeightRecord, 0, len(that.weights))
	for key, weight := range that.weights {
		records = append(records, entity.WeightRecord{Key: key, Weight: weight})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Key < records[j].Key
	})

	return records
}

func clamp(weight, fallback float64) float64 {
	switch {
	case math.IsNaN(weight):
		return fallback
	case weight < 0:
		return 0
	case weight > 1:
		return 1
	default:
		return weight
	}
}
