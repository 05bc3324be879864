// Package ratings loads a user-item ratings CSV (userId,movieId,rating,
// the MovieLens layout) into the map-of-maps shape internal/expand
// consumes, mean-centering each user's ratings the way the original
// preprocessing normalized them before similarity expansion.
package ratings

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// LoadCSV reads a "userId,movieId,rating[,timestamp]" CSV (header row
// skipped) into userID -> {itemID: rating}.
func LoadCSV(path string) (map[int]map[int]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ratings: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	matrix := make(map[int]map[int]float64)
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ratings: read %s: %w", path, err)
		}
		if first {
			first = false
			continue
		}
		if len(rec) < 3 || rec[0] == "" || rec[1] == "" || rec[2] == "" {
			continue
		}

		userID, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		itemID, err := strconv.Atoi(rec[1])
		if err != nil {
			continue
		}
		rating, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			continue
		}

		if matrix[userID] == nil {
			matrix[userID] = make(map[int]float64)
		}
		matrix[userID][itemID] = rating
	}

	normalize(matrix)
	return matrix, nil
}

// normalize mean-centers each user's ratings, so the dot products the
// engine accumulates measure deviation from a user's average taste
// rather than raw rating scale.
func normalize(matrix map[int]map[int]float64) {
	for _, items := range matrix {
		if len(items) == 0 {
			continue
		}
		var sum float64
		for _, r := range items {
			sum += r
		}
		mean := sum / float64(len(items))
		for item, r := range items {
			items[item] = r - mean
		}
	}
}
