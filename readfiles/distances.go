package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// WriteDistances persists one scalar per line, in input vertex order.
func WriteDistances(filename string, dist []float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("unable to create distance file %s: %w", filename, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, d := range dist {
		if _, err = fmt.Fprintf(w, "%.17g\n", d); err != nil {
			return fmt.Errorf("writing distance file %s: %w", filename, err)
		}
	}
	return w.Flush()
}

// ReadDistances reads a per-vertex scalar file written by WriteDistances.
func ReadDistances(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to read distance file %s: %w", filename, err)
	}
	defer file.Close()
	return readDistances(file)
}

func readDistances(r io.Reader) ([]float64, error) {
	var dist []float64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("bad distance value %q on line %d", line, len(dist)+1)
		}
		dist = append(dist, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return dist, nil
}
