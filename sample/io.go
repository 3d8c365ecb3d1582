package sample

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const onceComment = "# once:"

// SampleToJSON encodes s as JSON.
func SampleToJSON(s Sample) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// JSONToSample decodes a JSON sample.
func JSONToSample(sampleJSON string) (Sample, error) {
	var s Sample
	if err := json.Unmarshal([]byte(sampleJSON), &s); err != nil {
		return Sample{}, err
	}
	if s.Values == nil {
		s.Values = []int32{}
	}
	return s, nil
}

// WriteText writes one value per line. The value that appears once, when
// known, is recorded in a leading comment.
func WriteText(w io.Writer, s Sample) error {
	bw := bufio.NewWriter(w)
	if s.Once != nil {
		fmt.Fprintf(bw, "%s %d\n", onceComment, *s.Once)
	}
	for _, v := range s.Values {
		bw.WriteString(strconv.FormatInt(int64(v), 10))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadText reads one value per line. Empty lines and lines starting with '#'
// are skipped, except for the once comment written by WriteText.
func ReadText(r io.Reader) (Sample, error) {
	s := Sample{Values: []int32{}}
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, onceComment) {
			v, err := ParseValue(strings.TrimPrefix(line, onceComment))
			if err != nil {
				return Sample{}, fmt.Errorf("line %d: %w", lineNum, err)
			}
			s.Once = &v
			continue
		}

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		v, err := ParseValue(line)
		if err != nil {
			return Sample{}, fmt.Errorf("line %d: %w", lineNum, err)
		}
		s.Values = append(s.Values, v)
	}

	if err := scanner.Err(); err != nil {
		return Sample{}, err
	}
	return s, nil
}

func isJSONPath(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".json")
}

// WriteFile stores s as JSON when filename ends in .json and as text otherwise.
func WriteFile(filename string, s Sample) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create sample file %s: %w", filename, err)
	}
	defer file.Close()

	if isJSONPath(filename) {
		sampleJSON, err := SampleToJSON(s)
		if err != nil {
			return err
		}
		_, err = file.WriteString(sampleJSON)
		return err
	}
	return WriteText(file, s)
}

// ReadFile loads a sample written by WriteFile or by hand.
func ReadFile(filename string) (Sample, error) {
	if isJSONPath(filename) {
		content, err := os.ReadFile(filename)
		if err != nil {
			return Sample{}, err
		}
		s, err := JSONToSample(string(content))
		if err != nil {
			return Sample{}, fmt.Errorf("failed to parse sample file %s: %w", filename, err)
		}
		return s, nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return Sample{}, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	s, err := ReadText(file)
	if err != nil {
		return Sample{}, fmt.Errorf("error reading file %s: %w", filename, err)
	}
	return s, nil
}
