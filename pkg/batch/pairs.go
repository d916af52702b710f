package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Pair is a clean and a noisy recording sharing the same file name.
type Pair struct {
	Name       string
	CleanPath  string
	NoisyPath  string
	OutputPath string
}

// ListAudioFiles returns file name -> path of the files directly in dir
// whose name ends with extension. Subdirectories are not descended into.
func ListAudioFiles(dir string, extension string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to list '%s': %w", dir, err)
	}

	result := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, extension) {
			continue
		}
		result[name] = filepath.Join(dir, name)
	}
	return result, nil
}

// MatchPairs returns the pairs for the file names present in both maps,
// sorted by name.
func MatchPairs(
	cleanFiles map[string]string,
	noisyFiles map[string]string,
	outputDir string,
) []Pair {
	var pairs []Pair
	for name, cleanPath := range cleanFiles {
		noisyPath, ok := noisyFiles[name]
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{
			Name:       name,
			CleanPath:  cleanPath,
			NoisyPath:  noisyPath,
			OutputPath: filepath.Join(outputDir, name),
		})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Name < pairs[j].Name
	})
	return pairs
}
