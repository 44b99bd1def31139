package export

import (
	"encoding/json"
	"path/filepath"
	"time"
)

// ManifestFileName is written at the export root when manifests are enabled.
const ManifestFileName = ".blogpress-manifest.json"

const manifestVersion = 1

type manifest struct {
	Version     int            `json:"version"`
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Files       []manifestFile `json:"files"`
}

type manifestFile struct {
	Route    string `json:"route"`
	Kind     string `json:"kind"`
	Output   string `json:"output"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
}

func writeManifest(destRoot string, res *Result, generatedAt time.Time) error {
	m := manifest{
		Version:     manifestVersion,
		RunID:       res.RunID,
		GeneratedAt: generatedAt.UTC(),
		Files:       make([]manifestFile, 0, len(res.Files)),
	}
	for _, f := range res.Files {
		m.Files = append(m.Files, manifestFile{
			Route:    f.Route,
			Kind:     string(f.Kind),
			Output:   f.Path,
			Size:     f.Size,
			Checksum: f.Checksum,
		})
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(destRoot, ManifestFileName), append(data, '\n'))
}
