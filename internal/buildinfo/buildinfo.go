package buildinfo

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/utils"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Set with -ldflags "-X github.com/VybCoding/OneWonderLake/internal/buildinfo.Version=..."
var (
	Version = ""
	Commit  = ""
)

const devVersion = "1.1.dev"

type Info struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	BuildTime string `json:"buildTime"`
	GitCommit string `json:"gitCommit"`
}

// Candidates lists where build-info.json is looked for, in order. An
// explicit path comes first when set.
func Candidates(explicit string) []string {
	var out []string
	if explicit != "" {
		out = append(out, explicit)
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return append(out,
		filepath.Join(wd, "build-info.json"),
		filepath.Join(wd, "dist", "build-info.json"),
	)
}

// Load returns the first readable build-info.json among paths, falling back
// to linker and module build settings.
func Load(paths []string, now time.Time) Info {
	log := zap.L().Named("buildinfo")
	for _, p := range paths {
		info, err := readFile(p)
		if err == nil {
			log.Info("loaded build info", zap.String("path", p), zap.String("version", info.Version))
			return info
		}
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("could not load build info", zap.String("path", p), zap.Error(err))
		}
	}
	return fallback(now)
}

func readFile(path string) (Info, error) {
	var info Info
	raw, err := os.ReadFile(path)
	if err != nil {
		return info, eris.Wrap(err, "buildinfo: read")
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return info, eris.Wrap(err, "buildinfo: parse")
	}
	return info, nil
}

func fallback(now time.Time) Info {
	now = now.UTC()
	info := Info{
		Version:   devVersion,
		BuildDate: now.Format(time.DateOnly),
		BuildTime: now.Format(time.RFC3339),
		GitCommit: "unknown",
	}
	if Version != "" {
		info.Version = Version
	}
	if Commit != "" {
		info.GitCommit = Commit
		return info
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				info.GitCommit = s.Value[:7]
			}
		}
	}
	return info
}

type Handler struct {
	info Info
}

func NewHandler(info Info) *Handler {
	return &Handler{info: info}
}

func (h *Handler) BuildInfoHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.info)
}
