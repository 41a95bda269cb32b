package catalog

import (
	"encoding/json"
	"errors"
	"io/fs"
	"strings"

	"github.com/cloudglass-tools/cloudglass/capi"
)

// ManifestFromFile loads a command manifest from a filesystem path.
//
// Errors:
//
//    - cloudglass-error-missing -- when no file exists at the path
//    - cloudglass-error-io -- for other errors reading from fsys
//    - cloudglass-error-serialization -- when the file is not valid JSON
//    - cloudglass-error-not-a-command -- when the capsule envelope is absent
func ManifestFromFile(fsys fs.FS, filename string) (*capi.Manifest, error) {
	const situation = "loading a command manifest"
	if strings.HasPrefix(filename, "/") {
		filename = filename[1:]
	}
	f, err := fs.ReadFile(fsys, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, capi.ErrorMissing(filename, err)
		}
		return nil, capi.ErrorIo(situation, filename, err)
	}

	capsule := capi.CommandCapsule{}
	if err := json.Unmarshal(f, &capsule); err != nil {
		return nil, capi.ErrorSerialization(situation, err)
	}
	if capsule.Command == nil {
		return nil, capi.ErrorNotACommand(filename)
	}
	return capsule.Command, nil
}

// loadedCommand is the Command implementation backing a decoded manifest,
// with its action bound.
type loadedCommand struct {
	manifest capi.Manifest
	name     string
	action   Action
}

func (c *loadedCommand) Name() string { return c.name }
func (c *loadedCommand) Aliases() []string { return c.manifest.Aliases }
func (c *loadedCommand) Description() string { return c.manifest.Description }
func (c *loadedCommand) Options() []string { return c.manifest.Options }
func (c *loadedCommand) Types() *capi.TypeHints { return c.manifest.Types }
func (c *loadedCommand) AllowUnknownOptions() bool { return c.manifest.AllowUnknownOptions }
func (c *loadedCommand) Validate() capi.ValidateFunc {
	return c.action.Validate
}
func (c *loadedCommand) Action() capi.ActionFunc {
	return c.action.Run
}
