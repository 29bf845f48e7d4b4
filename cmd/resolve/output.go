package resolve

import (
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"github.com/enginehub/squirrelid/pkg/profile"
)

const (
	outputFlag = "output"

	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func writeProfiles(w io.Writer, format string, profiles []profile.Profile) error {
	if profiles == nil {
		profiles = []profile.Profile{}
	}

	switch format {
	case outputText:
		for _, p := range profiles {
			if _, err := fmt.Fprintf(w, "%s %s\n", p.ID, p.Name); err != nil {
				return err
			}
		}
		return nil
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(profiles)
	case outputYAML:
		out, err := yaml.Marshal(profiles)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown output format '%s', must be one of ['text', 'json', 'yaml']", format)
	}
}
