package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/kinogram/kino/progress"
	"github.com/kinogram/kino/session"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().BoolP("progress", "p", false, "Generate the JSON Schema of the saved progress records")
}

var stateType = reflect.TypeOf(session.State(0))

// schemaCmd generates JSON schemas for the structured outputs.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON Schema of the session snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "snapshot", "movie", "sources", "record":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}
		reflector.Mapper = func(t reflect.Type) *jsonschema.Schema {
			if t != stateType {
				return nil
			}
			return &jsonschema.Schema{
				Type: "string",
				Enum: lo.Map([]session.State{
					session.Idle, session.Loading, session.Playing,
					session.Paused, session.Ended, session.Errored,
				}, func(s session.State, _ int) any { return s.String() }),
			}
		}

		var schema *jsonschema.Schema

		switch {
		case lo.Must(cmd.Flags().GetBool("progress")):
			schema = reflector.Reflect([]*progress.Record{})
		default:
			schema = reflector.Reflect(&session.Snapshot{})
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
