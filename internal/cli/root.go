// Package cli implements planogramctl, the operator command line for the
// planogram assignment store.
package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/service"
	"github.com/expotoworld/expotoworld/backend/planogram-service/internal/store"
	"github.com/spf13/cobra"
)

// Uploader writes JSON documents to object storage
type Uploader interface {
	Enabled() bool
	UploadJSON(ctx context.Context, key string, v any) (string, error)
}

// App holds everything the commands operate on
type App struct {
	Repo         store.Repository
	Transitions  *service.Transitions
	Uploader     Uploader
	ExportPrefix string
	// Persistent is false when Repo lives only in this process
	Persistent bool
}

// NewRootCmd creates the top-level "planogramctl" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var asJSON bool

	root := &cobra.Command{
		Use:           "planogramctl",
		Short:         "Query and manage planogram store assignments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	out := func(cmd *cobra.Command) printer {
		return printer{w: cmd.OutOrStdout(), json: asJSON}
	}

	root.AddCommand(
		newListCmd(app, out),
		newSummaryCmd(app, out),
		newRecentCmd(app, out),
		newShowCmd(app, out),
		newTransitionCmd(app, out),
		newSweepCmd(app, out),
		newExportCmd(app, out),
	)

	return root
}

type printer struct {
	w    io.Writer
	json bool
}

func (p printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
